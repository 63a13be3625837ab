package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

// NewProjectID returns 9 chars of lowercase base32 (45 bits), unique within db.
func NewProjectID(db *DB) (string, error) {
	for {
		id, err := newRandomID(9)
		if err != nil {
			return "", err
		}
		if db.ProjectIndex(id) < 0 {
			return id, nil
		}
	}
}

func newRandomID(n int) (string, error) {
	b := make([]byte, (n*5+7)/8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return strings.ToLower(enc.EncodeToString(b))[:n], nil
}
