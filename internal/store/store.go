package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"planboard/internal/model"
)

const sqliteFileName = "planboard.sqlite"

// DB is the serializable application state: the ordered project list.
type DB struct {
	Version  int             `json:"version"`
	Projects []model.Project `json:"projects"`
}

// Store persists a DB under Dir. An empty Dir is an ephemeral store: Load returns
// the seed data and Save/AppendEvent are no-ops.
type Store struct {
	Dir string
}

func (s Store) Ephemeral() bool {
	return strings.TrimSpace(s.Dir) == ""
}

func (s Store) Ensure() error {
	if s.Ephemeral() {
		return nil
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// IsDataFile reports whether name (a path or base name) is the sqlite database or one
// of its WAL/SHM companions.
func IsDataFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), sqliteFileName)
}

// DefaultDir is ~/.planboard unless PLANBOARD_DIR is set.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("PLANBOARD_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".planboard"), nil
}

// ExpandHome resolves a leading "~/" against the user's home dir.
func ExpandHome(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (s Store) Load(ctx context.Context) (*DB, error) {
	if s.Ephemeral() {
		return Seed(), nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.loadSQLite(ctx)
}

func (s Store) Save(ctx context.Context, db *DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	if s.Ephemeral() {
		return nil
	}
	return s.saveSQLite(ctx, db)
}

// ModTime returns the latest modification time of the sqlite files (db + WAL).
func (s Store) ModTime() time.Time {
	if s.Ephemeral() {
		return time.Time{}
	}
	var latest time.Time
	for _, p := range []string{s.sqlitePath(), s.sqlitePath() + "-wal"} {
		st, err := os.Stat(p)
		if err != nil {
			continue
		}
		if st.ModTime().After(latest) {
			latest = st.ModTime()
		}
	}
	return latest
}

func (db *DB) FindProject(id string) (*model.Project, bool) {
	i := db.ProjectIndex(id)
	if i < 0 {
		return nil, false
	}
	return &db.Projects[i], true
}

// ProjectIndex returns the list position of id or -1.
func (db *DB) ProjectIndex(id string) int {
	if db == nil {
		return -1
	}
	id = strings.TrimSpace(id)
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy, safe to hand to renderers while the original keeps mutating.
func (db *DB) Clone() *DB {
	if db == nil {
		return nil
	}
	out := &DB{Version: db.Version, Projects: make([]model.Project, len(db.Projects))}
	for i, p := range db.Projects {
		p.Timeline = append([]model.TimelineEntry(nil), p.Timeline...)
		out.Projects[i] = p
	}
	return out
}
