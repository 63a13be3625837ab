package store

import (
	"strings"
	"testing"
)

func TestNewProjectID_ShortLowercase(t *testing.T) {
	id, err := NewProjectID(&DB{})
	if err != nil {
		t.Fatalf("NewProjectID: %v", err)
	}
	if got, want := len(id), 9; got != want {
		t.Fatalf("expected id len %d, got %d (%q)", want, got, id)
	}
	if id != strings.ToLower(id) {
		t.Fatalf("expected lowercase id, got %q", id)
	}
}

func TestNewProjectID_AvoidsExisting(t *testing.T) {
	db := Seed()
	seen := map[string]bool{}
	for _, p := range db.Projects {
		seen[p.ID] = true
	}
	for i := 0; i < 50; i++ {
		id, err := NewProjectID(db)
		if err != nil {
			t.Fatalf("NewProjectID: %v", err)
		}
		if seen[id] {
			t.Fatalf("generated id collides with existing project: %q", id)
		}
	}
}
