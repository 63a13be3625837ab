package store

import (
	"context"
	"testing"

	"planboard/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestSQLiteStateStore_SaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	db := &DB{
		Version: 1,
		Projects: []model.Project{
			{ID: "b", Name: "Zweites", Status: model.StatusAuftrag, Timeline: []model.TimelineEntry{{Week: 7, Code: "FM", Category: model.CategoryExecution}}},
			{ID: "a", Name: "Erstes", Status: model.StatusAngebot, Timeline: []model.TimelineEntry{}},
		},
	}
	if err := s.Save(ctx, db); err != nil {
		t.Fatalf("save sqlite: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load sqlite: %v", err)
	}
	if diff := cmp.Diff(db.Projects, got.Projects); diff != "" {
		t.Fatalf("projects mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStateStore_SeedsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(first.Projects) != len(Seed().Projects) {
		t.Fatalf("expected seed projects on first load, got %d", len(first.Projects))
	}

	// Deleting every project must not bring the seed back.
	if err := s.Save(ctx, &DB{Version: 1, Projects: []model.Project{}}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	again, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(again.Projects) != 0 {
		t.Fatalf("expected empty workspace to stay empty, got %d projects", len(again.Projects))
	}
}

func TestEphemeralStore(t *testing.T) {
	ctx := context.Background()
	s := Store{}
	db, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Projects) == 0 {
		t.Fatalf("expected seed data")
	}
	if err := s.Save(ctx, &DB{}); err != nil {
		t.Fatalf("save should be a no-op: %v", err)
	}
	if err := s.AppendEvent(ctx, "cell.set", "p1", nil); err != nil {
		t.Fatalf("append should be a no-op: %v", err)
	}
	if !s.ModTime().IsZero() {
		t.Fatalf("expected zero modtime for ephemeral store")
	}
}

func TestDBClone_IsDeep(t *testing.T) {
	db := Seed()
	c := db.Clone()
	c.Projects[0].Timeline[0].Code = "changed"
	c.Projects[0].Name = "changed"
	if db.Projects[0].Timeline[0].Code == "changed" || db.Projects[0].Name == "changed" {
		t.Fatalf("expected clone to be independent of original")
	}
}
