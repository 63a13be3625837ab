package mutate

import (
	"testing"

	"planboard/internal/model"
	"planboard/internal/store"

	"github.com/google/go-cmp/cmp"
)

func cellDB() *store.DB {
	return &store.DB{
		Version: 1,
		Projects: []model.Project{
			{ID: "p1", Status: model.StatusAuftrag, Timeline: []model.TimelineEntry{
				{Week: 3, Code: "FM", Category: model.CategoryExecution},
				{Week: 9, Code: "IBN", Category: model.CategoryMilestone},
			}},
			{ID: "p2", Status: model.StatusAngebot, Timeline: []model.TimelineEntry{
				{Week: 5, Code: "ANG", Category: model.CategoryPlanning},
			}},
		},
	}
}

func TestSetCellValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		project string
		week    int
		text    string
		changed bool
		want    []model.TimelineEntry
	}{
		{
			name: "insert into empty cell uses default category", project: "p1", week: 4, text: "FM", changed: true,
			want: []model.TimelineEntry{
				{Week: 3, Code: "FM", Category: model.CategoryExecution},
				{Week: 9, Code: "IBN", Category: model.CategoryMilestone},
				{Week: 4, Code: "FM", Category: model.CategoryExecution},
			},
		},
		{
			name: "replace keeps category", project: "p1", week: 9, text: "ABN", changed: true,
			want: []model.TimelineEntry{
				{Week: 3, Code: "FM", Category: model.CategoryExecution},
				{Week: 9, Code: "ABN", Category: model.CategoryMilestone},
			},
		},
		{
			name: "whitespace clears", project: "p1", week: 3, text: "   ", changed: true,
			want: []model.TimelineEntry{
				{Week: 9, Code: "IBN", Category: model.CategoryMilestone},
			},
		},
		{
			name: "code stored untrimmed", project: "p1", week: 10, text: " x ", changed: true,
			want: []model.TimelineEntry{
				{Week: 3, Code: "FM", Category: model.CategoryExecution},
				{Week: 9, Code: "IBN", Category: model.CategoryMilestone},
				{Week: 10, Code: " x ", Category: model.CategoryExecution},
			},
		},
		{
			name: "empty text on empty cell is a no-op", project: "p1", week: 20, text: "",
			want: cellDB().Projects[0].Timeline,
		},
		{
			name: "same code is a no-op", project: "p1", week: 3, text: "FM",
			want: cellDB().Projects[0].Timeline,
		},
		{
			name: "unknown project is a no-op", project: "nope", week: 3, text: "FM",
			want: cellDB().Projects[0].Timeline,
		},
		{
			name: "week out of range is a no-op", project: "p1", week: 53, text: "FM",
			want: cellDB().Projects[0].Timeline,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db := cellDB()
			res := SetCellValue(db, tc.project, tc.week, tc.text)
			if res.Changed != tc.changed {
				t.Fatalf("expected changed=%v, got %v", tc.changed, res.Changed)
			}
			if tc.changed && res.EventPayload == nil {
				t.Fatalf("expected event payload for changed result")
			}
			if diff := cmp.Diff(tc.want, db.Projects[0].Timeline); diff != "" {
				t.Fatalf("timeline mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetCellValue_OneEntryPerWeek(t *testing.T) {
	db := cellDB()
	for _, text := range []string{"A", "B", "", "C", "D"} {
		SetCellValue(db, "p2", 7, text)
	}
	n := 0
	for _, e := range db.Projects[1].Timeline {
		if e.Week == 7 {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one entry for week 7, got %d", n)
	}
	if got := db.Projects[1].Code(7); got != "D" {
		t.Fatalf("expected code D, got %q", got)
	}
}

func TestMoveCell_AcrossProjects(t *testing.T) {
	db := cellDB()
	res := MoveCell(db, "p1", 9, "p2", 5)
	if !res.Changed {
		t.Fatalf("expected move to change state")
	}
	if res.Displaced == nil || res.Displaced.Code != "ANG" {
		t.Fatalf("expected displaced ANG entry, got %#v", res.Displaced)
	}
	if _, ok := db.Projects[0].Entry(9); ok {
		t.Fatalf("expected source entry removed")
	}
	want := []model.TimelineEntry{{Week: 5, Code: "IBN", Category: model.CategoryMilestone}}
	if diff := cmp.Diff(want, db.Projects[1].Timeline); diff != "" {
		t.Fatalf("destination mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveCell_WithinProject(t *testing.T) {
	db := cellDB()
	res := MoveCell(db, "p1", 3, "p1", 9)
	if !res.Changed {
		t.Fatalf("expected move to change state")
	}
	want := []model.TimelineEntry{{Week: 9, Code: "FM", Category: model.CategoryExecution}}
	if diff := cmp.Diff(want, db.Projects[0].Timeline); diff != "" {
		t.Fatalf("timeline mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveCell_NoOps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		srcP string
		srcW int
		dstP string
		dstW int
	}{
		{name: "identical coordinates", srcP: "p1", srcW: 3, dstP: "p1", dstW: 3},
		{name: "missing source project", srcP: "nope", srcW: 3, dstP: "p2", dstW: 1},
		{name: "empty source cell", srcP: "p1", srcW: 4, dstP: "p2", dstW: 1},
		{name: "missing destination project", srcP: "p1", srcW: 3, dstP: "gone", dstW: 1},
		{name: "destination week out of range", srcP: "p1", srcW: 3, dstP: "p2", dstW: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db := cellDB()
			if res := MoveCell(db, tc.srcP, tc.srcW, tc.dstP, tc.dstW); res.Changed {
				t.Fatalf("expected no-op, got %#v", res)
			}
			if diff := cmp.Diff(cellDB(), db); diff != "" {
				t.Fatalf("state changed (-want +got):\n%s", diff)
			}
		})
	}
}
