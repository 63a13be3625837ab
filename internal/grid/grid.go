// Package grid addresses timeline cells by row/column and decides where keyboard
// navigation and drag-and-drop land.
package grid

import (
	"fmt"

	"planboard/internal/model"
)

// Coord is a position in the visible grid: Row is the 0-based index into the filtered
// project list, Col is the week (1..52).
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CellRef names a timeline cell independent of the current filter.
type CellRef struct {
	ProjectID string `json:"projectId"`
	Week      int    `json:"week"`
}

// DOMID is the element id used for the cell's editor in the web dashboard.
func (c CellRef) DOMID() string {
	return fmt.Sprintf("cell-%s-%d", c.ProjectID, c.Week)
}

// Index maps visible grid coordinates to cells and back. It is rebuilt whenever the
// visible project list changes.
type Index struct {
	rows  []string
	byID  map[string]int
	weeks int
}

// BuildIndex indexes the given (already filtered) projects in display order.
func BuildIndex(projects []model.Project) *Index {
	ix := &Index{
		rows:  make([]string, 0, len(projects)),
		byID:  make(map[string]int, len(projects)),
		weeks: model.WeeksPerYear,
	}
	for i, p := range projects {
		ix.rows = append(ix.rows, p.ID)
		if _, dup := ix.byID[p.ID]; !dup {
			ix.byID[p.ID] = i
		}
	}
	return ix
}

func (ix *Index) Rows() int {
	if ix == nil {
		return 0
	}
	return len(ix.rows)
}

// Contains reports whether c addresses a cell in the grid.
func (ix *Index) Contains(c Coord) bool {
	return ix != nil && c.Row >= 0 && c.Row < len(ix.rows) && c.Col >= 1 && c.Col <= ix.weeks
}

// Lookup returns the cell at c.
func (ix *Index) Lookup(c Coord) (CellRef, bool) {
	if !ix.Contains(c) {
		return CellRef{}, false
	}
	return CellRef{ProjectID: ix.rows[c.Row], Week: c.Col}, true
}

// Locate returns the visible position of ref. Cells of filtered-out projects have none.
func (ix *Index) Locate(ref CellRef) (Coord, bool) {
	if ix == nil || !model.ValidWeek(ref.Week) {
		return Coord{}, false
	}
	row, ok := ix.byID[ref.ProjectID]
	if !ok {
		return Coord{}, false
	}
	return Coord{Row: row, Col: ref.Week}, true
}
