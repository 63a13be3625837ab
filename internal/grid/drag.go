package grid

import (
	"strconv"
	"strings"
	"sync"

	"planboard/internal/model"
)

// Move is a completed drag: the cell picked up and the cell it was dropped on.
type Move struct {
	From CellRef `json:"from"`
	To   CellRef `json:"to"`
}

// DragSession holds at most one pending move between pick-up and drop.
type DragSession struct {
	mu      sync.Mutex
	src     CellRef
	pending bool
}

// Start picks up src. Empty cells cannot be dragged. A new Start replaces any pending move.
func (d *DragSession) Start(src CellRef, code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if strings.TrimSpace(code) == "" {
		return false
	}
	d.src = src
	d.pending = true
	return true
}

func (d *DragSession) Pending() (CellRef, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.src, d.pending
}

func (d *DragSession) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.src = CellRef{}
	d.pending = false
}

// Drop consumes the pending move. It reports false when nothing was picked up.
func (d *DragSession) Drop(dst CellRef) (Move, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return Move{}, false
	}
	m := Move{From: d.src, To: dst}
	d.src = CellRef{}
	d.pending = false
	return m, true
}

// ParseTransfer decodes a drag payload (project id and week as text).
// Malformed input and weeks outside 1..52 report false and the drag is abandoned.
func ParseTransfer(projectID, week string) (CellRef, bool) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return CellRef{}, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(week))
	if err != nil || !model.ValidWeek(w) {
		return CellRef{}, false
	}
	return CellRef{ProjectID: projectID, Week: w}, true
}
