package mutate

import (
	"slices"
	"strings"

	"planboard/internal/model"
	"planboard/internal/store"
)

type CellResult struct {
	ProjectID string
	Week      int
	// Entry is the entry now stored at Week; nil when the cell was cleared.
	Entry *model.TimelineEntry
	// Previous is the entry that was stored before the change, if any.
	Previous     *model.TimelineEntry
	Changed      bool
	EventPayload map[string]any
}

// SetCellValue applies an in-place edit of one timeline cell.
//
// Whitespace-only text clears an existing entry. Non-empty text replaces the code of an
// existing entry (keeping its category) or appends a new entry in DefaultCategory.
// The code is stored as given; only the emptiness test trims.
// Unknown projects and weeks outside 1..52 are no-ops.
//
// Callers are responsible for saving db and appending the cell.set event.
func SetCellValue(db *store.DB, projectID string, week int, text string) CellResult {
	projectID = strings.TrimSpace(projectID)
	if db == nil || projectID == "" || !model.ValidWeek(week) {
		return CellResult{}
	}
	p, ok := db.FindProject(projectID)
	if !ok {
		return CellResult{}
	}

	res := CellResult{ProjectID: projectID, Week: week}
	empty := strings.TrimSpace(text) == ""
	i := entryIndex(p.Timeline, week)

	switch {
	case i >= 0 && empty:
		prev := p.Timeline[i]
		p.Timeline = slices.Delete(p.Timeline, i, i+1)
		res.Previous = &prev
	case i >= 0:
		prev := p.Timeline[i]
		if prev.Code == text {
			next := prev
			res.Entry = &next
			return res
		}
		p.Timeline[i].Code = text
		next := p.Timeline[i]
		res.Previous = &prev
		res.Entry = &next
	case !empty:
		next := model.TimelineEntry{Week: week, Code: text, Category: model.DefaultCategory}
		p.Timeline = append(p.Timeline, next)
		res.Entry = &next
	default:
		return res
	}

	res.Changed = true
	res.EventPayload = map[string]any{
		"week": week,
		"code": "",
	}
	if res.Entry != nil {
		res.EventPayload["code"] = res.Entry.Code
		res.EventPayload["category"] = string(res.Entry.Category)
	}
	if res.Previous != nil {
		res.EventPayload["prev"] = res.Previous.Code
	}
	return res
}

type MoveResult struct {
	SrcProjectID string
	SrcWeek      int
	DstProjectID string
	DstWeek      int
	// Entry is the moved entry as stored at the destination.
	Entry model.TimelineEntry
	// Displaced is the destination entry that the move overwrote, if any.
	Displaced    *model.TimelineEntry
	Changed      bool
	EventPayload map[string]any
}

// MoveCell moves the entry at (srcProject, srcWeek) to (dstProject, dstWeek).
//
// The source entry is removed, any destination entry is discarded, and the source code and
// category are appended at the destination. Identical coordinates, a missing source
// project or entry, a missing destination project and out-of-range weeks are no-ops.
//
// Callers are responsible for saving db and appending the cell.move event.
func MoveCell(db *store.DB, srcProject string, srcWeek int, dstProject string, dstWeek int) MoveResult {
	srcProject = strings.TrimSpace(srcProject)
	dstProject = strings.TrimSpace(dstProject)
	if db == nil || !model.ValidWeek(srcWeek) || !model.ValidWeek(dstWeek) {
		return MoveResult{}
	}
	if srcProject == dstProject && srcWeek == dstWeek {
		return MoveResult{}
	}

	src, ok := db.FindProject(srcProject)
	if !ok {
		return MoveResult{}
	}
	si := entryIndex(src.Timeline, srcWeek)
	if si < 0 {
		return MoveResult{}
	}
	if _, ok := db.FindProject(dstProject); !ok {
		return MoveResult{}
	}

	moving := src.Timeline[si]
	src.Timeline = slices.Delete(src.Timeline, si, si+1)

	// Re-resolve after the delete: src and dst may be the same project.
	dst, _ := db.FindProject(dstProject)
	var displaced *model.TimelineEntry
	if di := entryIndex(dst.Timeline, dstWeek); di >= 0 {
		d := dst.Timeline[di]
		displaced = &d
		dst.Timeline = slices.Delete(dst.Timeline, di, di+1)
	}
	placed := model.TimelineEntry{Week: dstWeek, Code: moving.Code, Category: moving.Category}
	dst.Timeline = append(dst.Timeline, placed)

	payload := map[string]any{
		"from": map[string]any{"projectId": srcProject, "week": srcWeek},
		"to":   map[string]any{"projectId": dstProject, "week": dstWeek},
		"code": placed.Code,
	}
	if displaced != nil {
		payload["displaced"] = displaced.Code
	}
	return MoveResult{
		SrcProjectID: srcProject,
		SrcWeek:      srcWeek,
		DstProjectID: dstProject,
		DstWeek:      dstWeek,
		Entry:        placed,
		Displaced:    displaced,
		Changed:      true,
		EventPayload: payload,
	}
}

func entryIndex(xs []model.TimelineEntry, week int) int {
	for i := range xs {
		if xs[i].Week == week {
			return i
		}
	}
	return -1
}
