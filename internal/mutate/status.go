package mutate

import (
	"strings"

	"planboard/internal/model"
	"planboard/internal/store"
)

type StatusResult struct {
	Project      *model.Project
	Changed      bool
	EventPayload map[string]any
}

// SetProjectStatus changes a project's status. Unknown projects are a no-op;
// values outside the fixed status set return ErrInvalidStatus.
//
// Callers are responsible for saving db and appending the project.set_status event.
func SetProjectStatus(db *store.DB, projectID string, status model.Status) (StatusResult, error) {
	next, err := model.ParseStatus(string(status))
	if err != nil {
		return StatusResult{}, ErrInvalidStatus
	}
	p, ok := db.FindProject(strings.TrimSpace(projectID))
	if !ok {
		return StatusResult{}, nil
	}
	prev := p.Status
	if prev == next {
		return StatusResult{Project: p}, nil
	}
	p.Status = next
	return StatusResult{
		Project: p,
		Changed: true,
		EventPayload: map[string]any{
			"from": string(prev),
			"to":   string(next),
		},
	}, nil
}
