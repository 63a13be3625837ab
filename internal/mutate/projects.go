package mutate

import (
	"errors"
	"math"
	"slices"
	"strings"

	"planboard/internal/model"
	"planboard/internal/store"
)

// Defaults applied to fields left empty by the create form.
const (
	DefaultKZL   = "NEU"
	DefaultTrade = "HLS"
)

var ErrInvalidTotal = errors.New("invalid total")

// NewProject holds the user-supplied fields of a project about to be created.
// Empty fields fall back to the create-form defaults.
type NewProject struct {
	Name       string
	Location   string
	Client     string
	KZL        string
	Trade      string
	Status     string
	StatusInfo string
	Submission string
	OrderNo    string
	Lead       string
	Staff      string
	Total      float64
}

type AddResult struct {
	Project      model.Project
	EventPayload map[string]any
}

// AddProject inserts a new project with the given id at the front of the list.
// An empty name is allowed; an unknown status or a non-finite total is not.
//
// Callers are responsible for saving db and appending the project.create event.
func AddProject(db *store.DB, in NewProject, id string) (AddResult, error) {
	id = strings.TrimSpace(id)
	if db == nil {
		return AddResult{}, errors.New("nil db")
	}
	if id == "" {
		return AddResult{}, errors.New("missing project id")
	}
	if db.ProjectIndex(id) >= 0 {
		return AddResult{}, errors.New("duplicate project id: " + id)
	}

	status := model.StatusAngebot
	if s := strings.TrimSpace(in.Status); s != "" {
		st, err := model.ParseStatus(s)
		if err != nil {
			return AddResult{}, ErrInvalidStatus
		}
		status = st
	}
	if math.IsNaN(in.Total) || math.IsInf(in.Total, 0) {
		return AddResult{}, ErrInvalidTotal
	}

	p := model.Project{
		ID:         id,
		KZL:        orDefault(in.KZL, DefaultKZL),
		Status:     status,
		StatusInfo: strings.TrimSpace(in.StatusInfo),
		Location:   strings.TrimSpace(in.Location),
		Name:       strings.TrimSpace(in.Name),
		Trade:      orDefault(in.Trade, DefaultTrade),
		Client:     strings.TrimSpace(in.Client),
		Submission: strings.TrimSpace(in.Submission),
		OrderNo:    strings.TrimSpace(in.OrderNo),
		Total:      in.Total,
		Lead:       strings.TrimSpace(in.Lead),
		Staff:      strings.TrimSpace(in.Staff),
		Timeline:   []model.TimelineEntry{},
	}
	db.Projects = slices.Insert(db.Projects, 0, p)

	return AddResult{
		Project: p,
		EventPayload: map[string]any{
			"name":     p.Name,
			"location": p.Location,
			"client":   p.Client,
			"status":   string(p.Status),
			"total":    p.Total,
		},
	}, nil
}

type DeleteResult struct {
	Project      model.Project
	Changed      bool
	EventPayload map[string]any
}

// DeleteProject removes a project and its timeline. Unknown ids are a no-op.
//
// Callers are responsible for saving db and appending the project.delete event.
func DeleteProject(db *store.DB, projectID string) DeleteResult {
	i := db.ProjectIndex(projectID)
	if i < 0 {
		return DeleteResult{}
	}
	p := db.Projects[i]
	db.Projects = slices.Delete(db.Projects, i, i+1)
	return DeleteResult{
		Project: p,
		Changed: true,
		EventPayload: map[string]any{
			"name":    p.Name,
			"entries": len(p.Timeline),
		},
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
