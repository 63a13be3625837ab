// Package board owns the single application state of a planboard process and applies
// every change through it.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"planboard/internal/grid"
	"planboard/internal/metrics"
	"planboard/internal/model"
	"planboard/internal/mutate"
	"planboard/internal/store"
	"planboard/internal/view"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event types written to the audit log.
const (
	EventProjectCreate    = "project.create"
	EventProjectDelete    = "project.delete"
	EventProjectSetStatus = "project.set_status"
	EventCellSet          = "cell.set"
	EventCellMove         = "cell.move"
)

// Service serialises all mutations of one board. Readers get copies.
type Service struct {
	mu      sync.Mutex
	st      store.Store
	db      *store.DB
	lastMod time.Time

	drag grid.DragSession
	hub  *hub
	log  *zap.Logger
}

// Open loads the board from st.
func Open(ctx context.Context, st store.Store, log *zap.Logger) (*Service, error) {
	db, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	s := New(st, db, log)
	s.lastMod = st.ModTime()
	return s, nil
}

// New wraps an already loaded state.
func New(st store.Store, db *store.DB, log *zap.Logger) *Service {
	if db == nil {
		db = &store.DB{Version: 1, Projects: []model.Project{}}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{st: st, db: db, hub: newHub(), log: log}
}

func (s *Service) Store() store.Store { return s.st }

// Snapshot returns a deep copy of the full state.
func (s *Service) Snapshot() *store.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Clone()
}

// Projects returns all projects in display order.
func (s *Service) Projects() []model.Project {
	return s.Snapshot().Projects
}

// View returns the projects matching f.
func (s *Service) View(f view.Filter) []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view.Apply(s.db.Clone().Projects, f)
}

func (s *Service) Project(id string) (model.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.db.FindProject(id)
	if !ok {
		return model.Project{}, false
	}
	out := *p
	out.Timeline = append([]model.TimelineEntry(nil), p.Timeline...)
	return out, true
}

// SetCell edits one timeline cell in place.
func (s *Service) SetCell(ctx context.Context, projectID string, week int, text string) (mutate.CellResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := mutate.SetCellValue(s.db, projectID, week, text)
	if !res.Changed {
		metrics.RecordMutation(EventCellSet, metrics.OutcomeNoop)
		return res, nil
	}
	return res, s.commitLocked(ctx, EventCellSet, res.ProjectID, res.EventPayload,
		zap.String("project", res.ProjectID), zap.Int("week", week))
}

// Move moves a cell's entry. Missing sources or destinations make it a no-op.
func (s *Service) Move(ctx context.Context, src, dst grid.CellRef) (mutate.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveLocked(ctx, src, dst)
}

func (s *Service) moveLocked(ctx context.Context, src, dst grid.CellRef) (mutate.MoveResult, error) {
	res := mutate.MoveCell(s.db, src.ProjectID, src.Week, dst.ProjectID, dst.Week)
	if !res.Changed {
		metrics.RecordMutation(EventCellMove, metrics.OutcomeNoop)
		return res, nil
	}
	return res, s.commitLocked(ctx, EventCellMove, res.SrcProjectID, res.EventPayload,
		zap.String("from", src.DOMID()), zap.String("to", dst.DOMID()))
}

// AddProject creates a project with a fresh id at the front of the list.
func (s *Service) AddProject(ctx context.Context, in mutate.NewProject) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := store.NewProjectID(s.db)
	if err != nil {
		return model.Project{}, err
	}
	res, err := mutate.AddProject(s.db, in, id)
	if err != nil {
		metrics.RecordMutation(EventProjectCreate, metrics.OutcomeError)
		return model.Project{}, err
	}
	return res.Project, s.commitLocked(ctx, EventProjectCreate, id, res.EventPayload, zap.String("project", id))
}

// DeleteProject removes a project. Unknown ids are a no-op (Changed=false).
func (s *Service) DeleteProject(ctx context.Context, id string) (mutate.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := mutate.DeleteProject(s.db, id)
	if !res.Changed {
		metrics.RecordMutation(EventProjectDelete, metrics.OutcomeNoop)
		return res, nil
	}
	if src, ok := s.drag.Pending(); ok && src.ProjectID == res.Project.ID {
		s.drag.Cancel()
	}
	return res, s.commitLocked(ctx, EventProjectDelete, res.Project.ID, res.EventPayload, zap.String("project", res.Project.ID))
}

// SetStatus changes a project's status. The returned project is a copy.
func (s *Service) SetStatus(ctx context.Context, id string, status model.Status) (mutate.StatusResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := mutate.SetProjectStatus(s.db, id, status)
	if err != nil {
		metrics.RecordMutation(EventProjectSetStatus, metrics.OutcomeError)
		return res, err
	}
	if res.Project != nil {
		p := *res.Project
		p.Timeline = append([]model.TimelineEntry(nil), p.Timeline...)
		res.Project = &p
	}
	if !res.Changed {
		metrics.RecordMutation(EventProjectSetStatus, metrics.OutcomeNoop)
		return res, nil
	}
	return res, s.commitLocked(ctx, EventProjectSetStatus, res.Project.ID, res.EventPayload,
		zap.String("project", res.Project.ID), zap.String("status", string(res.Project.Status)))
}

// StartDrag picks up the cell at src. Empty cells and unknown projects cannot be picked up.
func (s *Service) StartDrag(src grid.CellRef) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.db.FindProject(src.ProjectID)
	if !ok {
		return false
	}
	return s.drag.Start(src, p.Code(src.Week))
}

// Drop completes the pending drag onto dst. Without a pending drag it does nothing.
func (s *Service) Drop(ctx context.Context, dst grid.CellRef) (mutate.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.drag.Drop(dst)
	if !ok {
		return mutate.MoveResult{}, nil
	}
	return s.moveLocked(ctx, m.From, m.To)
}

func (s *Service) CancelDrag() { s.drag.Cancel() }

// PendingDrag returns the picked-up cell, if any.
func (s *Service) PendingDrag() (grid.CellRef, bool) { return s.drag.Pending() }

// Subscribe returns a channel that receives a value after every change. cancel must be
// called when the subscriber goes away.
func (s *Service) Subscribe() (<-chan struct{}, func()) {
	return s.hub.subscribe()
}

// Subscribers returns the number of live subscriptions.
func (s *Service) Subscribers() int { return s.hub.len() }

// Reload re-reads the state from the store and notifies subscribers.
// The load runs under the mutation lock so a commit cannot land between
// reading the store and replacing the in-memory state.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	db, err := s.st.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("reload board: %w", err)
	}
	s.db = db
	s.lastMod = s.st.ModTime()
	s.mu.Unlock()
	s.hub.broadcast()
	return nil
}

// ReloadIfChanged reloads when another process has written the store since the last
// load or save. It reports whether a reload happened.
func (s *Service) ReloadIfChanged(ctx context.Context) (bool, error) {
	if s.st.Ephemeral() {
		return false, nil
	}
	mt := s.st.ModTime()
	s.mu.Lock()
	same := mt.IsZero() || mt.Equal(s.lastMod)
	s.mu.Unlock()
	if same {
		return false, nil
	}
	if err := s.Reload(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Watch reloads the board on external writes until ctx is done. It listens for
// filesystem events on the store dir and polls every interval as a fallback for
// filesystems without notifications.
func (s *Service) Watch(ctx context.Context, every time.Duration) error {
	if s.st.Ephemeral() {
		<-ctx.Done()
		return nil
	}
	if every <= 0 {
		every = time.Second
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	w, err := fsnotify.NewWatcher()
	if err == nil {
		if err = w.Add(s.st.Dir); err != nil {
			_ = w.Close()
		}
	}
	if err != nil {
		s.log.Warn("file watcher unavailable, polling only", zap.Error(err))
	} else {
		defer w.Close()
		events, errs = w.Events, w.Errors
	}

	poll := time.NewTicker(every)
	defer poll.Stop()

	// Writes arrive in bursts (db, wal, shm); settle before reloading.
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 || !store.IsDataFile(ev.Name) {
				continue
			}
			if settle == nil {
				settle = time.After(watchSettle)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.log.Warn("file watcher error", zap.Error(err))
		case <-settle:
			settle = nil
			s.reloadIfChangedLogged(ctx)
		case <-poll.C:
			s.reloadIfChangedLogged(ctx)
		}
	}
}

const watchSettle = 100 * time.Millisecond

func (s *Service) reloadIfChangedLogged(ctx context.Context) {
	if ok, err := s.ReloadIfChanged(ctx); err != nil {
		s.log.Warn("reload failed", zap.Error(err))
	} else if ok {
		s.log.Info("board reloaded after external change")
	}
}

// commitLocked persists a change that has already been applied to s.db.
// On failure the in-memory state stays as mutated; the next successful save catches up.
func (s *Service) commitLocked(ctx context.Context, typ, entityID string, payload map[string]any, fields ...zap.Field) error {
	defer s.hub.broadcast()

	var errs []error
	if err := s.st.Save(ctx, s.db); err != nil {
		errs = append(errs, fmt.Errorf("save: %w", err))
	}
	if err := s.st.AppendEvent(ctx, typ, entityID, payload); err != nil {
		errs = append(errs, fmt.Errorf("append event: %w", err))
	}
	// Our own writes must not look like external changes to Watch.
	s.lastMod = s.st.ModTime()
	if err := errors.Join(errs...); err != nil {
		metrics.RecordMutation(typ, metrics.OutcomeError)
		s.log.Error(typ, append(fields, zap.Error(err))...)
		return err
	}
	metrics.RecordMutation(typ, metrics.OutcomeChanged)
	s.log.Info(typ, fields...)
	return nil
}
