package board

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"planboard/internal/grid"
	"planboard/internal/model"
	"planboard/internal/mutate"
	"planboard/internal/store"
	"planboard/internal/view"
)

func openTestService(t *testing.T) *Service {
	t.Helper()
	s, err := Open(context.Background(), store.Store{Dir: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestService_SetCellPersistsAndLogsEvent(t *testing.T) {
	ctx := context.Background()
	s := openTestService(t)

	res, err := s.SetCell(ctx, "p3", 20, "FM")
	if err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if !res.Changed {
		t.Fatalf("expected change")
	}

	reloaded, err := s.Store().Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := reloaded.FindProject("p3")
	if p.Code(20) != "FM" {
		t.Fatalf("expected persisted code FM, got %q", p.Code(20))
	}

	evs, err := s.Store().ReadEvents(ctx, 1)
	if err != nil || len(evs) != 1 {
		t.Fatalf("expected one event, got %d (err=%v)", len(evs), err)
	}
	if evs[0].Type != EventCellSet || evs[0].EntityID != "p3" {
		t.Fatalf("unexpected event: %#v", evs[0])
	}
}

func TestService_NoOpDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	s := openTestService(t)

	ch, cancel := s.Subscribe()
	defer cancel()

	if res, err := s.SetCell(ctx, "missing", 3, "FM"); err != nil || res.Changed {
		t.Fatalf("expected silent no-op, got changed=%v err=%v", res.Changed, err)
	}
	if res, err := s.Move(ctx, grid.CellRef{ProjectID: "p1", Week: 3}, grid.CellRef{ProjectID: "p1", Week: 3}); err != nil || res.Changed {
		t.Fatalf("expected identical-coordinate move to be a no-op")
	}
	select {
	case <-ch:
		t.Fatalf("expected no notification for no-ops")
	default:
	}
	evs, _ := s.Store().ReadEvents(ctx, 0)
	if len(evs) != 0 {
		t.Fatalf("expected no events, got %d", len(evs))
	}
}

func TestService_DragAndDrop(t *testing.T) {
	ctx := context.Background()
	s := openTestService(t)

	if s.StartDrag(grid.CellRef{ProjectID: "p1", Week: 20}) {
		t.Fatalf("expected empty cell to refuse drag")
	}
	if !s.StartDrag(grid.CellRef{ProjectID: "p1", Week: 9}) {
		t.Fatalf("expected filled cell to start drag")
	}

	ch, cancel := s.Subscribe()
	defer cancel()

	res, err := s.Drop(ctx, grid.CellRef{ProjectID: "p2", Week: 6})
	if err != nil || !res.Changed {
		t.Fatalf("expected drop to move, got changed=%v err=%v", res.Changed, err)
	}
	if res.Displaced == nil || res.Displaced.Code != "ANG" {
		t.Fatalf("expected ANG displaced, got %#v", res.Displaced)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected change notification")
	}

	p1, _ := s.Project("p1")
	p2, _ := s.Project("p2")
	if p1.Code(9) != "" || p2.Code(6) != "IBN" {
		t.Fatalf("unexpected state after drop: p1[9]=%q p2[6]=%q", p1.Code(9), p2.Code(6))
	}

	if res, _ := s.Drop(ctx, grid.CellRef{ProjectID: "p2", Week: 7}); res.Changed {
		t.Fatalf("expected second drop without pick-up to do nothing")
	}
}

func TestService_AddDeleteAndStatus(t *testing.T) {
	ctx := context.Background()
	s := openTestService(t)

	p, err := s.AddProject(ctx, mutate.NewProject{Name: "Turnhalle", Location: "Kamenz"})
	if err != nil {
		t.Fatalf("AddProject: %v", err)
	}
	if got := s.Projects()[0].ID; got != p.ID {
		t.Fatalf("expected new project first, got %q", got)
	}

	st, err := s.SetStatus(ctx, p.ID, model.StatusAuftrag)
	if err != nil || !st.Changed || st.Project.Status != model.StatusAuftrag {
		t.Fatalf("unexpected status result: %#v err=%v", st, err)
	}

	got := s.View(view.Filter{Search: "kamenz", Status: model.StatusAuftrag})
	if len(got) != 1 || got[0].ID != p.ID {
		t.Fatalf("expected filtered view to contain the new project, got %#v", got)
	}

	del, err := s.DeleteProject(ctx, p.ID)
	if err != nil || !del.Changed {
		t.Fatalf("expected delete, got changed=%v err=%v", del.Changed, err)
	}
	if _, ok := s.Project(p.ID); ok {
		t.Fatalf("expected project gone")
	}
}

func TestService_DeleteCancelsPendingDragFromProject(t *testing.T) {
	ctx := context.Background()
	s := openTestService(t)

	if !s.StartDrag(grid.CellRef{ProjectID: "p1", Week: 3}) {
		t.Fatalf("expected drag start")
	}
	if _, err := s.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.PendingDrag(); ok {
		t.Fatalf("expected pending drag to be cancelled")
	}
}

func TestService_ReloadIfChanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, err := Open(ctx, store.Store{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	b, err := Open(ctx, store.Store{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}

	// Filesystem mtimes can be coarse; make sure b's write lands on a later tick.
	time.Sleep(20 * time.Millisecond)
	if _, err := b.SetCell(ctx, "p4", 30, "x"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	reloaded, err := a.ReloadIfChanged(ctx)
	if err != nil {
		t.Fatalf("ReloadIfChanged: %v", err)
	}
	if !reloaded {
		t.Fatalf("expected reload after external write")
	}
	p, _ := a.Project("p4")
	if p.Code(30) != "x" {
		t.Fatalf("expected reloaded state to include external write")
	}
}

func TestService_EphemeralStoreKeepsStateInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, store.Store{}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.SetCell(ctx, "p1", 40, "ABN"); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	p, _ := s.Project("p1")
	if p.Code(40) != "ABN" {
		t.Fatalf("expected in-memory change")
	}
}

func TestService_ReloadDoesNotDropConcurrentCommit(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(ctx, store.Store{Dir: dir}, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	other := store.Store{Dir: dir}

	for i := 0; i < 40; i++ {
		external, err := other.Load(ctx)
		if err != nil {
			t.Fatalf("external load: %v", err)
		}
		if err := other.Save(ctx, external); err != nil {
			t.Fatalf("external save: %v", err)
		}

		code := fmt.Sprintf("C%d", i)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := s.Reload(ctx); err != nil {
				t.Errorf("Reload: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.SetCell(ctx, "p1", 30, code); err != nil {
				t.Errorf("SetCell: %v", err)
			}
		}()
		wg.Wait()

		p, _ := s.Project("p1")
		if got := p.Code(30); got != code {
			t.Fatalf("iteration %d: committed %q but board shows %q", i, code, got)
		}
	}
}
