package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"planboard/internal/docs"
	"planboard/internal/grid"
	"planboard/internal/metrics"
	"planboard/internal/model"
	"planboard/internal/mutate"
	"planboard/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "page.html", s.pageVM(filterFromQuery(r)))
}

// handleEvents streams board changes to one page. The filter from the page's query string
// is applied to every re-render.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.board.Subscribe()
	defer cancel()
	metrics.SSEStreams.Inc()
	defer metrics.SSEStreams.Dec()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			vm := s.pageVM(f)
			total, err := s.renderTemplate("board_total", vm.Total)
			if err == nil {
				err = sse.PatchElements(total, datastar.WithSelector("#board-total"), datastar.WithMode(datastar.ElementPatchModeInner))
			}
			var body string
			if err == nil {
				body, err = s.renderTemplate("board_grid", vm.Grid)
			}
			if err == nil {
				err = sse.PatchElements(body, datastar.WithSelector("#board-grid"), datastar.WithMode(datastar.ElementPatchModeInner))
			}
			if err != nil {
				s.log.Warn("stream patch failed", zap.Error(err))
				_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			}
		}
	}
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	topic := strings.ToLower(chi.URLParam(r, "topic"))
	body, ok := helpHTML(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "help.html", map[string]any{
		"Company": s.cfg.Company,
		"Topic":   topic,
		"Topics":  docs.Topics(),
		"Body":    body,
	})
}

func (s *Server) handleProjectCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	total := 0.0
	if raw := strings.TrimSpace(r.FormValue("total")); raw != "" {
		v, err := view.ParseAmount(raw)
		if err != nil {
			http.Error(w, "invalid total", http.StatusBadRequest)
			return
		}
		total = v
	}
	_, err := s.board.AddProject(r.Context(), mutate.NewProject{
		Name:     r.FormValue("name"),
		Location: r.FormValue("location"),
		Client:   r.FormValue("client"),
		Status:   r.FormValue("status"),
		Total:    total,
	})
	if err != nil {
		if errors.Is(err, mutate.ErrInvalidStatus) || errors.Is(err, mutate.ErrInvalidTotal) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectBack(w, r, "/")
}

func (s *Server) handleProjectDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.FormValue("confirm") != "yes" {
		http.Error(w, "confirmation required", http.StatusBadRequest)
		return
	}
	if _, err := s.board.DeleteProject(r.Context(), chi.URLParam(r, "projectId")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	redirectBack(w, r, "/")
}

func (s *Server) handleCellSet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	week, err := strconv.Atoi(strings.TrimSpace(r.FormValue("week")))
	if err != nil {
		http.Error(w, "invalid week", http.StatusBadRequest)
		return
	}
	if _, err := s.board.SetCell(r.Context(), r.FormValue("projectId"), week, r.FormValue("text")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Drag endpoints answer 204 even for malformed payloads: a broken drag is abandoned silently.

func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	if ref, ok := transferFromForm(r); ok {
		s.board.StartDrag(ref)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragDrop(w http.ResponseWriter, r *http.Request) {
	ref, ok := transferFromForm(r)
	if !ok {
		s.board.CancelDrag()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, err := s.board.Drop(r.Context(), ref); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.board.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}

func transferFromForm(r *http.Request) (grid.CellRef, bool) {
	if err := r.ParseForm(); err != nil {
		return grid.CellRef{}, false
	}
	return grid.ParseTransfer(r.FormValue("projectId"), r.FormValue("week"))
}

type navRequest struct {
	Key       string `json:"key"`
	Shift     bool   `json:"shift"`
	Ctrl      bool   `json:"ctrl"`
	Meta      bool   `json:"meta"`
	Caret     int    `json:"caret"`
	TextLen   int    `json:"textLen"`
	ProjectID string `json:"projectId"`
	Week      int    `json:"week"`
	Search    string `json:"q"`
	Status    string `json:"status"`
}

type navResponse struct {
	Outcome   grid.Outcome `json:"outcome"`
	Row       int          `json:"row,omitempty"`
	Col       int          `json:"col,omitempty"`
	CellID    string       `json:"cellId,omitempty"`
	SelectAll bool         `json:"selectAll,omitempty"`
}

// handleGridNav resolves a key press in a cell editor against the same filtered view the
// page shows.
func (s *Server) handleGridNav(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	st, err := model.ParseStatusFilter(req.Status)
	if err != nil {
		st = ""
	}
	ix := grid.BuildIndex(s.board.View(view.Filter{Search: req.Search, Status: st}))

	resp := navResponse{Outcome: grid.Swallow}
	if from, ok := ix.Locate(grid.CellRef{ProjectID: req.ProjectID, Week: req.Week}); ok {
		fr, outcome := grid.Navigate(ix, from, grid.KeyEvent{
			Key:     grid.ParseKey(req.Key),
			Shift:   req.Shift,
			Ctrl:    req.Ctrl,
			Meta:    req.Meta,
			Caret:   req.Caret,
			TextLen: req.TextLen,
		})
		resp.Outcome = outcome
		if outcome == grid.Focus {
			resp.Row = fr.Coord.Row
			resp.Col = fr.Coord.Col
			resp.CellID = fr.Cell.DOMID()
			resp.SelectAll = fr.SelectAll
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := strings.TrimSpace(r.Header.Get("Referer"))
	if ref != "" {
		http.Redirect(w, r, ref, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}
