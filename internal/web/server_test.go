package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"planboard/internal/board"
	"planboard/internal/grid"
	"planboard/internal/store"
)

func newTestServer(t *testing.T) (*Server, *board.Service) {
	t.Helper()
	b, err := board.Open(context.Background(), store.Store{}, nil)
	if err != nil {
		t.Fatalf("open board: %v", err)
	}
	srv, err := NewServer(ServerConfig{
		Addr:     "127.0.0.1:0",
		Company:  "TGA Hoyerswerda GmbH",
		Subtitle: "Projektübersicht & Kapazitätsplanung",
		Now:      func() time.Time { return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC) },
	}, b, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return srv, b
}

func postForm(t *testing.T, h http.Handler, path string, v url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHome_RendersGridAndFilter(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?q=dresden", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"TGA Hoyerswerda GmbH",
		"Gesamtsumme (gefiltert)",
		"Sanierung Gymnasium Bürgerwiese",
		`id="cell-p2-6"`,
		`class="week current">11<`,
		"events?q=dresden",
		"Januar",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "Neubau Kita Regenbogen") {
		t.Fatalf("expected search to hide non-matching projects")
	}
}

func TestCellsEndpoint_SetsAndClears(t *testing.T) {
	srv, b := newTestServer(t)
	h := srv.Handler()

	rec := postForm(t, h, "/cells", url.Values{"projectId": {"p3"}, "week": {"14"}, "text": {"FM"}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	p, _ := b.Project("p3")
	if p.Code(14) != "FM" {
		t.Fatalf("expected FM at week 14, got %q", p.Code(14))
	}

	postForm(t, h, "/cells", url.Values{"projectId": {"p3"}, "week": {"14"}, "text": {" "}})
	p, _ = b.Project("p3")
	if _, ok := p.Entry(14); ok {
		t.Fatalf("expected whitespace to clear the cell")
	}

	if rec := postForm(t, h, "/cells", url.Values{"projectId": {"p3"}, "week": {"vierzehn"}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed week, got %d", rec.Code)
	}
}

func TestDragEndpoints(t *testing.T) {
	srv, b := newTestServer(t)
	h := srv.Handler()

	postForm(t, h, "/drag/start", url.Values{"projectId": {"p1"}, "week": {"11"}})
	rec := postForm(t, h, "/drag/drop", url.Values{"projectId": {"p3"}, "week": {"12"}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	p1, _ := b.Project("p1")
	p3, _ := b.Project("p3")
	if p1.Code(11) != "" || p3.Code(12) != "ABN" {
		t.Fatalf("expected ABN moved to p3/12, got p1[11]=%q p3[12]=%q", p1.Code(11), p3.Code(12))
	}

	// Malformed payloads abort silently.
	postForm(t, h, "/drag/start", url.Values{"projectId": {"p1"}, "week": {"3"}})
	rec = postForm(t, h, "/drag/drop", url.Values{"projectId": {"p3"}, "week": {"x"}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for malformed drop, got %d", rec.Code)
	}
	if _, ok := b.PendingDrag(); ok {
		t.Fatalf("expected malformed drop to abandon the drag")
	}
	p1, _ = b.Project("p1")
	if p1.Code(3) != "FM" {
		t.Fatalf("expected source untouched after aborted drop")
	}
}

func TestGridNav(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	nav := func(body string) navResponse {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/grid/nav", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp navResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp
	}

	resp := nav(`{"key":"ArrowDown","caret":0,"textLen":0,"projectId":"p1","week":5}`)
	if resp.Outcome != grid.Focus || resp.CellID != "cell-p2-5" || !resp.SelectAll {
		t.Fatalf("unexpected nav response: %#v", resp)
	}

	// Filtered to Angebot only p2 remains, so there is no row below it.
	resp = nav(`{"key":"ArrowDown","caret":0,"textLen":0,"projectId":"p2","week":5,"status":"Angebot"}`)
	if resp.Outcome != grid.Swallow {
		t.Fatalf("expected swallow at the bottom edge of the filtered grid, got %#v", resp)
	}

	resp = nav(`{"key":"ArrowLeft","caret":1,"textLen":2,"projectId":"p1","week":5}`)
	if resp.Outcome != grid.Pass {
		t.Fatalf("expected pass for mid-text caret, got %#v", resp)
	}
}

func TestProjectCreateAndDelete(t *testing.T) {
	srv, b := newTestServer(t)
	h := srv.Handler()

	rec := postForm(t, h, "/projects", url.Values{"name": {"Turnhalle"}, "location": {"Kamenz"}, "total": {"1.250,50"}, "status": {"Anfrage"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	first := b.Projects()[0]
	if first.Name != "Turnhalle" || first.Total != 1250.5 || first.KZL != "NEU" {
		t.Fatalf("unexpected created project: %#v", first)
	}

	if rec := postForm(t, h, "/projects", url.Values{"status": {"Storniert"}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
	}

	if rec := postForm(t, h, "/projects/"+first.ID+"/delete", url.Values{}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirmation, got %d", rec.Code)
	}
	if rec := postForm(t, h, "/projects/"+first.ID+"/delete", url.Values{"confirm": {"yes"}}); rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if _, ok := b.Project(first.ID); ok {
		t.Fatalf("expected project deleted")
	}
}

func TestHelpAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/help/legend", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<table>") {
		t.Fatalf("expected rendered legend table, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `id="legende"`) || !strings.Contains(rec.Body.String(), `href="/help/keys"`) {
		t.Fatalf("expected heading anchor and topic links, got %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/help/WEB", nil))
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), ":warning:") {
		t.Fatalf("expected web topic with rendered emoji, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/help/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown topic, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected static asset, got %d", rec.Code)
	}
}
