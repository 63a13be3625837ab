package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"planboard/internal/board"
	"planboard/internal/calendar"
	"planboard/internal/model"
	"planboard/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/*.html static/*.js static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr     string
	Company  string
	Subtitle string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Now is used once at startup to fix the highlighted week. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	cfg   ServerConfig
	board *board.Service
	log   *zap.Logger
	tmpl  *template.Template

	year   int
	week   int
	months []calendar.MonthInfo
}

func NewServer(cfg ServerConfig, b *board.Service, log *zap.Logger) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if b == nil {
		return nil, errors.New("web: board is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"euro":   view.FormatEuro,
		"amount": view.FormatAmount,
		"add":    func(a, b int) int { return a + b },
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	now := cfg.Now()
	return &Server{
		cfg:    cfg,
		board:  b,
		log:    log.Named("web"),
		tmpl:   tmpl,
		year:   now.Year(),
		week:   calendar.CurrentWeek(now),
		months: calendar.Months(now.Year()),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	static, _ := fs.Sub(assetsFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleHome)
	r.Get("/events", s.handleEvents)
	r.Get("/help/{topic}", s.handleHelp)

	r.Post("/projects", s.handleProjectCreate)
	r.Post("/projects/{projectId}/delete", s.handleProjectDelete)
	r.Post("/cells", s.handleCellSet)
	r.Post("/drag/start", s.handleDragStart)
	r.Post("/drag/drop", s.handleDragDrop)
	r.Post("/drag/cancel", s.handleDragCancel)
	r.Post("/grid/nav", s.handleGridNav)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		// SSE handlers watch r.Context(); cancelling it lets Shutdown finish.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// filterFromQuery reads ?q= and ?status=. Unknown statuses show all projects.
func filterFromQuery(r *http.Request) view.Filter {
	q := r.URL.Query()
	st, err := model.ParseStatusFilter(q.Get("status"))
	if err != nil {
		st = ""
	}
	return view.Filter{Search: strings.TrimSpace(q.Get("q")), Status: st}
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}
