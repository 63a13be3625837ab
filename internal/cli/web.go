package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"planboard/internal/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the browser dashboard",
		Long: strings.TrimSpace(`
Serve the board as a web page with live updates.

Edits made by other planboard processes on the same data directory (CLI, terminal
dashboard) are picked up and pushed to open pages.
`),
		Example: strings.TrimSpace(`
planboard web
planboard web --addr :3340 --open
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				listenAddr = app.cfg.Server.Addr
			}
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

			log, err := app.logger("web")
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b, err := openBoard(ctx, app, log)
			if err != nil {
				return writeErr(cmd, err)
			}

			srv, err := web.NewServer(web.ServerConfig{
				Addr:            listenAddr,
				Company:         app.cfg.UI.Company,
				Subtitle:        app.cfg.UI.Subtitle,
				ReadTimeout:     app.cfg.Server.ReadTimeout.Std(),
				WriteTimeout:    app.cfg.Server.WriteTimeout.Std(),
				ShutdownTimeout: app.cfg.Server.ShutdownTimeout.Std(),
			}, b, log)
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}

			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			opened := false
			openErr := ""
			if open {
				if err := openURL(url); err != nil {
					openErr = err.Error()
				} else {
					opened = true
				}
			}

			hints := []string{}
			if !opened {
				hints = append(hints, "open "+url)
			}
			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"dir":       b.Store().Dir,
					"opened":    opened,
					"openError": openErr,
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": hints,
			})
			if openErr != "" {
				log.Warn("open browser failed", zap.String("url", url), zap.String("error", openErr))
			}

			eg, egCtx := errgroup.WithContext(ctx)
			eg.Go(func() error { return srv.Serve(egCtx, ln) })
			if !b.Store().Ephemeral() {
				eg.Go(func() error { return b.Watch(egCtx, 2*time.Second) })
			}
			if err := eg.Wait(); err != nil {
				return writeErr(cmd, fmt.Errorf("web: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("PLANBOARD_ADDR", ""), "Bind address, host:port or :port (default: server.addr from config)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the dashboard in the default browser")
	return cmd
}

func openURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", url).Run()
	default:
		return exec.Command("xdg-open", url).Run()
	}
}
