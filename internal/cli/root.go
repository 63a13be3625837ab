package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"planboard/internal/board"
	"planboard/internal/config"
	"planboard/internal/format"
	"planboard/internal/logging"
	"planboard/internal/store"
	"planboard/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	Dir        string
	Memory     bool
	PrettyJSON bool
	Format     string
	LogLevel   string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "planboard",
		Short:        "Project timeline board (terminal, web and scriptable CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the terminal dashboard
  planboard

  # Serve the browser dashboard
  planboard web --addr 127.0.0.1:3340 --open

  # Scriptable commands
  planboard projects list --status Auftrag
  planboard cells set p1 12 FM
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(app.ConfigPath)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("PLANBOARD_CONFIG", ""), "Path to config.yaml (default: <data dir>/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (overrides data_dir and PLANBOARD_DIR)")
	cmd.PersistentFlags().BoolVar(&app.Memory, "memory", false, "Start from the demo data and keep nothing")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PLANBOARD_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newCellsCmd(app))
	cmd.AddCommand(newWeekCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newSeedCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	log, err := app.logger("tui")
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = log.Sync() }()

	b, err := openBoard(cmd.Context(), app, log)
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(cmd.Context(), b, tui.Options{
		Company:  app.cfg.UI.Company,
		Subtitle: app.cfg.UI.Subtitle,
		Log:      log,
	})
}

func (app *App) store() store.Store {
	if app.Memory {
		return store.Store{}
	}
	if d := strings.TrimSpace(app.Dir); d != "" {
		return store.Store{Dir: store.ExpandHome(d)}
	}
	return store.Store{Dir: app.cfg.DataDir}
}

func openBoard(ctx context.Context, app *App, log *zap.Logger) (*board.Service, error) {
	return board.Open(ctx, app.store(), log)
}

// openCLIBoard opens the board for a one-shot scripted command.
func openCLIBoard(cmd *cobra.Command, app *App) (*board.Service, error) {
	log, err := app.logger("cli")
	if err != nil {
		return nil, err
	}
	return openBoard(cmd.Context(), app, log)
}

// logger builds the logger for a surface. Scripted commands only report warnings so their
// stdout stays machine-readable; the dashboard logs to a file behind the alt screen.
func (app *App) logger(surface string) (*zap.Logger, error) {
	opts := logging.Options{
		Level:  app.cfg.Log.Level,
		Format: app.cfg.Log.Format,
		File:   app.cfg.Log.File,
	}
	switch surface {
	case "cli":
		opts.Level = "warn"
	case "tui":
		if opts.File == "" {
			st := app.store()
			if st.Ephemeral() {
				return logging.Nop(), nil
			}
			opts.File = filepath.Join(st.Dir, "planboard.log")
		}
	}
	if strings.TrimSpace(app.LogLevel) != "" {
		opts.Level = app.LogLevel
	}
	return logging.New(opts)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
