package cli

import (
	"errors"

	"planboard/internal/store"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the workspace to the demo projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := app.store()
			if s.Ephemeral() {
				return writeErr(cmd, errors.New("seed: nothing to write with --memory"))
			}
			db, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(db.Projects) > 0 && !force {
				return writeErr(cmd, errors.New("seed: workspace has projects; pass --force to replace them"))
			}
			seed := store.Seed()
			if err := s.Save(cmd.Context(), seed); err != nil {
				return writeErr(cmd, err)
			}
			if err := s.AppendEvent(cmd.Context(), "board.seed", "board", map[string]any{"projects": len(seed.Projects)}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"dir":      s.Dir,
				"projects": len(seed.Projects),
			}})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace existing projects")
	return cmd
}
