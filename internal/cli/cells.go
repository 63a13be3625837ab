package cli

import (
	"fmt"
	"strconv"
	"strings"

	"planboard/internal/board"
	"planboard/internal/grid"
	"planboard/internal/model"
	"planboard/internal/mutate"

	"github.com/spf13/cobra"
)

func newCellsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cells",
		Short: "Timeline cell commands",
	}
	cmd.AddCommand(newCellsSetCmd(app))
	cmd.AddCommand(newCellsClearCmd(app))
	cmd.AddCommand(newCellsMoveCmd(app))
	return cmd
}

func newCellsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <project-id> <week> <text>",
		Short: "Write a code into a week cell (blank text clears it)",
		Example: strings.TrimSpace(`
planboard cells set p1 12 FM
planboard cells set p1 12 ""`),
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCellSet(cmd, app, args[0], args[1], args[2])
		},
	}
}

func newCellsClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <project-id> <week>",
		Short: "Remove the entry in a week cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCellSet(cmd, app, args[0], args[1], "")
		},
	}
}

func runCellSet(cmd *cobra.Command, app *App, projectID, weekArg, text string) error {
	ref, err := parseCell(projectID, weekArg)
	if err != nil {
		return writeErr(cmd, err)
	}
	b, err := openCLIBoard(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := requireProject(b, ref.ProjectID); err != nil {
		return writeErr(cmd, err)
	}
	res, err := b.SetCell(cmd.Context(), ref.ProjectID, ref.Week, text)
	if err != nil {
		return writeErr(cmd, err)
	}
	out := map[string]any{
		"projectId": ref.ProjectID,
		"week":      ref.Week,
		"changed":   res.Changed,
		"code":      "",
	}
	if res.Entry != nil {
		out["code"] = res.Entry.Code
		out["category"] = res.Entry.Category
	}
	if res.Previous != nil {
		out["previous"] = res.Previous.Code
	}
	return writeOut(cmd, app, map[string]any{"data": out})
}

func newCellsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <src-project-id> <src-week> <dst-project-id> <dst-week>",
		Short: "Move a cell entry, like a drag and drop on the board",
		Long: strings.TrimSpace(`
Move the entry in the source cell to the destination cell. An entry already in the
destination is replaced. Moving an empty cell, or onto the same cell, changes nothing.`),
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseCell(args[0], args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			dst, err := parseCell(args[2], args[3])
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openCLIBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, id := range []string{src.ProjectID, dst.ProjectID} {
				if err := requireProject(b, id); err != nil {
					return writeErr(cmd, err)
				}
			}
			res, err := b.Move(cmd.Context(), src, dst)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := map[string]any{
				"from":    src,
				"to":      dst,
				"changed": res.Changed,
				"code":    res.Entry.Code,
			}
			if res.Displaced != nil {
				out["displaced"] = res.Displaced.Code
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
}

func parseCell(projectID, weekArg string) (grid.CellRef, error) {
	week, err := strconv.Atoi(strings.TrimSpace(weekArg))
	if err != nil || !model.ValidWeek(week) {
		return grid.CellRef{}, fmt.Errorf("invalid week %q (want 1..%d)", weekArg, model.WeeksPerYear)
	}
	return grid.CellRef{ProjectID: strings.TrimSpace(projectID), Week: week}, nil
}

func requireProject(b *board.Service, id string) error {
	if _, ok := b.Project(id); !ok {
		return mutate.NotFoundError{Kind: "project", ID: id}
	}
	return nil
}
