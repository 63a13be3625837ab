package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"planboard/internal/model"
	"planboard/internal/mutate"
	"planboard/internal/view"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsDeleteCmd(app))
	cmd.AddCommand(newProjectsSetStatusCmd(app))
	return cmd
}

type projectList struct {
	Projects       []model.Project `json:"projects"`
	Count          int             `json:"count"`
	Total          float64         `json:"total"`
	TotalFormatted string          `json:"totalFormatted"`
}

func newProjectsListCmd(app *App) *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects (optionally filtered)",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := model.ParseStatusFilter(status)
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openCLIBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ps := b.View(view.Filter{Search: search, Status: st})
			sum := view.TotalSum(ps)
			return writeOut(cmd, app, map[string]any{
				"data": projectList{Projects: ps, Count: len(ps), Total: sum, TotalFormatted: view.FormatEuro(sum)},
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Substring match on location, name and client")
	cmd.Flags().StringVar(&status, "status", "", "Only projects with this status (Angebot|Anfrage|Auftrag|Erledigt|Rechnung)")
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var in mutate.NewProject
	var total string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a project at the top of the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(total) != "" {
				v, err := view.ParseAmount(total)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("invalid --total %q", total))
				}
				in.Total = v
			}
			b, err := openCLIBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := b.AddProject(cmd.Context(), in)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": p,
				"_hints": []string{
					fmt.Sprintf("planboard cells set %s <week> FM", p.ID),
					fmt.Sprintf("planboard projects delete %s", p.ID),
				},
			})
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Project name (Bauvorhaben)")
	cmd.Flags().StringVar(&in.Location, "location", "", "Location (Ort)")
	cmd.Flags().StringVar(&in.Client, "client", "", "Client (Auftraggeber)")
	cmd.Flags().StringVar(&in.KZL, "kzl", "", "Reference code (default "+mutate.DefaultKZL+")")
	cmd.Flags().StringVar(&in.Trade, "trade", "", "Trade code (default "+mutate.DefaultTrade+")")
	cmd.Flags().StringVar(&in.Status, "status", "", "Status (default Angebot)")
	cmd.Flags().StringVar(&in.StatusInfo, "status-info", "", "Status note")
	cmd.Flags().StringVar(&in.Submission, "submission", "", "Submission date (Abgabe)")
	cmd.Flags().StringVar(&in.OrderNo, "order-no", "", "Order number")
	cmd.Flags().StringVar(&in.Lead, "lead", "", "Project lead initials (PL)")
	cmd.Flags().StringVar(&in.Staff, "staff", "", "Site lead and team member initials, e.g. \"MK, SW\"")
	cmd.Flags().StringVar(&total, "total", "", "Order total in euro, e.g. 1.250.000,50")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

var errAborted = errors.New("aborted")

func newProjectsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			b, err := openCLIBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, ok := b.Project(id)
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "project", ID: id})
			}
			if !yes {
				fmt.Fprintf(cmd.ErrOrStderr(), "Projekt %q (%s) löschen? [y/N] ", p.Name, p.ID)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if !confirmed(line) {
					return writeErr(cmd, errAborted)
				}
			}
			res, err := b.DeleteProject(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"deleted": res.Changed,
				"project": res.Project,
			}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Do not ask for confirmation")
	return cmd
}

func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "j", "ja":
		return true
	default:
		return false
	}
}

func newProjectsSetStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-status <project-id> <status>",
		Short: "Change a project's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			st, err := model.ParseStatus(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			b, err := openCLIBoard(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, ok := b.Project(id); !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "project", ID: id})
			}
			res, err := b.SetStatus(cmd.Context(), id, st)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"changed": res.Changed,
				"project": res.Project,
			}})
		},
	}
	return cmd
}
