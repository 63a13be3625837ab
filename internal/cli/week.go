package cli

import (
	"fmt"
	"strings"
	"time"

	"planboard/internal/calendar"

	"github.com/spf13/cobra"
)

func newWeekCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the timeline week for today (or --date)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if d := strings.TrimSpace(date); d != "" {
				t, err := time.ParseInLocation("2006-01-02", d, time.Local)
				if err != nil {
					return writeErr(cmd, fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", date))
				}
				now = t
			}
			week := calendar.CurrentWeek(now)
			month := calendar.MonthOfWeek(now.Year(), week)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"date":      now.Format("2006-01-02"),
				"year":      now.Year(),
				"week":      week,
				"month":     int(month),
				"monthName": calendar.MonthName(month),
			}})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today)")
	return cmd
}
