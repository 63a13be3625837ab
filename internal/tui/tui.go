// Package tui is the terminal dashboard: the project grid with pinned descriptive columns
// and a scrolling week window.
package tui

import (
	"context"
	"time"

	"planboard/internal/board"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Company  string
	Subtitle string
	// Now fixes the highlighted week at startup. Defaults to time.Now.
	Now func() time.Time
	Log *zap.Logger
}

func Run(ctx context.Context, b *board.Service, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(ctx, b, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
