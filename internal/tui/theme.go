package tui

import (
	"os"
	"strconv"
	"strings"

	"planboard/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The dashboard must stay readable on light and dark terminals. Colours are adaptive and
// "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      = ac("240", "243")
	colorSurfaceFg  = ac("235", "252")
	colorControlBg  = ac("252", "235")
	colorSelectedBg = ac("#e9e9e9", "#3a3a3a")
	colorSelectedFg = ac("235", "255")
	colorAccent     = ac("27", "62")
	colorAccentFg   = ac("255", "235")
	colorCurrentBg  = ac("#fff3c4", "#4a3f12")
	colorErrorFg    = ac("160", "203")
	colorBorder     = ac("250", "240")
)

// Cell and badge fills per tone. Light values follow the web dashboard's pastel fills.
var toneColors = map[model.Tone]lipgloss.AdaptiveColor{
	model.ToneGreen:  ac("#bbf7d0", "#14532d"),
	model.ToneAmber:  ac("#fde68a", "#78350f"),
	model.ToneBlue:   ac("#bfdbfe", "#1e3a8a"),
	model.ToneRed:    ac("#fecaca", "#7f1d1d"),
	model.TonePurple: ac("#e9d5ff", "#581c87"),
	model.ToneGray:   ac("#e5e7eb", "#374151"),
}

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleTone(t model.Tone) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	if c, ok := toneColors[t]; ok {
		st = st.Background(c)
	}
	return st
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).Underline(true)
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSurfaceFg).Bold(true)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorErrorFg).Bold(true)
}

// applyColorProfilePreference sets Lip Gloss's colour profile for the dashboard.
//
// termenv.EnvColorProfile also honours CLICOLOR, which is meant for piped CLI output and
// would strip colours from an interactive screen. Only NO_COLOR is respected here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()

	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) PLANBOARD_TUI_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PLANBOARD_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
