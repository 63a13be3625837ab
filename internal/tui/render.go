package tui

import (
	"fmt"
	"strconv"
	"strings"

	"planboard/internal/model"
	"planboard/internal/view"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	cellWidth    = 3
	cellStride   = cellWidth + 1
	headerLines  = 5
	footerLines  = 3
	minNameWidth = 10
)

type column struct {
	title string
	width int
	right bool
	value func(p model.Project) string
}

func pinnedColumns(nameWidth int) []column {
	return []column{
		{title: "KZL", width: 5, value: func(p model.Project) string { return p.KZL }},
		{title: "Status", width: 9, value: func(p model.Project) string { return string(p.Status) }},
		{title: "Ort", width: 12, value: func(p model.Project) string { return p.Location }},
		{title: "Bauvorhaben", width: nameWidth, value: func(p model.Project) string { return p.Name }},
		{title: "L", width: 4, value: func(p model.Project) string { return p.Trade }},
		{title: "Summe", width: 13, right: true, value: func(p model.Project) string { return view.FormatEuro(p.Total) }},
		{title: "PL", width: 3, value: func(p model.Project) string { return p.Lead }},
		{title: "BL", width: 3, value: func(p model.Project) string { return p.SiteLead() }},
		{title: "MA", width: 3, value: func(p model.Project) string { return p.TeamMember() }},
	}
}

func columnsWidth(cols []column) int {
	w := 0
	for _, c := range cols {
		w += c.width + 1
	}
	return w
}

// layout returns the pinned columns and how many week columns fit beside them. The name
// column gives up width first so that at least four weeks stay visible.
func (m appModel) layout() ([]column, int) {
	nameW := 24
	cols := pinnedColumns(nameW)
	if deficit := columnsWidth(cols) + 4*cellStride - m.width; deficit > 0 {
		nameW = max(minNameWidth, nameW-deficit)
		cols = pinnedColumns(nameW)
	}
	weeks := (m.width - columnsWidth(cols)) / cellStride
	return cols, min(max(weeks, 1), model.WeeksPerYear)
}

func (m appModel) visibleRows() int {
	return max(1, m.height-headerLines-footerLines)
}

// ensureVisible scrolls the week window and the row window so the cursor is on screen.
func (m *appModel) ensureVisible() {
	_, weeks := m.layout()
	col := m.cur.Col - 1
	if col < m.colOff {
		m.colOff = col
	}
	if col >= m.colOff+weeks {
		m.colOff = col - weeks + 1
	}
	m.colOff = min(max(m.colOff, 0), model.WeeksPerYear-weeks)

	rows := m.visibleRows()
	if m.cur.Row < m.rowOff {
		m.rowOff = m.cur.Row
	}
	if m.cur.Row >= m.rowOff+rows {
		m.rowOff = m.cur.Row - rows + 1
	}
	m.rowOff = max(0, min(m.rowOff, len(m.rows)-rows))
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	switch m.mode {
	case modeHelp:
		return styleHeader().Render("Hilfe") + "\n" + m.help.View() + "\n" + styleMuted().Render("↑/↓ blättern   esc schließen")
	case modeAdd:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.form.render(m.width))
	case modeConfirmDelete:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.confirm.render(m.width))
	}
	return m.renderBoard()
}

func (m appModel) renderBoard() string {
	cols, weeks := m.layout()
	firstWeek := m.colOff + 1
	lastWeek := m.colOff + weeks

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle())
	lines = append(lines, m.renderFilterLine())
	lines = append(lines, "")

	pinnedW := columnsWidth(cols)
	lines = append(lines, strings.Repeat(" ", pinnedW)+m.renderMonths(firstWeek, lastWeek))

	var head strings.Builder
	for _, c := range cols {
		head.WriteString(styleMuted().Render(fit(c.title, c.width)) + " ")
	}
	for w := firstWeek; w <= lastWeek; w++ {
		label := fitRight(strconv.Itoa(w), cellWidth)
		if w == m.week {
			label = lipgloss.NewStyle().Background(colorCurrentBg).Bold(true).Render(label)
		} else {
			label = styleMuted().Render(label)
		}
		head.WriteString(label + " ")
	}
	lines = append(lines, head.String())

	rows := m.visibleRows()
	if len(m.rows) == 0 {
		msg := "Noch keine Projekte. a legt eines an."
		if m.filter.Active() {
			msg = "Keine Projekte für diesen Filter."
		}
		lines = append(lines, styleMuted().Render(msg))
	}
	pending, hasPending := m.board.PendingDrag()
	for i := m.rowOff; i < len(m.rows) && i < m.rowOff+rows; i++ {
		p := m.rows[i]
		var b strings.Builder
		for _, c := range cols {
			v := c.value(p)
			if c.right {
				v = fitRight(v, c.width)
			} else {
				v = fit(v, c.width)
			}
			switch {
			case c.title == "Status":
				v = styleTone(p.Status.BadgeTone()).Render(v)
			case i == m.cur.Row:
				v = styleHeader().Render(v)
			}
			b.WriteString(v + " ")
		}
		for w := firstWeek; w <= lastWeek; w++ {
			code := p.Code(w)
			text := fit(code, cellWidth)
			if m.mode == modeEdit && i == m.cur.Row && w == m.cur.Col {
				text = fit(m.editor.Value(), cellWidth)
			}
			st := lipgloss.NewStyle()
			switch {
			case i == m.cur.Row && w == m.cur.Col:
				st = styleSelected()
			case hasPending && pending.ProjectID == p.ID && pending.Week == w:
				st = lipgloss.NewStyle().Foreground(colorAccentFg).Background(colorAccent)
			case code != "":
				st = styleTone(p.Status.CellTone())
			case w == m.week:
				st = lipgloss.NewStyle().Background(colorCurrentBg)
			}
			b.WriteString(st.Render(text) + " ")
		}
		lines = append(lines, b.String())
	}

	for len(lines) < m.height-footerLines {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderStatusLine(), m.renderLegend(), m.renderKeyHints())
	return strings.Join(lines, "\n")
}

func (m appModel) renderTitle() string {
	left := styleHeader().Render(m.opts.Company)
	if m.opts.Subtitle != "" {
		left += "  " + styleMuted().Render(m.opts.Subtitle)
	}
	right := fmt.Sprintf("Gesamtsumme (gefiltert): %s  (%d Projekte)", view.FormatEuro(view.TotalSum(m.rows)), len(m.rows))
	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 2 {
		return ansi.Truncate(left+"  "+right, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m appModel) renderFilterLine() string {
	parts := []string{styleMuted().Render("Status:")}
	opts := append([]model.Status{""}, model.Statuses()...)
	for _, st := range opts {
		label := string(st)
		if st == "" {
			label = "Alle Projekte"
		}
		if st == m.filter.Status {
			parts = append(parts, styleSelected().Render(" "+label+" "))
		} else {
			parts = append(parts, " "+label+" ")
		}
	}
	line := strings.Join(parts, " ")
	switch {
	case m.mode == modeSearch:
		line += "   " + m.search.View()
	case m.filter.Search != "":
		line += "   " + styleMuted().Render("Suche: ") + m.filter.Search
	}
	return ansi.Truncate(line, m.width, "…")
}

func (m appModel) renderMonths(firstWeek, lastWeek int) string {
	var b strings.Builder
	for _, mi := range m.months {
		from := max(mi.FirstWeek, firstWeek)
		to := min(mi.LastWeek, lastWeek)
		if from > to {
			continue
		}
		b.WriteString(styleMuted().Render(fit(mi.Name, (to-from+1)*cellStride)))
	}
	return b.String()
}

func (m appModel) renderStatusLine() string {
	switch {
	case m.err != nil:
		return styleError().Render("Fehler: " + m.err.Error())
	case m.mode == modeEdit:
		label := fmt.Sprintf("KW %d: ", m.editRef.Week)
		if m.selectAll {
			return label + styleSelected().Render(m.editor.Value())
		}
		return label + m.editor.View()
	case m.flash != "":
		return m.flash
	}
	if src, ok := m.board.PendingDrag(); ok {
		return fmt.Sprintf("Aufgenommen: %s KW %d", src.ProjectID, src.Week)
	}
	return ""
}

func (m appModel) renderLegend() string {
	parts := make([]string, 0, len(model.LegendCodes())+1)
	for _, c := range model.LegendCodes() {
		parts = append(parts, styleHeader().Render(c.Code)+" "+c.Label)
	}
	parts = append(parts, fmt.Sprintf("Aktuelle KW %d", m.week))
	return ansi.Truncate(strings.Join(parts, "  ·  "), m.width, "…")
}

func (m appModel) renderKeyHints() string {
	var hints string
	switch m.mode {
	case modeEdit:
		hints = "esc fertig   ctrl+pfeil Zelle wechseln   leerer Text löscht"
	case modeSearch:
		hints = "enter übernehmen   esc Suche löschen"
	default:
		hints = "pfeile/hjkl wechseln   enter bearbeiten   m verschieben   / suchen   f filtern   a neu   d löschen   ? hilfe   q beenden"
	}
	return styleMuted().Render(ansi.Truncate(hints, m.width, "…"))
}

// fit truncates or pads s to exactly w terminal cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = ansi.Truncate(s, w, "…")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func fitRight(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = ansi.Truncate(s, w, "…")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}
