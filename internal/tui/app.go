package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"planboard/internal/board"
	"planboard/internal/calendar"
	"planboard/internal/docs"
	"planboard/internal/grid"
	"planboard/internal/model"
	"planboard/internal/view"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type mode int

const (
	modeNav mode = iota
	modeEdit
	modeSearch
	modeAdd
	modeConfirmDelete
	modeHelp
)

type reloadTickMsg struct{}

func tickReload() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

type appModel struct {
	ctx   context.Context
	board *board.Service
	log   *zap.Logger
	opts  Options

	week   int
	months []calendar.MonthInfo

	width  int
	height int
	mode   mode

	filter view.Filter
	rows   []model.Project
	ix     *grid.Index
	cur    grid.Coord
	colOff int
	rowOff int

	editor  textinput.Model
	editRef grid.CellRef
	// selectAll marks the editor text as selected: the next typed rune replaces it.
	selectAll bool

	search  textinput.Model
	form    addForm
	confirm confirmDelete
	help    viewport.Model

	flash string
	err   error
}

func newAppModel(ctx context.Context, b *board.Service, opts Options) appModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	now := opts.Now()

	editor := textinput.New()
	editor.Prompt = ""

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Ort, Bauvorhaben, Auftraggeber"

	m := appModel{
		ctx:    ctx,
		board:  b,
		log:    opts.Log,
		opts:   opts,
		week:   calendar.CurrentWeek(now),
		months: calendar.Months(now.Year()),
		editor: editor,
		search: search,
		help:   viewport.New(0, 0),
	}
	m.cur = grid.Coord{Row: 0, Col: m.week}
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.help.Height = max(1, msg.Height-2)
		m.ensureVisible()
		return m, nil

	case reloadTickMsg:
		changed, err := m.board.ReloadIfChanged(m.ctx)
		if err != nil {
			m.log.Warn("reload failed", zap.Error(err))
		} else if changed {
			m.refresh()
		}
		return m, tickReload()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeSearch:
			return m.updateSearch(msg)
		case modeAdd:
			return m.updateAdd(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateNav(msg)
		}
	}

	// Cursor blink and similar input housekeeping.
	var cmd tea.Cmd
	switch m.mode {
	case modeEdit:
		m.editor, cmd = m.editor.Update(msg)
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeAdd:
		cmd = m.form.update(msg)
	}
	return m, cmd
}

func (m appModel) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	m.err = nil

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "e":
		cmd := m.startEdit(false)
		return m, cmd
	case "backspace", "delete":
		if ref, ok := m.ix.Lookup(m.cur); ok {
			m.setCell(ref, "")
		}
		return m, nil
	case "m":
		m.toggleDrag()
		return m, nil
	case "esc":
		if _, ok := m.board.PendingDrag(); ok {
			m.board.CancelDrag()
			m.flash = "Verschieben abgebrochen"
		}
		return m, nil
	case "t":
		m.cur.Col = m.week
		m.ensureVisible()
		return m, nil
	case "/":
		m.mode = modeSearch
		cmd := m.search.Focus()
		return m, cmd
	case "f":
		m.filter.Status = cycleStatus(m.filter.Status, 1)
		m.refresh()
		return m, nil
	case "F":
		m.filter.Status = cycleStatus(m.filter.Status, -1)
		m.refresh()
		return m, nil
	case "a":
		m.form = newAddForm()
		m.mode = modeAdd
		cmd := m.form.focusField(fieldName)
		return m, cmd
	case "d":
		ref, ok := m.ix.Lookup(m.cur)
		if !ok {
			return m, nil
		}
		p, _ := m.board.Project(ref.ProjectID)
		m.confirm = confirmDelete{projectID: p.ID, name: p.Name}
		m.mode = modeConfirmDelete
		return m, nil
	case "?":
		m.help.SetContent(RenderMarkdown(docs.Legend()+"\n\n"+helpKeys(), max(20, m.width-4)))
		m.help.GotoTop()
		m.mode = modeHelp
		return m, nil
	case "r":
		if err := m.board.Reload(m.ctx); err != nil {
			m.err = err
			return m, nil
		}
		m.refresh()
		m.flash = "Neu geladen"
		return m, nil
	}

	ev := keyEvent(msg, true)
	if ev.Key == grid.KeyOther {
		return m, nil
	}
	// No editor is open, so the caret is at both text boundaries.
	if fr, outcome := grid.Navigate(m.ix, m.cur, ev); outcome == grid.Focus {
		m.cur = fr.Coord
		m.ensureVisible()
	}
	return m, nil
}

func (m *appModel) toggleDrag() {
	ref, ok := m.ix.Lookup(m.cur)
	if !ok {
		return
	}
	if src, pending := m.board.PendingDrag(); pending {
		res, err := m.board.Drop(m.ctx, ref)
		switch {
		case err != nil:
			m.err = err
		case res.Changed:
			m.flash = fmt.Sprintf("%q nach KW %d verschoben", res.Entry.Code, ref.Week)
		default:
			m.flash = fmt.Sprintf("Nicht verschoben (KW %d)", src.Week)
		}
		m.refresh()
		return
	}
	if !m.board.StartDrag(ref) {
		m.flash = "Leere Zellen können nicht verschoben werden"
		return
	}
	m.flash = fmt.Sprintf("KW %d aufgenommen: m legt ab, esc bricht ab", ref.Week)
}

func (m *appModel) startEdit(selectAll bool) tea.Cmd {
	ref, ok := m.ix.Lookup(m.cur)
	if !ok {
		return nil
	}
	p, _ := m.board.Project(ref.ProjectID)
	m.editRef = ref
	m.editor.SetValue(p.Code(ref.Week))
	m.editor.CursorEnd()
	m.selectAll = selectAll
	m.mode = modeEdit
	return m.editor.Focus()
}

func (m appModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.editor.Blur()
		m.selectAll = false
		m.mode = modeNav
		return m, nil
	}

	ev := keyEvent(msg, false)
	if ev.Key != grid.KeyOther {
		ev.TextLen = len([]rune(m.editor.Value()))
		ev.Caret = m.editor.Position()
		if m.selectAll {
			// A selection touches both ends of the text.
			if ev.Key == grid.KeyUp || ev.Key == grid.KeyLeft {
				ev.Caret = 0
			} else {
				ev.Caret = ev.TextLen
			}
		}
		fr, outcome := grid.Navigate(m.ix, m.cur, ev)
		switch outcome {
		case grid.Focus:
			m.cur = fr.Coord
			m.ensureVisible()
			cmd := m.startEdit(fr.SelectAll)
			return m, cmd
		case grid.Swallow:
			return m, nil
		}
		if ev.Key == grid.KeyEnter {
			// Single-line editor: there is no newline to insert.
			return m, nil
		}
		if m.selectAll {
			if ev.Key == grid.KeyUp || ev.Key == grid.KeyLeft {
				m.editor.CursorStart()
			} else {
				m.editor.CursorEnd()
			}
			m.selectAll = false
			return m, nil
		}
	}

	if m.selectAll {
		m.selectAll = false
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace:
			m.editor.SetValue("")
		case tea.KeyBackspace, tea.KeyDelete:
			m.editor.SetValue("")
			m.setCell(m.editRef, "")
			return m, nil
		}
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if v := m.editor.Value(); v != before {
		m.setCell(m.editRef, v)
	}
	return m, cmd
}

func (m *appModel) setCell(ref grid.CellRef, text string) {
	if _, err := m.board.SetCell(m.ctx, ref.ProjectID, ref.Week, text); err != nil {
		m.err = err
		m.log.Warn("set cell failed", zap.String("project", ref.ProjectID), zap.Int("week", ref.Week), zap.Error(err))
	}
	m.refresh()
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = modeNav
		return m, nil
	case "esc":
		m.search.Blur()
		m.search.SetValue("")
		m.filter.Search = ""
		m.mode = modeNav
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.filter.Search {
		m.filter.Search = m.search.Value()
		m.refresh()
	}
	return m, cmd
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNav
		return m, nil
	case "tab", "down":
		cmd := m.form.focusField((m.form.focus + 1) % fieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.form.focusField((m.form.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	case "left":
		if m.form.focus == fieldStatus {
			m.form.cycleStatus(-1)
			return m, nil
		}
	case "right":
		if m.form.focus == fieldStatus {
			m.form.cycleStatus(1)
			return m, nil
		}
	case "enter":
		in, err := m.form.value()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		p, err := m.board.AddProject(m.ctx, in)
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.mode = modeNav
		m.refresh()
		if c, ok := m.ix.Locate(grid.CellRef{ProjectID: p.ID, Week: m.cur.Col}); ok {
			m.cur = c
			m.ensureVisible()
		}
		m.flash = "Projekt angelegt"
		return m, nil
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "left", "right", "h", "l":
		m.confirm.focusConfirm = !m.confirm.focusConfirm
		return m, nil
	case "y":
		return m.deleteConfirmed()
	case "enter":
		if m.confirm.focusConfirm {
			return m.deleteConfirmed()
		}
		m.mode = modeNav
		return m, nil
	case "n", "esc", "q":
		m.mode = modeNav
		return m, nil
	}
	return m, nil
}

func (m appModel) deleteConfirmed() (tea.Model, tea.Cmd) {
	m.mode = modeNav
	res, err := m.board.DeleteProject(m.ctx, m.confirm.projectID)
	if err != nil {
		m.err = err
		return m, nil
	}
	if res.Changed {
		m.flash = fmt.Sprintf("%q gelöscht", m.confirm.name)
	}
	m.refresh()
	return m, nil
}

func (m appModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.mode = modeNav
		return m, nil
	}
	var cmd tea.Cmd
	m.help, cmd = m.help.Update(msg)
	return m, cmd
}

// refresh re-derives the visible rows and keeps the cursor on the same project when it is
// still visible.
func (m *appModel) refresh() {
	keep, hadRow := m.ix.Lookup(m.cur)

	m.rows = m.board.View(m.filter)
	m.ix = grid.BuildIndex(m.rows)

	if m.mode == modeEdit {
		if _, ok := m.ix.Locate(m.editRef); !ok {
			m.editor.Blur()
			m.selectAll = false
			m.mode = modeNav
		}
	}

	if hadRow {
		if c, ok := m.ix.Locate(keep); ok {
			m.cur = c
			m.ensureVisible()
			return
		}
	}
	m.cur.Row = min(m.cur.Row, max(0, len(m.rows)-1))
	m.cur.Row = max(m.cur.Row, 0)
	m.cur.Col = min(max(m.cur.Col, 1), model.WeeksPerYear)
	m.ensureVisible()
}

// keyEvent translates a key press for grid.Navigate. vim adds hjkl as arrow aliases.
func keyEvent(msg tea.KeyMsg, vim bool) grid.KeyEvent {
	s := msg.String()
	var ev grid.KeyEvent
	if rest, ok := strings.CutPrefix(s, "alt+"); ok {
		ev.Meta = true
		s = rest
	}
	if rest, ok := strings.CutPrefix(s, "ctrl+"); ok {
		ev.Ctrl = true
		s = rest
	}
	if rest, ok := strings.CutPrefix(s, "shift+"); ok {
		ev.Shift = true
		s = rest
	}
	if vim {
		switch s {
		case "h":
			s = "left"
		case "j":
			s = "down"
		case "k":
			s = "up"
		case "l":
			s = "right"
		}
	}
	ev.Key = grid.ParseKey(s)
	return ev
}

func cycleStatus(cur model.Status, dir int) model.Status {
	opts := append([]model.Status{""}, model.Statuses()...)
	i := 0
	for j, st := range opts {
		if st == cur {
			i = j
			break
		}
	}
	return opts[(i+dir+len(opts))%len(opts)]
}

func helpKeys() string {
	body, _ := docs.Get("keys")
	return body
}
