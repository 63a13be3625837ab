package tui

import (
	"errors"
	"strings"

	"planboard/internal/model"
	"planboard/internal/mutate"
	"planboard/internal/view"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type addField int

const (
	fieldName addField = iota
	fieldLocation
	fieldClient
	fieldTotal
	fieldStatus
	fieldCount
)

var addFieldLabels = [fieldCount]string{"Bauvorhaben", "Ort", "Auftraggeber", "Summe (€)", "Status"}

// addForm is the create-project modal. Status is a selector, the other fields are text.
type addForm struct {
	inputs [fieldStatus]textinput.Model
	status int
	focus  addField
	err    string
}

func newAddForm() addForm {
	var f addForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 32
		f.inputs[i] = in
	}
	f.inputs[fieldTotal].Placeholder = "0"
	return f
}

func (f *addForm) focusField(i addField) tea.Cmd {
	f.focus = i
	var cmd tea.Cmd
	for j := range f.inputs {
		if addField(j) == i {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *addForm) cycleStatus(dir int) {
	n := len(model.Statuses())
	f.status = (f.status + dir + n) % n
}

func (f *addForm) update(msg tea.Msg) tea.Cmd {
	if f.focus >= fieldStatus {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return cmd
}

func (f addForm) value() (mutate.NewProject, error) {
	in := mutate.NewProject{
		Name:     f.inputs[fieldName].Value(),
		Location: f.inputs[fieldLocation].Value(),
		Client:   f.inputs[fieldClient].Value(),
		Status:   string(model.Statuses()[f.status]),
	}
	if raw := strings.TrimSpace(f.inputs[fieldTotal].Value()); raw != "" {
		v, err := view.ParseAmount(raw)
		if err != nil {
			return mutate.NewProject{}, errors.New("Summe ist keine Zahl")
		}
		in.Total = v
	}
	return in, nil
}

func (f addForm) render(width int) string {
	labelW := 14
	lines := make([]string, 0, fieldCount+4)
	for i := addField(0); i < fieldCount; i++ {
		label := fit(addFieldLabels[i], labelW)
		if i == f.focus {
			label = styleHeader().Render(label)
		} else {
			label = styleMuted().Render(label)
		}
		var val string
		if i == fieldStatus {
			parts := make([]string, 0, len(model.Statuses()))
			for j, st := range model.Statuses() {
				s := string(st)
				if j == f.status {
					s = styleTone(st.BadgeTone()).Bold(true).Render(" " + s + " ")
				} else {
					s = " " + s + " "
				}
				parts = append(parts, s)
			}
			val = strings.Join(parts, "")
		} else {
			val = f.inputs[i].View()
		}
		lines = append(lines, label+" "+val)
	}
	lines = append(lines, "")
	if f.err != "" {
		lines = append(lines, styleError().Render(f.err))
	}
	lines = append(lines, styleMuted().Render("tab: nächstes Feld   ←/→: Status   enter: anlegen   esc: abbrechen"))
	return renderModalBox(width, "Projekt hinzufügen", strings.Join(lines, "\n"))
}

type confirmDelete struct {
	projectID    string
	name         string
	focusConfirm bool
}

func (c confirmDelete) render(width int) string {
	btn := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	active := btn.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	yes, no := btn.Render("Löschen"), btn.Render("Abbrechen")
	if c.focusConfirm {
		yes = active.Render("Löschen")
	} else {
		no = active.Render("Abbrechen")
	}

	name := c.name
	if strings.TrimSpace(name) == "" {
		name = c.projectID
	}
	body := strings.Join([]string{
		"Projekt " + styleHeader().Render(name) + " wirklich löschen?",
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, yes, " ", no),
		"",
		styleMuted().Render("y: löschen   n/esc: abbrechen   tab: wechseln"),
	}, "\n")
	return renderModalBox(width, "Projekt löschen", body)
}

func renderModalBox(width int, title, body string) string {
	w := min(max(width-8, 30), 72)
	head := styleHeader().Render(title)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Width(w).
		Render(head + "\n\n" + body)
}
