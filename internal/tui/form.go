package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/cef/internal/events"
)

const (
	fieldTitle = iota
	fieldDate
	fieldTime
	fieldCategory
	fieldDescription
)

var fieldLabels = []string{"Title", "Date", "Time", "Category", "Description"}

// addForm collects a new event. Validation happens in the finder.
type addForm struct {
	inputs []textinput.Model
	focus  int
	err    error
}

func newAddForm() addForm {
	placeholders := []string{"Spring Career Fair", "2025-03-10", "10:00", "Career", "What is it about?"}
	inputs := make([]textinput.Model, len(fieldLabels))
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 50
		inputs[i] = ti
	}
	return addForm{inputs: inputs}
}

func (f *addForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *addForm) move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.focusCurrent()
}

func (f *addForm) onLast() bool {
	return f.focus == len(f.inputs)-1
}

func (f *addForm) update(msg tea.Msg) tea.Cmd {
	f.err = nil
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *addForm) setValues(values ...string) {
	for i, v := range values {
		if i < len(f.inputs) {
			f.inputs[i].SetValue(v)
		}
	}
}

func (f addForm) event() events.Event {
	return events.Event{
		Title:       f.inputs[fieldTitle].Value(),
		Date:        f.inputs[fieldDate].Value(),
		Time:        f.inputs[fieldTime].Value(),
		Category:    f.inputs[fieldCategory].Value(),
		Description: f.inputs[fieldDescription].Value(),
	}
}

var labelStyle = lipgloss.NewStyle().Width(13).Foreground(lipgloss.Color("62"))

func (f addForm) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add an event"))
	b.WriteString("\n\n")
	for i, in := range f.inputs {
		b.WriteString(labelStyle.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if f.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err.Error()))
	}
	return b.String()
}
