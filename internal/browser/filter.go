package browser

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/nivela/internal/model"
)

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Categoría: "),
		newFilterInput("Abscisa mínima: "),
		newFilterInput("Abscisa máxima: "),
	}
	m.filterInputs[inputCategory].Placeholder = "K0+"
	m.setInputsFromSpec()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromSpec() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[inputCategory].SetValue(m.spec.Category)
	m.filterInputs[inputMin].SetValue(boundValue(m.spec.Min))
	m.filterInputs[inputMax].SetValue(boundValue(m.spec.Max))
}

func boundValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromSpec()
	return m, m.setFilterIndex(inputCategory)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	spec, err := model.ParseFilterSpec(
		m.filterInputs[inputCategory].Value(),
		m.filterInputs[inputMin].Value(),
		m.filterInputs[inputMax].Value(),
	)
	if err != nil {
		return err
	}
	m.spec = spec
	m.categoryIdx = -1
	for i, c := range m.categories {
		if c == spec.Category {
			m.categoryIdx = i
		}
	}
	m.recompute()
	return nil
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filter (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if len(m.categories) > 0 {
		lines = append(lines, "", headerStyle.Render("Categories: "+strings.Join(m.categories, ", ")))
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}
