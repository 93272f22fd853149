package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type inputModel struct {
	title     string
	input     textinput.Model
	validate  func(string) error
	errText   string
	done      bool
	cancelled bool
}

func (m *inputModel) Init() tea.Cmd { return textinput.Blink }

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.validate != nil {
				if err := m.validate(m.input.Value()); err != nil {
					m.errText = err.Error()
					return m, nil
				}
			}
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inputModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText) + "\n")
	}
	b.WriteString(dimStyle.Render("enter confirm · esc cancel"))
	return b.String()
}

// Input prompts for a single line of text. validate may be nil; when it
// returns an error the message is shown and the prompt stays open.
func Input(title, placeholder string, validate func(string) error) (string, error) {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 500
	input.Focus()

	m := &inputModel{title: title, input: input, validate: validate}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return "", fmt.Errorf("running prompt: %w", err)
	}
	if m.cancelled {
		return "", ErrCancelled
	}
	return m.input.Value(), nil
}

type confirmModel struct {
	question  string
	value     bool
	done      bool
	cancelled bool
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyLeft, tea.KeyRight:
		m.value = !m.value
	case tea.KeyRunes:
		switch string(key.Runes) {
		case "y", "Y":
			m.value = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.value = false
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *confirmModel) View() string {
	yes, no := "yes", "no"
	if m.value {
		yes = selectedStyle.Render("[yes]")
	} else {
		no = selectedStyle.Render("[no]")
	}
	return fmt.Sprintf("%s %s / %s\n%s",
		titleStyle.Render(m.question), yes, no,
		dimStyle.Render("y/n or ←/→ · enter confirm · esc cancel"))
}

// Confirm asks a yes/no question.
func Confirm(question string, preselect bool) (bool, error) {
	m := &confirmModel{question: question, value: preselect}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return false, fmt.Errorf("running prompt: %w", err)
	}
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.value, nil
}

type editorModel struct {
	title     string
	area      textarea.Model
	done      bool
	cancelled bool
}

func (m *editorModel) Init() tea.Cmd { return textarea.Blink }

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *editorModel) View() string {
	return titleStyle.Render(m.title) + "\n" +
		m.area.View() + "\n" +
		dimStyle.Render("ctrl-d finish · esc cancel")
}

// Editor opens a multi-line text editor and returns its content.
func Editor(title, placeholder string) (string, error) {
	area := textarea.New()
	area.Placeholder = placeholder
	area.CharLimit = 4000
	area.SetWidth(80)
	area.SetHeight(8)
	area.Focus()

	m := &editorModel{title: title, area: area}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return "", fmt.Errorf("running prompt: %w", err)
	}
	if m.cancelled {
		return "", ErrCancelled
	}
	return strings.TrimSpace(m.area.Value()), nil
}
