package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type multiSelectModel struct {
	title     string
	options   []string
	checked   []bool
	cursor    int
	done      bool
	cancelled bool
}

func (m *multiSelectModel) Init() tea.Cmd { return nil }

func (m *multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case tea.KeySpace:
		m.checked[m.cursor] = !m.checked[m.cursor]
	case tea.KeyRunes:
		switch string(key.Runes) {
		case "a":
			for i := range m.checked {
				m.checked[i] = true
			}
		case "n":
			for i := range m.checked {
				m.checked[i] = false
			}
		}
	}
	return m, nil
}

func (m *multiSelectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	for i, option := range m.options {
		mark := "[ ]"
		if m.checked[i] {
			mark = "[x]"
		}
		line := mark + " " + option
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("space toggle · a all · n none · enter confirm · esc cancel"))
	return b.String()
}

// MultiSelect prompts for any number of options, pre-checking them all,
// and returns the indices of the checked ones.
func MultiSelect(title string, options []string) ([]int, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("nothing to select from")
	}
	m := &multiSelectModel{title: title, options: options, checked: make([]bool, len(options))}
	for i := range m.checked {
		m.checked[i] = true
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}
	if m.cancelled {
		return nil, ErrCancelled
	}
	var selected []int
	for i, on := range m.checked {
		if on {
			selected = append(selected, i)
		}
	}
	return selected, nil
}
