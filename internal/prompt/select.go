package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

const maxVisible = 10

type selectModel struct {
	title     string
	options   []string
	filtering bool
	query     string
	filtered  []int
	cursor    int
	choice    int
	cancelled bool
}

func newSelectModel(title string, options []string, filtering bool) *selectModel {
	m := &selectModel{
		title:     title,
		options:   options,
		filtering: filtering,
		choice:    -1,
	}
	m.refilter()
	return m
}

// refilter rebuilds the visible index list for the current query.
func (m *selectModel) refilter() {
	if m.query == "" {
		m.filtered = make([]int, len(m.options))
		for i := range m.options {
			m.filtered[i] = i
		}
	} else {
		matches := fuzzy.Find(m.query, m.options)
		m.filtered = make([]int, len(matches))
		for i, match := range matches {
			m.filtered[i] = match.Index
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

func (m *selectModel) Init() tea.Cmd { return nil }

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		if len(m.filtered) > 0 {
			m.choice = m.filtered[m.cursor]
			return m, tea.Quit
		}
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case tea.KeyBackspace:
		if m.filtering && len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
			m.refilter()
		}
	case tea.KeyRunes:
		if m.filtering {
			m.query += string(key.Runes)
			m.refilter()
		}
	}
	return m, nil
}

func (m *selectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(dimStyle.Render("Filter: ") + m.query + "\n")
	}

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.filtered))

	for i := start; i < end; i++ {
		option := m.options[m.filtered[i]]
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(option))
		} else {
			b.WriteString("  " + option)
		}
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  no matches") + "\n")
	}
	b.WriteString(dimStyle.Render("↑/↓ move · enter select · esc cancel"))
	return b.String()
}

func runSelect(title string, options []string, filtering bool) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("nothing to select from")
	}
	m := newSelectModel(title, options, filtering)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return 0, fmt.Errorf("running prompt: %w", err)
	}
	if m.cancelled || m.choice < 0 {
		return 0, ErrCancelled
	}
	return m.choice, nil
}

// Select prompts for one option and returns its index.
func Select(title string, options []string) (int, error) {
	return runSelect(title, options, false)
}

// FuzzySelect prompts for one option with fuzzy filtering as the user
// types.
func FuzzySelect(title string, options []string) (int, error) {
	return runSelect(title, options, true)
}
