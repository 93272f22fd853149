// Package prompt provides the interactive terminal prompts: selection
// lists, confirmations, and text input.
package prompt

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user aborts a prompt with esc or
// ctrl-c.
var ErrCancelled = errors.New("cancelled by user")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7"))
)

// Successf prints a success line.
func Successf(format string, args ...any) {
	fmt.Println(successStyle.Render("✓ " + fmt.Sprintf(format, args...)))
}

// Infof prints an informational line.
func Infof(format string, args ...any) {
	fmt.Println(infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Warningf prints a warning line.
func Warningf(format string, args ...any) {
	fmt.Println(warningStyle.Render("! " + fmt.Sprintf(format, args...)))
}

// Errorf prints an error line.
func Errorf(format string, args ...any) {
	fmt.Println(errorStyle.Render("✗ " + fmt.Sprintf(format, args...)))
}
