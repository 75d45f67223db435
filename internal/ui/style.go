package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// DefaultWidth is used when stdout is not a terminal.
const DefaultWidth = 80

var headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// Heading styles a section title for terminal output.
func Heading(text string) string {
	if !ansiEnabled() {
		return text
	}
	return headingStyle.Render(text)
}

// TerminalWidth returns the width of stdout, or DefaultWidth.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}
