// ABOUTME: Terminal-aware styling for CLI output: headings, badges, column truncation
// ABOUTME: Styling is disabled when the output is not a TTY

package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const defaultWidth = 100

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

type styler struct {
	tty   bool
	width int
}

func newStyler(w io.Writer) styler {
	s := styler{width: defaultWidth}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return s
	}
	s.tty = true
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		s.width = width
	}
	return s
}

func (s styler) render(style lipgloss.Style, text string) string {
	if !s.tty {
		return text
	}
	return style.Render(text)
}

func (s styler) heading(text string) string { return s.render(headingStyle, text) }
func (s styler) ok(text string) string      { return s.render(okStyle, text) }
func (s styler) bad(text string) string     { return s.render(badStyle, text) }
func (s styler) dim(text string) string     { return s.render(dimStyle, text) }

// truncate shortens text to width display cells.
func truncate(text string, width int) string {
	if width <= 1 || runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "…")
}
