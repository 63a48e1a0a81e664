package report

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorGreen  = "2"
	colorYellow = "3"
)

type styles struct {
	warn     lipgloss.Style
	ok       lipgloss.Style
	best     lipgloss.Style
	boldWarn lipgloss.Style
}

// newStyles binds the palette to w so that colors are dropped when w is not
// a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		warn:     r.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		ok:       r.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		best:     r.NewStyle().Foreground(lipgloss.Color(colorGreen)).Bold(true),
		boldWarn: r.NewStyle().Foreground(lipgloss.Color(colorYellow)).Bold(true),
	}
}

// center pads s to width with the extra space on the right.
func center(s string, width int) string {
	pad := width - visibleWidth(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func padLeft(s string, width int) string {
	if pad := width - visibleWidth(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

func padRight(s string, width int) string {
	if pad := width - visibleWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}

// visibleWidth ignores ANSI sequences and counts wide runes as two cells.
func visibleWidth(s string) int { return lipgloss.Width(s) }
