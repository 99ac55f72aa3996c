package views

import (
	"strings"

	"waverefresh/internal/refresh"
	"waverefresh/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// StyleForState colors the state name in the status bar.
func StyleForState(st refresh.State) lipgloss.Style {
	s := styles.StatusStyle
	switch {
	case st == refresh.StateRefreshable:
		return s.Foreground(styles.Special)
	case st == refresh.StateShowSun:
		return s.Foreground(styles.SunColor)
	case st < refresh.StateNormal:
		return s.Foreground(styles.MutedColor)
	}
	return s
}

// padLine right-pads a line with spaces to width cells so marked zones cover
// the whole row.
func padLine(line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		return line + strings.Repeat(" ", width-w)
	}
	return line
}
