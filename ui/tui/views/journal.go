package views

import (
	"fmt"
	"strings"
	"time"

	"waverefresh/internal/journal"
	"waverefresh/ui/tui/state"
	"waverefresh/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// JournalView lists recorded refresh sessions next to the offset history.
type JournalView struct{}

func (v JournalView) Render(s state.AppState, props ViewProps) string {
	header := styles.HeaderStyle.Width(props.Width).Render("Refresh Journal")

	if !s.JournalEnabled {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			lipgloss.NewStyle().Padding(1, 2).Render("Journal disabled. Start with --journal to record sessions."),
			props.ChartView,
			styles.HintStyle.PaddingLeft(2).Render("Press 'b' to go back"),
		)
	}

	summary := v.summary(s.Summary)
	if s.JournalErr != nil {
		summary += "\n" + lipgloss.NewStyle().Foreground(styles.ErrorColor).Render("journal: "+s.JournalErr.Error())
	}

	lines := make([]string, 0, len(s.Recent))
	for _, sess := range s.Recent {
		lines = append(lines, sessionLine(sess))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.HintStyle.Render("no sessions recorded yet"))
	}

	availableHeight := props.Height - lipgloss.Height(header) - lipgloss.Height(summary) - lipgloss.Height(props.ChartView) - 4
	if availableHeight < 1 {
		availableHeight = 1
	}

	total := len(lines)
	scrollY := props.ScrollY
	if scrollY > total-availableHeight {
		scrollY = total - availableHeight
	}
	if scrollY < 0 {
		scrollY = 0
	}
	end := min(scrollY+availableHeight, total)

	box := lipgloss.NewStyle().
		Width(max(props.Width-4, 1)).
		Height(availableHeight).
		Padding(0, 1).
		Render(strings.Join(lines[scrollY:end], "\n"))

	footerText := fmt.Sprintf("Sessions: %d/%d • Press 'b' to go back", end, total)
	if total > availableHeight {
		footerText += " • Use ↑/↓ to scroll"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(0, 2).Render(summary),
		box,
		props.ChartView,
		styles.HintStyle.PaddingLeft(2).Render(footerText),
	)
}

func (v JournalView) summary(sum journal.Summary) string {
	last := "never"
	if !sum.LastFinish.IsZero() {
		last = sum.LastFinish.Format("2006-01-02 15:04:05")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.LabelStyle.Render("sessions")+fmt.Sprintf("%d", sum.Count),
		styles.LabelStyle.Render("avg acquire")+sum.AvgAcquire.Round(time.Millisecond).String(),
		styles.LabelStyle.Render("cancelled")+fmt.Sprintf("%d", sum.Cancelled),
		styles.LabelStyle.Render("with failures")+fmt.Sprintf("%d", sum.WithFailure),
		styles.LabelStyle.Render("last finished")+last,
	)
}

func sessionLine(s journal.Session) string {
	line := fmt.Sprintf("#%-4d %s  %6s  %3d items",
		s.ID,
		s.StartedAt.Format("15:04:05"),
		s.Acquire.Round(time.Millisecond),
		s.Items)
	switch {
	case s.Error != "":
		line += lipgloss.NewStyle().Foreground(styles.ErrorColor).Render("  " + s.Error)
	case s.Cancelled:
		line += styles.HintStyle.Render("  cancelled")
	case s.Failed > 0:
		line += lipgloss.NewStyle().Foreground(styles.SunColor).Render(fmt.Sprintf("  %d failed", s.Failed))
	}
	return line
}
