package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"waverefresh/internal/collector"
	"waverefresh/internal/refresh"
	"waverefresh/ui/tui/state"
	"waverefresh/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// Layout child names and the mouse zone of the pullable area.
const (
	LayoutZone      = "layout"
	HeaderChildName = "wave-header"
	FooterChildName = "list-footer"

	itemChildPrefix = "item-"
)

func ItemChildName(i int) string {
	return itemChildPrefix + strconv.Itoa(i)
}

func itemIndex(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, itemChildPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(rest)
	return i, err == nil
}

// RefreshView draws the header canvas on top, then whatever layout child
// covers each remaining terminal row, then the status bar.
type RefreshView struct{}

func (v RefreshView) Render(s state.AppState, props ViewProps) string {
	status := v.statusBar(s, props)
	bodyH := props.Height - lipgloss.Height(status)
	if bodyH < 0 {
		bodyH = 0
	}
	cellH := props.CellH
	if cellH <= 0 {
		cellH = 16
	}

	canvasRows := 0
	if props.Canvas != nil {
		canvasRows = min(props.Canvas.Rows, bodyH)
	}

	lines := make([]string, 0, bodyH)
	for r := 0; r < bodyH; r++ {
		if r < canvasRows {
			lines = append(lines, padLine(props.Canvas.RowView(r), props.Width))
			continue
		}
		y := s.Header.TopY + r*cellH + cellH/2
		lines = append(lines, padLine(v.contentLine(s, props, y), props.Width))
	}

	body := zone.Mark(LayoutZone, strings.Join(lines, "\n"))
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, body, status))
}

func (v RefreshView) contentLine(s state.AppState, props ViewProps, y int) string {
	if props.Layout == nil {
		return ""
	}
	ch, _, ok := props.Layout.ChildAt(y)
	if !ok {
		return ""
	}
	if ch.Role == refresh.RoleFooter {
		return v.footer(s)
	}
	i, ok := itemIndex(ch.Name)
	if !ok || i >= len(s.Items) || float64(i) >= props.Reveal {
		return ""
	}
	return itemLine(s.Items[i])
}

func itemLine(it collector.Item) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ",
		styles.LabelStyle.Render(it.Sensor+" "+it.Label),
		it.Value,
	)
}

func (v RefreshView) footer(s state.AppState) string {
	if s.RefreshCount == 0 {
		return styles.HintStyle.Render("  pull down to load")
	}
	text := fmt.Sprintf("  %d items • refresh #%d at %s • acquired in %s",
		len(s.Items), s.RefreshCount,
		s.LastRefresh.Format("15:04:05"),
		s.LastAcquire.Round(time.Millisecond))
	line := styles.HintStyle.Render(text)
	if len(s.Failed) > 0 {
		line += lipgloss.NewStyle().Foreground(styles.ErrorColor).
			Render(" • failed: " + strings.Join(s.Failed, ", "))
	}
	return line
}

func (v RefreshView) statusBar(s state.AppState, props ViewProps) string {
	h := s.Header
	indicator := " "
	if h.Refreshing {
		indicator = props.SpinnerView
	}
	mode := "refresh on"
	if !s.Refreshable {
		mode = "refresh off"
	}
	info := lipgloss.JoinHorizontal(lipgloss.Left,
		indicator,
		styles.TitleStyle.Render("WaveRefresh"),
		StyleForState(h.State).Render(h.State.String()),
		fmt.Sprintf(" %s  top %d  peak %.1f  %s  %s", h.Phase, h.TopY, h.PeakHeight, mode, s.PeakGrowth),
	)
	if s.Err != nil {
		info += lipgloss.NewStyle().Foreground(styles.ErrorColor).Render("  " + s.Err.Error())
	}
	hints := styles.HintStyle.Render(" drag down to refresh • [e] refreshable • [g] peak growth • [j] journal • [q] quit")
	return lipgloss.JoinVertical(lipgloss.Left, info, hints)
}
