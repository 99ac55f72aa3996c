package components

import (
	"waverefresh/ui/tui/styles"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HistoryWidget charts the last Capacity samples of one value.
type HistoryWidget struct {
	Title    string
	Chart    linechart.Model
	History  []float64
	Capacity int
	MinY     float64
	MaxY     float64
	Width    int
	Height   int
}

func NewHistoryWidget(title string, width, height, capacity int, minY, maxY float64) *HistoryWidget {
	if capacity < 2 {
		capacity = 2
	}
	// width, height, minX, maxX, minY, maxY
	lc := linechart.New(width, height, 0, float64(capacity-1), minY, maxY)
	return &HistoryWidget{
		Title:    title,
		Chart:    lc,
		History:  make([]float64, 0, capacity),
		Capacity: capacity,
		MinY:     minY,
		MaxY:     maxY,
		Width:    width,
		Height:   height,
	}
}

func (h *HistoryWidget) Init() tea.Cmd {
	return nil
}

// Push appends a sample, clamped to the chart range, and drops the oldest
// once the history is full.
func (h *HistoryWidget) Push(value float64) {
	if value < h.MinY {
		value = h.MinY
	}
	if value > h.MaxY {
		value = h.MaxY
	}
	h.History = append(h.History, value)
	if len(h.History) > h.Capacity {
		h.History = h.History[1:]
	}
}

func (h *HistoryWidget) Last() (float64, bool) {
	if len(h.History) == 0 {
		return 0, false
	}
	return h.History[len(h.History)-1], true
}

func (h *HistoryWidget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return h, nil
}

func (h *HistoryWidget) Resize(w, ht int) {
	h.Width = w
	h.Height = ht
	h.Chart.Resize(w, ht)
}

func (h *HistoryWidget) View() string {
	h.Chart.Clear()
	for i := 0; i < len(h.History)-1; i++ {
		h.Chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: h.History[i]},
			canvas.Float64Point{X: float64(i + 1), Y: h.History[i+1]},
		)
	}
	h.Chart.DrawXYAxisAndLabel()

	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(h.Title),
			h.Chart.View(),
		),
	)
}
