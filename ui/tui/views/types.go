package views

import (
	"waverefresh/internal/refresh"
	"waverefresh/ui/tui/components"
	"waverefresh/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height int
	CellH         int // px per terminal row

	// Component States
	Canvas      *components.HeaderCanvas
	Layout      *refresh.Container
	Reveal      float64 // list rows uncovered so far
	SpinnerView string
	ChartView   string
	ScrollY     int
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}
