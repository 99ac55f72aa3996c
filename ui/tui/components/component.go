package components

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Component is a widget owned by the main model. Widgets are redrawn from
// model state on every frame, so Update is usually a no-op.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Model, tea.Cmd)
	View() string
}

var (
	_ Component = (*HeaderCanvas)(nil)
	_ Component = (*HistoryWidget)(nil)
)
