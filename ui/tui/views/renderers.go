package views

import (
	"waverefresh/ui/tui/state"
)

func RenderRefresh(s state.AppState, props ViewProps) string {
	v := RefreshView{}
	return v.Render(s, props)
}

func RenderJournal(s state.AppState, props ViewProps) string {
	v := JournalView{}
	return v.Render(s, props)
}
