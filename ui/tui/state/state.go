package state

import (
	"time"

	"waverefresh/internal/collector"
	"waverefresh/internal/journal"
	"waverefresh/internal/refresh"
)

type Page int

const (
	PageRefresh Page = iota // pull-to-refresh list
	PageJournal             // recorded sessions
)

// AppState holds what the views render: the header frame, the loaded list
// and the journal.
type AppState struct {
	Header       refresh.Snapshot
	Items        []collector.Item
	Failed       []string
	RefreshCount int
	LastRefresh  time.Time
	LastAcquire  time.Duration
	Err          error

	JournalEnabled bool
	Summary        journal.Summary
	Recent         []journal.Session
	JournalErr     error

	Refreshable bool
	PeakGrowth  refresh.PeakGrowth
	CurrentPage Page
}
