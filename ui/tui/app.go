package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"waverefresh/internal/collector"
	"waverefresh/internal/journal"
	"waverefresh/internal/refresh"
	"waverefresh/ui/tui/components"
	"waverefresh/ui/tui/state"
	"waverefresh/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

const (
	statusRows     = 2
	historySamples = 180
	journalTimeout = 5 * time.Second
	defaultRecent  = 20
)

// SessionStore persists finished refresh sessions. *journal.Repo implements it.
type SessionStore interface {
	Record(ctx context.Context, s journal.Session) (int64, error)
	Recent(ctx context.Context, limit int) ([]journal.Session, error)
	Summary(ctx context.Context) (journal.Summary, error)
}

// Options configure the host program.
type Options struct {
	Refresh    refresh.Config
	CellWidth  int           // px per terminal column
	CellHeight int           // px per terminal row
	FetchDelay time.Duration // wait before sampling, keeps the sun on screen
	Logger     *slog.Logger
	Journal    SessionStore // nil disables recording
	Recent     int          // sessions listed on the journal page
	Clock      func() time.Time
}

// MainModel is the Bubble Tea Model acting as the Controller. It owns the
// refresh controller and is the only caller of it.
type MainModel struct {
	controller *refresh.Controller
	provider   collector.SnapshotProvider
	store      SessionStore
	logger     *slog.Logger
	now        func() time.Time

	state       state.AppState
	spinner     spinner.Model
	canvas      *components.HeaderCanvas
	offsetChart *components.HistoryWidget

	// list reveal after a load
	spring    harmonica.Spring
	reveal    float64
	revealVel float64

	cellW, cellH   int
	frameInterval  time.Duration
	fetchDelay     time.Duration
	recentLimit    int
	frameScheduled bool
	pending        []tea.Cmd // queued by listener callbacks

	// refresh session bookkeeping
	session      uint64
	loaded       uint64
	completed    bool
	sessionErr   string
	acquireStart time.Time
	staged       *collector.Snapshot

	mouseDown      bool
	journalScrollY int
	quitting       bool
	width          int
	height         int
}

// Messages
type FrameMsg struct {
	Generation uint64
	Time       time.Time
}

type FetchDueMsg struct {
	Session uint64
}

type SnapshotMsg struct {
	Session  uint64
	Snapshot collector.Snapshot
	Err      error
}

type JournalMsg struct {
	ID      int64
	Summary journal.Summary
	Recent  []journal.Session
	Err     error
}

func InitialModel(provider collector.SnapshotProvider, opts Options) (*MainModel, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	ctrl, err := refresh.New(opts.Refresh,
		refresh.WithLogger(logger.With("component", "refresh")),
		refresh.WithClock(opts.Clock))
	if err != nil {
		return nil, err
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	if opts.Recent <= 0 {
		opts.Recent = defaultRecent
	}

	zone.NewGlobal()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(opts.Refresh.SunColor))

	cfg := ctrl.Config()
	m := &MainModel{
		controller: ctrl,
		provider:   provider,
		store:      opts.Journal,
		logger:     logger,
		now:        opts.Clock,
		spinner:    s,
		canvas:     components.NewHeaderCanvas(opts.CellWidth, opts.CellHeight, components.PaletteFromConfig(cfg)),
		offsetChart: components.NewHistoryWidget("Pull distance (px)", 40, 8, historySamples,
			-float64(cfg.MinRefreshHeight), 2*float64(cfg.MinRefreshHeight)),
		spring:        harmonica.NewSpring(harmonica.FPS(int(time.Second/cfg.FrameInterval)), 12.0, 0.9),
		cellW:         opts.CellWidth,
		cellH:         opts.CellHeight,
		frameInterval: cfg.FrameInterval,
		fetchDelay:    opts.FetchDelay,
		recentLimit:   opts.Recent,
		state: state.AppState{
			JournalEnabled: opts.Journal != nil,
			Refreshable:    cfg.Refreshable,
			PeakGrowth:     cfg.PeakGrowth,
			CurrentPage:    state.PageRefresh,
		},
	}
	ctrl.SetListener(refresh.ListenerFuncs{
		AcquireData: m.onAcquireData,
		LoadData:    m.onLoadData,
	})
	m.rebuildLayout()
	return m, nil
}

func (m *MainModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.store != nil {
		cmds = append(cmds, loadJournalCmd(m.store, m.recentLimit))
	}
	return tea.Batch(cmds...)
}

// Commands
func frameCmd(generation uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return FrameMsg{Generation: generation, Time: t}
	})
}

func fetchDueCmd(session uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return FetchDueMsg{Session: session}
	})
}

func fetchSnapshotCmd(p collector.SnapshotProvider, session uint64) tea.Cmd {
	return func() tea.Msg {
		snap, err := p.Snapshot(context.Background())
		return SnapshotMsg{Session: session, Snapshot: snap, Err: err}
	}
}

func readJournal(ctx context.Context, store SessionStore, limit int) JournalMsg {
	sum, err := store.Summary(ctx)
	if err != nil {
		return JournalMsg{Err: err}
	}
	recent, err := store.Recent(ctx, limit)
	if err != nil {
		return JournalMsg{Err: err}
	}
	return JournalMsg{Summary: sum, Recent: recent}
}

func loadJournalCmd(store SessionStore, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		return readJournal(ctx, store, limit)
	}
}

func recordSessionCmd(store SessionStore, s journal.Session, limit int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
		defer cancel()
		id, err := store.Record(ctx, s)
		if err != nil {
			return JournalMsg{Err: fmt.Errorf("record session: %w", err)}
		}
		msg := readJournal(ctx, store, limit)
		msg.ID = id
		return msg
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case FrameMsg:
		return m.handleFrameMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case FetchDueMsg:
		if !m.sessionOpen(msg.Session) {
			return m, nil
		}
		return m, fetchSnapshotCmd(m.provider, msg.Session)

	case SnapshotMsg:
		return m.handleSnapshotMsg(msg)

	case JournalMsg:
		return m.handleJournalMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.controller.Detach()
		return m, tea.Quit
	}

	if m.state.CurrentPage == state.PageJournal {
		switch msg.String() {
		case "up", "k":
			if m.journalScrollY > 0 {
				m.journalScrollY--
			}
		case "down", "j":
			m.journalScrollY++
		case "b", "esc", "backspace":
			m.state.CurrentPage = state.PageRefresh
			m.journalScrollY = 0
		}
		return m, nil
	}

	switch msg.String() {
	case "e":
		m.controller.SetRefreshable(!m.controller.Refreshable())
		m.state.Refreshable = m.controller.Refreshable()
		m.logger.Info("refreshable toggled", "enabled", m.state.Refreshable)
	case "g":
		g := refresh.PeakGrowthIncremental
		if m.controller.PeakGrowth() == refresh.PeakGrowthIncremental {
			g = refresh.PeakGrowthLinear
		}
		m.controller.SetPeakGrowth(g)
		m.state.PeakGrowth = g
	case "j":
		m.state.CurrentPage = state.PageJournal
		if m.store != nil {
			return m, m.flush(loadJournalCmd(m.store, m.recentLimit))
		}
	}
	m.paint()
	return m, m.flush()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	w, h := m.width*m.cellW, m.bodyHeight()*m.cellH
	if !m.controller.Attached() {
		m.controller.Attach(w, h)
		// ticks stamped before Attach are now stale
		m.frameScheduled = false
	} else {
		m.controller.Resize(w, h)
	}
	if chartW := msg.Width/2 - 6; chartW > 10 {
		m.offsetChart.Resize(chartW, 8)
	}
	m.paint()
	return m, m.flush()
}

func (m *MainModel) handleFrameMsg(msg FrameMsg) (tea.Model, tea.Cmd) {
	if msg.Generation != m.controller.Generation() {
		m.logger.Debug("stale frame dropped", "generation", msg.Generation)
		return m, nil
	}
	m.frameScheduled = false
	m.controller.Frame(msg.Generation, msg.Time)
	m.stepReveal()
	m.offsetChart.Push(-float64(m.controller.TopY()))
	m.paint()
	return m, m.flush()
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state.CurrentPage != state.PageRefresh {
		return m, nil
	}
	y := msg.Y * m.cellH
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if !m.inLayout(msg) {
			return m, nil
		}
		m.mouseDown = true
		m.controller.Pointer(refresh.PointerDown, y, m.now())
	case msg.Action == tea.MouseActionMotion && m.mouseDown:
		m.controller.Pointer(refresh.PointerMove, y, m.now())
	case msg.Action == tea.MouseActionRelease && m.mouseDown:
		m.mouseDown = false
		m.controller.Pointer(refresh.PointerUp, y, m.now())
	default:
		return m, nil
	}
	m.paint()
	return m, m.flush()
}

// inLayout falls back to the body rows until the first scan has located the
// marked zone.
func (m *MainModel) inLayout(msg tea.MouseMsg) bool {
	z := zone.Get(views.LayoutZone)
	if z.IsZero() {
		return msg.Y >= 0 && msg.Y < m.bodyHeight()
	}
	return z.InBounds(msg)
}

func (m *MainModel) handleSnapshotMsg(msg SnapshotMsg) (tea.Model, tea.Cmd) {
	if !m.sessionOpen(msg.Session) {
		m.logger.Debug("stale snapshot dropped", "session", msg.Session, "current", m.session)
		return m, nil
	}
	m.state.LastAcquire = m.now().Sub(m.acquireStart)
	if msg.Err != nil {
		m.state.Err = msg.Err
		m.sessionErr = msg.Err.Error()
		m.staged = nil
		m.logger.Warn("acquire failed", "session", msg.Session, "err", msg.Err)
	} else {
		m.state.Err = nil
		snap := msg.Snapshot
		m.staged = &snap
	}
	m.completed = m.controller.IsRefreshing()
	m.controller.FinishRefresh()
	m.paint()
	return m, m.flush()
}

func (m *MainModel) handleJournalMsg(msg JournalMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state.JournalErr = msg.Err
		m.logger.Warn("journal", "err", msg.Err)
		return m, nil
	}
	m.state.JournalErr = nil
	m.state.Summary = msg.Summary
	m.state.Recent = msg.Recent
	if msg.ID > 0 {
		m.logger.Debug("session recorded", "id", msg.ID)
	}
	return m, nil
}

// ============================================================================
// REFRESH LISTENER
// ============================================================================

func (m *MainModel) sessionOpen(session uint64) bool {
	return session == m.session && m.loaded != m.session
}

func (m *MainModel) onAcquireData() {
	m.session++
	m.completed = false
	m.sessionErr = ""
	m.staged = nil
	m.acquireStart = m.now()
	m.logger.Info("acquiring", "session", m.session)

	if m.fetchDelay > 0 {
		m.pending = append(m.pending, fetchDueCmd(m.session, m.fetchDelay))
	} else {
		m.pending = append(m.pending, fetchSnapshotCmd(m.provider, m.session))
	}
}

func (m *MainModel) onLoadData() {
	m.loaded = m.session
	now := m.now()

	acquire := m.state.LastAcquire
	if !m.completed {
		acquire = 0
	}
	if m.staged != nil {
		m.state.Items = m.staged.Items
		m.state.Failed = m.staged.Failed
		m.state.LastRefresh = m.staged.TakenAt
	}
	if m.state.LastRefresh.IsZero() {
		m.state.LastRefresh = now
	}
	m.state.RefreshCount++
	m.reveal, m.revealVel = 0, 0
	m.rebuildLayout()
	m.logger.Info("loaded", "session", m.session, "items", len(m.state.Items), "cancelled", !m.completed)

	if m.store != nil && m.session > 0 {
		sess := journal.Session{
			StartedAt:  m.acquireStart,
			FinishedAt: now,
			Acquire:    acquire,
			Cancelled:  !m.completed,
			Error:      m.sessionErr,
		}
		if m.staged != nil {
			sess.Items = len(m.staged.Items)
			sess.Failed = len(m.staged.Failed)
		}
		m.pending = append(m.pending, recordSessionCmd(m.store, sess, m.recentLimit))
	}
	m.staged = nil
}

// ============================================================================
// LAYOUT AND PAINTING
// ============================================================================

func (m *MainModel) bodyHeight() int {
	if h := m.height - statusRows; h > 0 {
		return h
	}
	return 0
}

// rebuildLayout stacks the header, one row per item and the footer, all in px.
func (m *MainModel) rebuildLayout() {
	cfg := m.controller.Config()
	header := cfg.BaselineY + cfg.InitialPeakHeight + refresh.MinWaveHeight
	header = (header + m.cellH - 1) / m.cellH * m.cellH

	l := m.controller.Layout()
	l.Reset()
	l.Add(refresh.Child{Name: views.HeaderChildName, Role: refresh.RoleHeader, Height: header})
	for i := range m.state.Items {
		l.Add(refresh.Child{Name: views.ItemChildName(i), Height: m.cellH})
	}
	l.Add(refresh.Child{Name: views.FooterChildName, Role: refresh.RoleFooter, Height: m.cellH})
	if m.controller.Attached() {
		m.controller.Resize(m.width*m.cellW, m.bodyHeight()*m.cellH)
	}
}

func (m *MainModel) revealing() bool {
	target := float64(len(m.state.Items))
	return math.Abs(m.reveal-target) > 0.01 || math.Abs(m.revealVel) > 0.01
}

func (m *MainModel) stepReveal() {
	target := float64(len(m.state.Items))
	if !m.revealing() {
		m.reveal, m.revealVel = target, 0
		return
	}
	m.reveal, m.revealVel = m.spring.Update(m.reveal, m.revealVel, target)
}

// paint copies the controller frame into the state and rasterises the rows
// the header covers.
func (m *MainModel) paint() {
	snap := m.controller.Snapshot()
	m.state.Header = snap

	rows := 0
	if px := snap.HeaderBottom - snap.TopY; px > 0 {
		rows = min((px+m.cellH-1)/m.cellH, m.bodyHeight())
	}
	m.canvas.Resize(m.width, rows)
	if rows == 0 {
		return
	}
	scene, err := m.controller.Scene()
	if err != nil {
		m.logger.Warn("scene", "err", err)
		return
	}
	m.canvas.Paint(snap, scene, m.controller.Config())
}

// flush hands queued listener commands to the runtime and keeps the frame
// clock running while the controller or the reveal spring needs it.
func (m *MainModel) flush(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(cmds, m.pending...)
	m.pending = nil
	if !m.frameScheduled && (m.controller.NeedsFrame() || m.revealing()) && m.controller.Attached() {
		m.frameScheduled = true
		cmds = append(cmds, frameCmd(m.controller.Generation(), m.frameInterval))
	}
	return tea.Batch(cmds...)
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	props := views.ViewProps{
		Width:       m.width,
		Height:      m.height,
		CellH:       m.cellH,
		Canvas:      m.canvas,
		Layout:      m.controller.Layout(),
		Reveal:      m.reveal,
		SpinnerView: m.spinner.View(),
		ChartView:   m.offsetChart.View(),
		ScrollY:     m.journalScrollY,
	}
	switch m.state.CurrentPage {
	case state.PageJournal:
		return views.RenderJournal(m.state, props)
	default:
		return views.RenderRefresh(m.state, props)
	}
}

func Start(provider collector.SnapshotProvider, opts Options) error {
	m, err := InitialModel(provider, opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}
