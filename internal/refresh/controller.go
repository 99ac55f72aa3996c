// Package refresh implements the pull-to-refresh header: the drag tracker,
// the state machine derived from the drag offset, the ambient and settle
// animations, and the two-phase refresh protocol.
//
// A Controller is not safe for concurrent use. The host calls Pointer,
// Frame and FinishRefresh from one control loop, and listener callbacks run
// on that same loop.
package refresh

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"waverefresh/internal/wave"
)

// Listener receives the refresh protocol callbacks. After OnAcquireData the
// listener must eventually call FinishRefresh; OnLoadData means the header is
// back at rest and new content may be swapped in.
type Listener interface {
	OnAcquireData()
	OnLoadData()
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are no-ops.
type ListenerFuncs struct {
	AcquireData func()
	LoadData    func()
}

func (l ListenerFuncs) OnAcquireData() {
	if l.AcquireData != nil {
		l.AcquireData()
	}
}

func (l ListenerFuncs) OnLoadData() {
	if l.LoadData != nil {
		l.LoadData()
	}
}

// Phase is the lifecycle position of the controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseSettlingToRefresh
	PhaseSettlingToRest
	PhaseRefreshing
	PhaseFlinging
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseSettlingToRefresh:
		return "settling-to-refresh"
	case PhaseSettlingToRest:
		return "settling-to-rest"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseFlinging:
		return "flinging"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Snapshot is a read-only view of the controller for renderers.
type Snapshot struct {
	TopY             int
	PeakHeight       float64
	State            State
	Phase            Phase
	HorizontalOffset float64
	SunRotation      float64
	CloudX           int
	Refreshing       bool
	Decorated        bool // sun spinning and clouds drifting
	LoadPending      bool
	HeaderBottom     int
	ViewWidth        int
	ViewHeight       int
	LastPointerY     int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now for FinishRefresh-started settles.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithListener sets the refresh listener at construction.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listener = l
	}
}

// Controller drives the header from pointer input and frame ticks.
type Controller struct {
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	listener Listener
	layout   *Container

	drag   DragTracker
	ticker PhaseTicker
	settle Settle
	fling  Fling

	topY  int
	peak  float64
	state State
	phase Phase

	viewWidth  int
	viewHeight int
	attached   bool
	generation uint64
	dragging   bool

	// refresh session
	isRefreshing        bool
	willRefreshOnSettle bool
	loadPending         bool
	settleOriginY       int
}

// New creates a detached controller.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("refresh config: %w", err)
	}
	c := &Controller{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		state:  StateNormal,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.layout = NewContainer(c.logger)
	c.ticker.Reset(cfg.WaveWidth)
	c.updateDrawParams()
	return c, nil
}

// Layout exposes the child container.
func (c *Controller) Layout() *Container {
	return c.layout
}

// SetListener replaces the refresh listener. A nil listener drops the
// callbacks.
func (c *Controller) SetListener(l Listener) {
	c.listener = l
}

// ============================================================================
// LIFECYCLE
// ============================================================================

// Attach starts both clocks for a view of the given size and invalidates any
// frame handle issued before.
func (c *Controller) Attach(width, height int) {
	c.attached = true
	c.generation++
	c.viewWidth, c.viewHeight = width, height
	c.updateDrawParams()
	c.updateState()
	c.logger.Debug("attached", "width", width, "height", height, "generation", c.generation)
}

// Detach stops both clocks and resets the drag and wave state. Frames issued
// before Detach are ignored.
func (c *Controller) Detach() {
	c.attached = false
	c.generation++
	c.settle.Cancel()
	c.fling.Stop()
	c.drag.Reset()
	c.ticker.Reset(c.cfg.WaveWidth)
	c.dragging = false
	c.topY = 0
	c.isRefreshing = false
	c.willRefreshOnSettle = false
	c.loadPending = false
	c.settleOriginY = 0
	c.phase = PhaseIdle
	c.updateDrawParams()
	c.updateState()
	c.logger.Debug("detached", "generation", c.generation)
}

// Resize updates the view size.
func (c *Controller) Resize(width, height int) {
	c.viewWidth, c.viewHeight = width, height
	c.updateState()
}

func (c *Controller) Attached() bool { return c.attached }

// Generation identifies the current frame schedule. Hosts stamp frame
// requests with it and pass it back to Frame.
func (c *Controller) Generation() uint64 { return c.generation }

// NeedsFrame reports whether either clock wants another tick.
func (c *Controller) NeedsFrame() bool {
	if !c.attached {
		return false
	}
	return c.state > StateWaveHidden || c.settle.Running() || c.fling.Running()
}

// ============================================================================
// INPUT
// ============================================================================

// Pointer feeds one pointer event. y is in px.
func (c *Controller) Pointer(action PointerAction, y int, now time.Time) {
	if !c.attached {
		return
	}
	switch action {
	case PointerDown:
		if c.settle.Running() || c.fling.Running() {
			c.logger.Debug("motion interrupted by drag", "phase", c.phase.String(), "topY", c.topY)
		}
		c.settle.Cancel()
		c.fling.Stop()
		c.drag.OnPointerEvent(PointerDown, y, c.topY, now)
		c.dragging = true
		c.phase = PhaseDragging

	case PointerMove:
		if !c.dragging {
			return
		}
		d := c.drag.OnPointerEvent(PointerMove, y, c.topY, now)
		if d.Discarded {
			c.logger.Debug("pointer jump discarded", "dy", d.Raw)
			break
		}
		c.topY -= d.Applied
		if c.cfg.PeakGrowth == PeakGrowthIncremental {
			c.peak += float64(d.Raw) * c.cfg.PeakVelocity
			c.syncSun()
		} else {
			c.updateDrawParams()
		}

	case PointerUp, PointerCancel:
		if !c.dragging {
			return
		}
		c.dragging = false
		c.release(now)
	}
	c.updateState()
}

func (c *Controller) release(now time.Time) {
	if c.state > StateNormal {
		c.settleOriginY = c.topY
		// A finished session still owes its load; it must settle to rest
		// before the next acquire.
		c.willRefreshOnSettle = c.state == StateRefreshable && c.cfg.Refreshable && !c.loadPending
		c.startSettle(now)
		return
	}
	c.phase = PhaseIdle
	if c.loadPending {
		// Already at or above rest; nothing left to settle.
		c.deliverLoad()
	}
	scrollBottom := c.scrollBottom()
	if c.fling.Start(c.topY, -c.drag.Velocity(), 0, scrollBottom, c.fps()) {
		c.phase = PhaseFlinging
		c.logger.Debug("fling", "from", c.topY, "velocity", -c.drag.Velocity(), "limit", scrollBottom)
	}
}

func (c *Controller) startSettle(now time.Time) {
	c.fling.Stop()
	c.settle.Start(now, c.cfg.RestoreDuration)
	if c.willRefreshOnSettle {
		c.phase = PhaseSettlingToRefresh
	} else {
		c.phase = PhaseSettlingToRest
	}
	c.logger.Debug("settle started",
		"from", c.settleOriginY,
		"toRefresh", c.willRefreshOnSettle,
		"duration", c.cfg.RestoreDuration)
}

// ============================================================================
// FRAMES
// ============================================================================

// Frame advances both clocks by one tick. Frames stamped with an old
// generation, or arriving while detached, are dropped and report false.
func (c *Controller) Frame(generation uint64, now time.Time) bool {
	if !c.attached || generation != c.generation {
		return false
	}
	if c.state > StateWaveHidden {
		c.ticker.Advance(c.cfg.WaveWidth)
		if c.refreshActive() {
			c.ticker.Spin(c.viewWidth, c.cfg.CloudWidth)
		}
	}

	switch {
	case c.settle.Running():
		p, done := c.settle.Progress(now)
		c.topY = SettleY(c.settleOriginY, c.cfg.MinRefreshHeight, c.willRefreshOnSettle, p)
		c.updateDrawParams()
		c.updateState()
		if done {
			c.settle.Cancel()
			c.completeSettle()
		}
	case c.fling.Running():
		y, _ := c.fling.Step()
		c.topY = y
		c.updateDrawParams()
		c.updateState()
		if !c.fling.Running() && c.phase == PhaseFlinging {
			c.phase = PhaseIdle
		}
	}
	return true
}

func (c *Controller) completeSettle() {
	if c.willRefreshOnSettle {
		c.phase = PhaseRefreshing
		if c.isRefreshing {
			// Re-anchored after a drag inside the armed zone.
			return
		}
		c.isRefreshing = true
		c.logger.Debug("acquire data", "topY", c.topY)
		if c.listener != nil {
			c.listener.OnAcquireData()
		}
		return
	}
	c.phase = PhaseIdle
	c.isRefreshing = false
	c.willRefreshOnSettle = false
	if c.loadPending {
		c.deliverLoad()
	}
}

func (c *Controller) deliverLoad() {
	c.loadPending = false
	c.logger.Debug("load data")
	if c.listener != nil {
		c.listener.OnLoadData()
	}
}

// ============================================================================
// REFRESH PROTOCOL
// ============================================================================

// FinishRefresh ends the running refresh and springs the header back to
// rest. It is a no-op unless refreshing is enabled and a refresh is running.
func (c *Controller) FinishRefresh() {
	c.finishRefresh(false)
}

// finishRefresh with cancel set skips the settle; the user has already
// dragged out of the armed zone.
func (c *Controller) finishRefresh(cancel bool) {
	if !c.cfg.Refreshable || !c.isRefreshing {
		return
	}
	c.ticker.CloudX = 0
	c.willRefreshOnSettle = false
	c.settleOriginY = -c.cfg.MinRefreshHeight
	c.isRefreshing = false
	c.loadPending = true
	c.logger.Debug("refresh finished", "cancel", cancel, "state", c.state.String())
	if c.state == StateRefreshable && !cancel && !c.dragging {
		c.startSettle(c.now())
	} else if !c.dragging && !c.settle.Running() {
		c.phase = PhaseIdle
	}
}

// ============================================================================
// DERIVED STATE
// ============================================================================

func (c *Controller) updateDrawParams() {
	c.peak = float64(c.cfg.InitialPeakHeight) - float64(c.topY)*c.cfg.PeakVelocity
	c.syncSun()
}

// refreshActive covers the refresh itself and the spring back that follows it.
func (c *Controller) refreshActive() bool {
	if !c.cfg.Refreshable {
		return false
	}
	return c.isRefreshing || (c.loadPending && c.phase == PhaseSettlingToRest)
}

func (c *Controller) syncSun() {
	if !c.refreshActive() {
		c.ticker.SunRotation = float64(c.topY) / 3
	}
}

func (c *Controller) updateState() {
	c.state = Resolve(c.topY, c.peak, c.thresholds())
	if c.isRefreshing && c.state != StateRefreshable {
		c.logger.Debug("refresh cancelled by drag", "topY", c.topY, "state", c.state.String())
		c.finishRefresh(true)
	}
}

func (c *Controller) headerBottom() int {
	return c.layout.HeaderBottom(c.cfg.BaselineY + c.cfg.InitialPeakHeight + MinWaveHeight)
}

func (c *Controller) thresholds() Thresholds {
	return Thresholds{
		MinRefreshHeight: c.cfg.MinRefreshHeight,
		BaselineY:        c.cfg.BaselineY,
		HeaderBottom:     c.headerBottom(),
		SunRadius:        c.cfg.SunRadius,
		SunshineLength:   c.cfg.SunshineLength,
		SunCenterOffset:  c.cfg.SunCenterOffset,
	}
}

func (c *Controller) scrollBottom() int {
	if c.cfg.ScrollBottom > 0 {
		return c.cfg.ScrollBottom
	}
	return c.layout.ScrollBottom(c.viewHeight)
}

func (c *Controller) fps() int {
	if c.cfg.FrameInterval <= 0 {
		return 60
	}
	return int(time.Second / c.cfg.FrameInterval)
}

// ============================================================================
// OBSERVERS
// ============================================================================

func (c *Controller) TopY() int { return c.topY }

func (c *Controller) PeakHeight() float64 { return c.peak }

func (c *Controller) State() State { return c.state }

func (c *Controller) Phase() Phase { return c.phase }

func (c *Controller) IsRefreshing() bool { return c.isRefreshing }

func (c *Controller) HorizontalOffset() float64 { return c.ticker.Offset }

// Snapshot copies everything a renderer needs for one frame.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		TopY:             c.topY,
		PeakHeight:       c.peak,
		State:            c.state,
		Phase:            c.phase,
		HorizontalOffset: c.ticker.Offset,
		SunRotation:      c.ticker.SunRotation,
		CloudX:           c.ticker.CloudX,
		Refreshing:       c.isRefreshing,
		Decorated:        c.refreshActive(),
		LoadPending:      c.loadPending,
		HeaderBottom:     c.headerBottom(),
		ViewWidth:        c.viewWidth,
		ViewHeight:       c.viewHeight,
		LastPointerY:     c.drag.LastPointerY(),
	}
}

// Scene builds the wave contours for the current frame.
func (c *Controller) Scene() (wave.Scene, error) {
	return wave.BuildScene(wave.Params{
		PeakHeight:   c.peak,
		WaveWidth:    c.cfg.WaveWidth,
		BaselineY:    c.cfg.BaselineY,
		SpanWidth:    c.viewWidth,
		TopY:         c.topY,
		HeaderBottom: c.headerBottom(),
	})
}
