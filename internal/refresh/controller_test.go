package refresh

import (
	"errors"
	"math"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) time.Time {
	f.t = f.t.Add(d)
	return f.t
}

type recorder struct {
	acquired int
	loaded   int
	events   []string
}

func (r *recorder) OnAcquireData() {
	r.acquired++
	r.events = append(r.events, "acquire")
}

func (r *recorder) OnLoadData() {
	r.loaded++
	r.events = append(r.events, "load")
}

func sameEvents(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func newTestController(t *testing.T, cfg Config) (*Controller, *recorder, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	rec := &recorder{}
	c, err := New(cfg, WithClock(clk.Now), WithListener(rec))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Attach(400, 800)
	return c, rec, clk
}

// pull drags from pointer y=start in steps of step px until topY passes
// target, and returns the last pointer position.
func pull(t *testing.T, c *Controller, clk *fakeClock, start, step, target int) int {
	t.Helper()
	y := start
	c.Pointer(PointerDown, y, clk.Now())
	reached := func() bool {
		if step > 0 {
			return c.TopY() <= target
		}
		return c.TopY() >= target
	}
	for i := 0; !reached(); i++ {
		if i > 1000 {
			t.Fatalf("drag never reached %d, stuck at %d", target, c.TopY())
		}
		y += step
		c.Pointer(PointerMove, y, clk.Advance(frame))
	}
	return y
}

// runFrames ticks until no settle or fling is in flight.
func runFrames(t *testing.T, c *Controller, clk *fakeClock) {
	t.Helper()
	for i := 0; c.settle.Running() || c.fling.Running(); i++ {
		if i > 500 {
			t.Fatal("animation never finished")
		}
		c.Frame(c.Generation(), clk.Advance(frame))
	}
}

func startRefresh(t *testing.T, c *Controller, rec *recorder, clk *fakeClock) {
	t.Helper()
	y := pull(t, c, clk, 0, 10, -250)
	c.Pointer(PointerUp, y, clk.Now())
	if c.Phase() != PhaseSettlingToRefresh {
		t.Fatalf("phase after armed release = %v; want %v", c.Phase(), PhaseSettlingToRefresh)
	}
	runFrames(t, c, clk)
	if c.TopY() != -200 {
		t.Fatalf("topY after settle = %d; want -200", c.TopY())
	}
	if rec.acquired != 1 || !c.IsRefreshing() {
		t.Fatalf("acquired=%d refreshing=%v; want one acquire", rec.acquired, c.IsRefreshing())
	}
}

func TestPullPastThresholdRefreshes(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	startRefresh(t, c, rec, clk)

	if c.State() != StateRefreshable || c.Phase() != PhaseRefreshing {
		t.Errorf("state=%v phase=%v; want refreshable/refreshing", c.State(), c.Phase())
	}
	if rec.loaded != 0 {
		t.Errorf("load delivered before finish: %d", rec.loaded)
	}
	if !c.Snapshot().Decorated {
		t.Error("expected sun and clouds to animate while refreshing")
	}
	if !c.NeedsFrame() {
		t.Error("expected frames while refreshing")
	}
}

func TestFinishRefreshSettlesToRest(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	startRefresh(t, c, rec, clk)

	c.FinishRefresh()
	if c.Phase() != PhaseSettlingToRest {
		t.Fatalf("phase after finish = %v; want %v", c.Phase(), PhaseSettlingToRest)
	}
	if !c.Snapshot().Decorated {
		t.Error("expected decoration to continue during the spring back")
	}
	runFrames(t, c, clk)

	if c.TopY() != 0 {
		t.Errorf("topY = %d; want 0", c.TopY())
	}
	if rec.loaded != 1 {
		t.Errorf("loaded = %d; want 1", rec.loaded)
	}
	if c.IsRefreshing() || c.Phase() != PhaseIdle {
		t.Errorf("refreshing=%v phase=%v; want idle", c.IsRefreshing(), c.Phase())
	}
	if rec.acquired != 1 {
		t.Errorf("acquired = %d; want 1", rec.acquired)
	}
}

func TestFinishRefreshIsIdempotent(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())

	// Nothing running yet.
	c.FinishRefresh()
	if rec.loaded != 0 || c.Phase() != PhaseIdle {
		t.Fatalf("finish without refresh had effects: loaded=%d phase=%v", rec.loaded, c.Phase())
	}

	startRefresh(t, c, rec, clk)
	c.FinishRefresh()
	c.Frame(c.Generation(), clk.Advance(frame))
	c.FinishRefresh()
	runFrames(t, c, clk)
	c.FinishRefresh()

	if rec.loaded != 1 {
		t.Errorf("loaded = %d; want exactly 1", rec.loaded)
	}
}

func TestDragOutOfArmedZoneCancels(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	startRefresh(t, c, rec, clk)

	y := pull(t, c, clk, 500, -10, 10)
	if c.IsRefreshing() {
		t.Fatal("refresh still running after dragging out of the armed zone")
	}
	if rec.loaded != 0 {
		t.Fatalf("load delivered before release: %d", rec.loaded)
	}

	c.Pointer(PointerUp, y, clk.Now())
	runFrames(t, c, clk)

	if rec.loaded != 1 {
		t.Errorf("loaded = %d; want 1", rec.loaded)
	}
	if rec.acquired != 1 {
		t.Errorf("acquired = %d; want 1", rec.acquired)
	}
}

func TestReanchorDoesNotAcquireTwice(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	startRefresh(t, c, rec, clk)

	y := pull(t, c, clk, 500, 10, -230)
	c.Pointer(PointerUp, y, clk.Now())
	runFrames(t, c, clk)

	if c.TopY() != -200 || !c.IsRefreshing() {
		t.Errorf("topY=%d refreshing=%v; want re-anchored refresh", c.TopY(), c.IsRefreshing())
	}
	if rec.acquired != 1 {
		t.Errorf("acquired = %d; want 1", rec.acquired)
	}
}

func TestFinishWhileHeldInArmedZone(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	startRefresh(t, c, rec, clk)

	y := pull(t, c, clk, 500, 10, -204)
	if c.State() != StateRefreshable {
		t.Fatalf("state while held = %v; want refreshable", c.State())
	}
	c.FinishRefresh()
	if c.IsRefreshing() {
		t.Fatal("finish left the refresh running")
	}
	if len(rec.events) != 1 {
		t.Fatalf("events before release = %v; want only the first acquire", rec.events)
	}

	c.Pointer(PointerUp, y, clk.Now())
	if c.Phase() != PhaseSettlingToRest {
		t.Fatalf("phase after release = %v; want %v", c.Phase(), PhaseSettlingToRest)
	}
	runFrames(t, c, clk)

	if !sameEvents(rec.events, "acquire", "load") {
		t.Errorf("events = %v; want [acquire load]", rec.events)
	}
	if c.TopY() != 0 || c.IsRefreshing() || c.Snapshot().LoadPending {
		t.Errorf("topY=%d refreshing=%v pending=%v; want idle at rest",
			c.TopY(), c.IsRefreshing(), c.Snapshot().LoadPending)
	}

	// The next armed release starts a new session as usual.
	next := pull(t, c, clk, 0, 10, -250)
	c.Pointer(PointerUp, next, clk.Now())
	runFrames(t, c, clk)
	if !sameEvents(rec.events, "acquire", "load", "acquire") {
		t.Errorf("events = %v; want a second session after the load", rec.events)
	}
}

func TestRepullDuringSpringBackDeliversLoad(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	startRefresh(t, c, rec, clk)

	c.FinishRefresh()
	c.Frame(c.Generation(), clk.Advance(frame))
	if c.Phase() != PhaseSettlingToRest {
		t.Fatalf("phase after finish = %v; want %v", c.Phase(), PhaseSettlingToRest)
	}

	// Catch the header mid-flight and pull it back into the armed zone.
	y := pull(t, c, clk, 500, 10, -210)
	if c.State() != StateRefreshable {
		t.Fatalf("state = %v; want refreshable", c.State())
	}
	c.Pointer(PointerUp, y, clk.Now())
	runFrames(t, c, clk)

	if !sameEvents(rec.events, "acquire", "load") {
		t.Errorf("events = %v; want [acquire load]", rec.events)
	}
	if c.TopY() != 0 || c.Phase() != PhaseIdle {
		t.Errorf("topY=%d phase=%v; want idle at rest", c.TopY(), c.Phase())
	}
}

func TestShallowReleaseReturnsToRest(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	y := pull(t, c, clk, 0, 10, -100)
	if c.State() != StateShowSun {
		t.Fatalf("state = %v; want %v", c.State(), StateShowSun)
	}
	c.Pointer(PointerUp, y, clk.Now())
	if c.Phase() != PhaseSettlingToRest {
		t.Fatalf("phase = %v; want %v", c.Phase(), PhaseSettlingToRest)
	}
	runFrames(t, c, clk)

	if c.TopY() != 0 {
		t.Errorf("topY = %d; want 0", c.TopY())
	}
	if rec.acquired != 0 || rec.loaded != 0 {
		t.Errorf("acquired=%d loaded=%d; want no callbacks", rec.acquired, rec.loaded)
	}
}

func TestDisabledRefreshOnlySettles(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig().WithRefreshable(false))
	y := pull(t, c, clk, 0, 10, -250)
	c.Pointer(PointerUp, y, clk.Now())
	if c.Phase() != PhaseSettlingToRest {
		t.Fatalf("phase = %v; want %v", c.Phase(), PhaseSettlingToRest)
	}
	runFrames(t, c, clk)

	if c.TopY() != 0 || rec.acquired != 0 || rec.loaded != 0 {
		t.Errorf("topY=%d acquired=%d loaded=%d; want a plain settle", c.TopY(), rec.acquired, rec.loaded)
	}
}

func TestDisableRefreshableMidRefreshFinishes(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	startRefresh(t, c, rec, clk)

	c.SetRefreshable(false)
	runFrames(t, c, clk)

	if c.IsRefreshing() || c.TopY() != 0 {
		t.Errorf("refreshing=%v topY=%d; want finished at rest", c.IsRefreshing(), c.TopY())
	}
	if rec.loaded != 1 {
		t.Errorf("loaded = %d; want 1", rec.loaded)
	}
}

func TestPointerDownInterruptsSettle(t *testing.T) {
	c, _, clk := newTestController(t, DefaultConfig())
	y := pull(t, c, clk, 0, 10, -100)
	c.Pointer(PointerUp, y, clk.Now())
	c.Frame(c.Generation(), clk.Advance(frame))
	before := c.TopY()

	c.Pointer(PointerDown, y, clk.Now())
	if c.settle.Running() || c.Phase() != PhaseDragging {
		t.Fatalf("settle running=%v phase=%v; want dragging", c.settle.Running(), c.Phase())
	}
	c.Frame(c.Generation(), clk.Advance(frame))
	if c.TopY() != before {
		t.Errorf("topY moved from %d to %d without a settle", before, c.TopY())
	}
}

func TestJumpGuardIgnoresGlitch(t *testing.T) {
	c, _, clk := newTestController(t, DefaultConfig())
	c.Pointer(PointerDown, 100, clk.Now())
	c.Pointer(PointerMove, 400, clk.Advance(frame))

	snap := c.Snapshot()
	if snap.TopY != 0 {
		t.Errorf("topY = %d; want 0 after a 300px jump", snap.TopY)
	}
	if snap.LastPointerY != 400 {
		t.Errorf("LastPointerY = %d; want 400", snap.LastPointerY)
	}
}

func TestFramesAfterDetachAreDropped(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	y := pull(t, c, clk, 0, 10, -250)
	c.Pointer(PointerUp, y, clk.Now())
	stale := c.Generation()

	c.Detach()
	if c.NeedsFrame() {
		t.Error("detached controller asked for frames")
	}
	if c.Frame(stale, clk.Advance(time.Second)) {
		t.Error("frame accepted while detached")
	}

	c.Attach(400, 800)
	if c.Frame(stale, clk.Advance(frame)) {
		t.Error("stale frame accepted after re-attach")
	}
	if !c.Frame(c.Generation(), clk.Advance(frame)) {
		t.Error("current frame rejected")
	}
	if rec.acquired != 0 {
		t.Errorf("acquired = %d; want 0 after detach", rec.acquired)
	}
	if c.TopY() != 0 || c.Phase() != PhaseIdle {
		t.Errorf("topY=%d phase=%v; want reset", c.TopY(), c.Phase())
	}
}

func TestOffsetInRangeBeforeFirstFrame(t *testing.T) {
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if off := c.HorizontalOffset(); off != -400 {
		t.Errorf("offset after New = %v; want -400", off)
	}
	c.Attach(400, 800)
	c.Frame(c.Generation(), time.Unix(1, 0))
	c.Detach()
	if off := c.HorizontalOffset(); off != -400 {
		t.Errorf("offset after Detach = %v; want -400", off)
	}
}

func TestPointerIgnoredWhileDetached(t *testing.T) {
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	c.Pointer(PointerDown, 0, now)
	c.Pointer(PointerMove, 50, now)
	if c.TopY() != 0 {
		t.Errorf("topY = %d; want 0", c.TopY())
	}
}

func TestFrameAdvancesTicker(t *testing.T) {
	c, rec, clk := newTestController(t, DefaultConfig())
	if !c.NeedsFrame() {
		t.Fatal("wave at rest should animate")
	}
	for i := 0; i < 1000; i++ {
		c.Frame(c.Generation(), clk.Advance(frame))
		off := c.HorizontalOffset()
		if off < -400 || off >= 0 {
			t.Fatalf("offset %v out of range", off)
		}
	}

	startRefresh(t, c, rec, clk)
	before := c.Snapshot()
	c.Frame(c.Generation(), clk.Advance(frame))
	after := c.Snapshot()
	if after.CloudX != before.CloudX+2 {
		t.Errorf("CloudX = %d; want %d", after.CloudX, before.CloudX+2)
	}
	if rot := math.Mod(after.SunRotation-before.SunRotation+360, 360); math.Abs(rot-5) > 1e-9 {
		t.Errorf("sun turned %v degrees; want 5", rot)
	}
}

func TestSunFollowsDragWhenIdle(t *testing.T) {
	c, _, clk := newTestController(t, DefaultConfig())
	pull(t, c, clk, 0, 10, -90)
	want := float64(c.TopY()) / 3
	if got := c.Snapshot().SunRotation; got != want {
		t.Errorf("SunRotation = %v; want %v", got, want)
	}
}

func TestPeakGrowth(t *testing.T) {
	c, _, clk := newTestController(t, DefaultConfig())
	pull(t, c, clk, 0, 10, -160)
	want := 16 - float64(c.TopY())/16
	if c.PeakHeight() != want {
		t.Errorf("linear peak = %v; want %v", c.PeakHeight(), want)
	}

	c2, _, clk2 := newTestController(t, DefaultConfig().WithPeakGrowth(PeakGrowthIncremental, 0.5))
	c2.Pointer(PointerDown, 0, clk2.Now())
	c2.Pointer(PointerMove, 10, clk2.Advance(frame))
	c2.Pointer(PointerMove, 20, clk2.Advance(frame))
	// Raw pointer travel drives the peak: 16 + 20*0.5.
	if c2.PeakHeight() != 26 {
		t.Errorf("incremental peak = %v; want 26", c2.PeakHeight())
	}
}

func TestSceneUsesViewWidth(t *testing.T) {
	c, _, _ := newTestController(t, DefaultConfig())
	scene, err := c.Scene()
	if err != nil {
		t.Fatalf("Scene: %v", err)
	}
	for _, p := range []struct {
		name string
		ok   bool
	}{
		{"background", scene.Background.Closed()},
		{"dark", scene.Dark.Closed()},
		{"light", scene.Light.Closed()},
	} {
		if !p.ok {
			t.Errorf("%s contour not closed", p.name)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(DefaultConfig().WithWaveWidth(0))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "WaveWidth" {
		t.Errorf("New error = %v; want WaveWidth ConfigError", err)
	}
}
