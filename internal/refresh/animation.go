package refresh

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	sunSpinStep   = 5.0 // degrees per tick while refreshing
	cloudDriftPx  = 2
	flingDecel    = 4000.0 // px/s^2
	minFlingSpeed = 50.0   // px/s
)

// ============================================================================
// HORIZONTAL TICKER
// ============================================================================

// PhaseTicker holds the ambient animation values advanced once per frame.
type PhaseTicker struct {
	Offset      float64 // horizontal wave offset, in [-2w, 0)
	SunRotation float64 // degrees
	CloudX      int
}

// WrapOffset folds v into [-2*waveWidth, 0).
func WrapOffset(v float64, waveWidth int) float64 {
	period := 2 * float64(waveWidth)
	if period <= 0 {
		return 0
	}
	v = math.Mod(v, period)
	if v >= 0 {
		v -= period
	}
	return v
}

// Advance scrolls the waves one px to the left.
func (t *PhaseTicker) Advance(waveWidth int) {
	t.Offset = WrapOffset(t.Offset-1, waveWidth)
}

// Spin turns the sun and drifts the clouds; used while a refresh runs.
func (t *PhaseTicker) Spin(viewWidth, cloudWidth int) {
	t.SunRotation = math.Mod(t.SunRotation+sunSpinStep, 360)
	t.CloudX += cloudDriftPx
	if distance := viewWidth + cloudWidth; distance > 0 {
		t.CloudX %= distance
	}
}

// Reset rewinds every value and parks the offset at -2*waveWidth, the start
// of its range.
func (t *PhaseTicker) Reset(waveWidth int) {
	*t = PhaseTicker{Offset: WrapOffset(0, waveWidth)}
}

// ============================================================================
// SETTLE
// ============================================================================

// Settle is the finite spring-back animation. Its progress runs from 1 down to
// 0 with a decelerating curve.
type Settle struct {
	duration time.Duration
	start    time.Time
	running  bool
}

// Decelerate eases t in [0,1] so that motion slows towards the end.
func Decelerate(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func (s *Settle) Start(now time.Time, duration time.Duration) {
	s.start = now
	s.duration = duration
	s.running = true
}

func (s *Settle) Running() bool { return s.running }

func (s *Settle) Cancel() { s.running = false }

// Progress returns the eased progress for now and whether the animation has
// reached its end.
func (s *Settle) Progress(now time.Time) (float64, bool) {
	if s.duration <= 0 {
		return 0, true
	}
	t := float64(now.Sub(s.start)) / float64(s.duration)
	if t >= 1 {
		return 0, true
	}
	if t < 0 {
		t = 0
	}
	return 1 - Decelerate(t), false
}

// SettleY interpolates the offset at progress p. Towards the refresh anchor
// the offset lands on -minRefresh; otherwise on rest (0).
func SettleY(origin, minRefresh int, toAnchor bool, p float64) int {
	if toAnchor {
		return int(float64(origin+minRefresh)*p) - minRefresh
	}
	return int(float64(origin) * p)
}

// ============================================================================
// FLING
// ============================================================================

// Fling coasts the offset after a shallow release, decelerating until it
// stops or hits the scroll bounds.
type Fling struct {
	projectile *harmonica.Projectile
	direction  float64
	min, max   float64
	running    bool
}

// Start launches a fling from y with velocity px/s. Slow releases are ignored.
func (f *Fling) Start(y int, velocity float64, minY, maxY int, fps int) bool {
	f.running = false
	if math.Abs(velocity) < minFlingSpeed || maxY < minY {
		return false
	}
	f.direction = math.Copysign(1, velocity)
	f.min, f.max = float64(minY), float64(maxY)
	f.projectile = harmonica.NewProjectile(
		harmonica.FPS(fps),
		harmonica.Point{Y: float64(y)},
		harmonica.Vector{Y: velocity},
		harmonica.Vector{Y: -f.direction * flingDecel},
	)
	f.running = true
	return true
}

func (f *Fling) Running() bool { return f.running }

func (f *Fling) Stop() { f.running = false }

// Step advances one frame and returns the new offset.
func (f *Fling) Step() (int, bool) {
	if !f.running {
		return 0, true
	}
	pos := f.projectile.Update()
	vel := f.projectile.Velocity()
	y := pos.Y
	done := false
	if y <= f.min {
		y, done = f.min, true
	} else if y >= f.max {
		y, done = f.max, true
	}
	if math.Copysign(1, vel.Y) != f.direction || vel.Y == 0 {
		done = true
	}
	if done {
		f.running = false
	}
	return int(math.Round(y)), done
}
