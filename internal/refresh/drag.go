package refresh

import (
	"time"
)

// PointerAction is the kind of a single-pointer input event.
type PointerAction int

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (a PointerAction) String() string {
	switch a {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

// Delta is the outcome of one pointer event.
type Delta struct {
	Applied   int  // px to subtract from topY
	Raw       int  // pointer movement before damping
	Discarded bool // dropped by the jump guard
}

type pointerSample struct {
	at time.Time
	y  int
}

const velocityWindow = 100 * time.Millisecond

// DragTracker turns pointer positions into vertical offset deltas.
type DragTracker struct {
	lastPointerY int
	samples      []pointerSample
}

// LastPointerY is the most recent pointer position seen.
func (d *DragTracker) LastPointerY() int {
	return d.lastPointerY
}

// OnPointerEvent consumes one event. topY is the offset before the event and
// drives the rubber band: pulling further past rest costs more pointer travel.
func (d *DragTracker) OnPointerEvent(action PointerAction, y, topY int, now time.Time) Delta {
	switch action {
	case PointerDown:
		d.lastPointerY = y
		d.samples = d.samples[:0]
		d.record(now, y)
		return Delta{}

	case PointerMove:
		dy := y - d.lastPointerY
		d.lastPointerY = y
		if dy > JumpGuard || dy < -JumpGuard {
			// Multi-touch glitch; resync without moving.
			d.samples = d.samples[:0]
			d.record(now, y)
			return Delta{Raw: dy, Discarded: true}
		}
		d.record(now, y)
		applied := dy
		if topY < 0 && dy > 0 {
			applied = int(float64(dy) / (float64(-topY)/DampingDistance + 1))
		}
		return Delta{Applied: applied, Raw: dy}
	}
	return Delta{}
}

func (d *DragTracker) record(now time.Time, y int) {
	d.samples = append(d.samples, pointerSample{at: now, y: y})
	cutoff := now.Add(-velocityWindow)
	i := 0
	for i < len(d.samples)-1 && d.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		d.samples = append(d.samples[:0], d.samples[i:]...)
	}
}

// Velocity is the pointer speed in px/s over the recent window; positive
// means moving down.
func (d *DragTracker) Velocity() float64 {
	if len(d.samples) < 2 {
		return 0
	}
	first, last := d.samples[0], d.samples[len(d.samples)-1]
	dt := last.at.Sub(first.at).Seconds()
	if dt <= 0 {
		return 0
	}
	return float64(last.y-first.y) / dt
}

// Reset forgets the pointer history.
func (d *DragTracker) Reset() {
	d.lastPointerY = 0
	d.samples = d.samples[:0]
}
