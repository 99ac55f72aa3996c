package refresh

import (
	"math"
	"testing"
	"time"
)

func TestDragTrackerMove(t *testing.T) {
	t0 := time.Unix(0, 0)
	tests := []struct {
		name        string
		topY        int
		from, to    int
		wantApplied int
	}{
		{"at rest pulling down", 0, 100, 110, 10},
		{"above rest pulling down is damped", -160, 100, 110, 5},
		{"far above rest pulling down", -480, 100, 120, 5},
		{"above rest pushing up is not damped", -160, 100, 90, -10},
		{"scrolled pushing up", 50, 100, 80, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d DragTracker
			d.OnPointerEvent(PointerDown, tt.from, tt.topY, t0)
			got := d.OnPointerEvent(PointerMove, tt.to, tt.topY, t0.Add(16*time.Millisecond))
			if got.Discarded {
				t.Fatal("sample unexpectedly discarded")
			}
			if got.Applied != tt.wantApplied {
				t.Errorf("Applied = %d; want %d", got.Applied, tt.wantApplied)
			}
			if got.Raw != tt.to-tt.from {
				t.Errorf("Raw = %d; want %d", got.Raw, tt.to-tt.from)
			}
			if d.LastPointerY() != tt.to {
				t.Errorf("LastPointerY = %d; want %d", d.LastPointerY(), tt.to)
			}
		})
	}
}

func TestDragTrackerJumpGuard(t *testing.T) {
	t0 := time.Unix(0, 0)
	var d DragTracker
	d.OnPointerEvent(PointerDown, 100, 0, t0)

	got := d.OnPointerEvent(PointerMove, 400, 0, t0.Add(16*time.Millisecond))
	if !got.Discarded || got.Applied != 0 {
		t.Errorf("expected a 300px jump to be discarded, got %+v", got)
	}
	if d.LastPointerY() != 400 {
		t.Errorf("expected tracker to resync to 400, got %d", d.LastPointerY())
	}

	// The next ordinary move is measured from the resynced position.
	got = d.OnPointerEvent(PointerMove, 410, 0, t0.Add(32*time.Millisecond))
	if got.Discarded || got.Applied != 10 {
		t.Errorf("expected 10px move after resync, got %+v", got)
	}

	// Exactly at the guard is still accepted.
	got = d.OnPointerEvent(PointerMove, 570, 0, t0.Add(48*time.Millisecond))
	if got.Discarded {
		t.Error("expected a 160px move to be accepted")
	}
}

func TestDragTrackerUpHasNoDelta(t *testing.T) {
	var d DragTracker
	t0 := time.Unix(0, 0)
	d.OnPointerEvent(PointerDown, 10, 0, t0)
	for _, a := range []PointerAction{PointerUp, PointerCancel} {
		if got := d.OnPointerEvent(a, 90, 0, t0); got != (Delta{}) {
			t.Errorf("%v produced %+v", a, got)
		}
	}
}

func TestDragTrackerVelocity(t *testing.T) {
	var d DragTracker
	t0 := time.Unix(0, 0)
	d.OnPointerEvent(PointerDown, 0, 0, t0)
	if v := d.Velocity(); v != 0 {
		t.Errorf("expected zero velocity with one sample, got %v", v)
	}
	d.OnPointerEvent(PointerMove, 25, 0, t0.Add(25*time.Millisecond))
	d.OnPointerEvent(PointerMove, 50, 0, t0.Add(50*time.Millisecond))
	if v := d.Velocity(); math.Abs(v-1000) > 1e-6 {
		t.Errorf("Velocity = %v; want 1000", v)
	}

	// Old samples fall out of the window.
	d.OnPointerEvent(PointerMove, 50, 0, t0.Add(500*time.Millisecond))
	if v := d.Velocity(); v != 0 {
		t.Errorf("expected velocity to decay to 0 after a pause, got %v", v)
	}
}
