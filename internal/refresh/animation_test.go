package refresh

import (
	"math"
	"testing"
	"time"
)

func TestWrapOffset(t *testing.T) {
	tests := []struct {
		v    float64
		w    int
		want float64
	}{
		{0, 200, -400},
		{-1, 200, -1},
		{-399, 200, -399},
		{-400, 200, -400},
		{-401, 200, -1},
		{1, 200, -399},
		{-1000, 200, -200},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := WrapOffset(tt.v, tt.w); got != tt.want {
			t.Errorf("WrapOffset(%v, %d) = %v; want %v", tt.v, tt.w, got, tt.want)
		}
	}
}

func TestPhaseTickerStaysInRange(t *testing.T) {
	var pt PhaseTicker
	for i := 0; i < 5000; i++ {
		pt.Advance(200)
		if pt.Offset < -400 || pt.Offset >= 0 {
			t.Fatalf("offset %v out of range after %d advances", pt.Offset, i+1)
		}
	}
}

func TestPhaseTickerReset(t *testing.T) {
	pt := PhaseTicker{Offset: -17, SunRotation: 90, CloudX: 40}
	pt.Reset(200)
	if pt != (PhaseTicker{Offset: -400}) {
		t.Errorf("after Reset(200) = %+v; want offset -400 and nothing else", pt)
	}
	pt.Advance(200)
	if pt.Offset != -1 {
		t.Errorf("first advance = %v; want -1", pt.Offset)
	}
}

func TestPhaseTickerSpin(t *testing.T) {
	var pt PhaseTicker
	pt.SunRotation = 355
	pt.CloudX = 80
	pt.Spin(60, 30)
	if pt.SunRotation != 0 {
		t.Errorf("SunRotation = %v; want 0", pt.SunRotation)
	}
	if pt.CloudX != 82 {
		t.Errorf("CloudX = %d; want 82", pt.CloudX)
	}
	pt.CloudX = 89
	pt.Spin(60, 30)
	if pt.CloudX != 1 {
		t.Errorf("CloudX = %d; want wrap to 1", pt.CloudX)
	}
}

func TestSettleProgress(t *testing.T) {
	t0 := time.Unix(100, 0)
	var s Settle
	s.Start(t0, 200*time.Millisecond)
	if !s.Running() {
		t.Fatal("settle not running after Start")
	}

	tests := []struct {
		at       time.Duration
		want     float64
		wantDone bool
	}{
		{0, 1, false},
		{100 * time.Millisecond, 0.25, false},
		{200 * time.Millisecond, 0, true},
		{time.Second, 0, true},
	}
	for _, tt := range tests {
		p, done := s.Progress(t0.Add(tt.at))
		if math.Abs(p-tt.want) > 1e-9 || done != tt.wantDone {
			t.Errorf("Progress(+%v) = (%v, %v); want (%v, %v)", tt.at, p, done, tt.want, tt.wantDone)
		}
	}

	var instant Settle
	instant.Start(t0, 0)
	if p, done := instant.Progress(t0); p != 0 || !done {
		t.Errorf("zero duration settle = (%v, %v); want (0, true)", p, done)
	}
}

func TestSettleY(t *testing.T) {
	tests := []struct {
		name     string
		origin   int
		toAnchor bool
		p        float64
		want     int
	}{
		{"anchor start", -250, true, 1, -250},
		{"anchor end", -250, true, 0, -200},
		{"anchor middle", -300, true, 0.5, -250},
		{"rest start", -200, false, 1, -200},
		{"rest middle", -200, false, 0.5, -100},
		{"rest end", -200, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SettleY(tt.origin, 200, tt.toAnchor, tt.p); got != tt.want {
				t.Errorf("SettleY = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestDecelerate(t *testing.T) {
	prev := Decelerate(0)
	if prev != 0 || Decelerate(1) != 1 {
		t.Fatalf("Decelerate endpoints wrong: %v, %v", prev, Decelerate(1))
	}
	for i := 1; i <= 100; i++ {
		v := Decelerate(float64(i) / 100)
		if v < prev {
			t.Fatalf("Decelerate not monotonic at %d", i)
		}
		prev = v
	}
}

func TestFlingCoastsToStop(t *testing.T) {
	var f Fling
	if !f.Start(0, 1000, 0, 10000, 60) {
		t.Fatal("fling did not start")
	}
	var y int
	done := false
	for i := 0; i < 200 && !done; i++ {
		y, done = f.Step()
	}
	if !done || f.Running() {
		t.Fatal("fling never stopped")
	}
	if y <= 0 || y >= 200 {
		t.Errorf("fling stopped at %d; want a short coast", y)
	}
}

func TestFlingClampsToBounds(t *testing.T) {
	var f Fling
	if !f.Start(0, -1000, 0, 100, 60) {
		t.Fatal("fling did not start")
	}
	y, done := f.Step()
	if y != 0 || !done {
		t.Errorf("Step = (%d, %v); want (0, true)", y, done)
	}

	if !f.Start(95, 3000, 0, 100, 60) {
		t.Fatal("fling did not start")
	}
	for i := 0; i < 100; i++ {
		y, done = f.Step()
		if done {
			break
		}
	}
	if y != 100 {
		t.Errorf("fling ended at %d; want clamp to 100", y)
	}
}

func TestFlingIgnoresSlowRelease(t *testing.T) {
	var f Fling
	if f.Start(0, 10, 0, 100, 60) {
		t.Error("slow release started a fling")
	}
	if f.Start(0, 1000, 10, 0, 60) {
		t.Error("fling started with inverted bounds")
	}
}
