package components

import (
	"strings"
	"testing"
)

func TestHistoryWidgetPush(t *testing.T) {
	h := NewHistoryWidget("Offset", 30, 8, 4, -300, 100)
	if _, ok := h.Last(); ok {
		t.Fatal("Last on an empty history reported a value")
	}

	for _, v := range []float64{-10, -500, 50, 400, 0} {
		h.Push(v)
	}
	want := []float64{-300, 50, 100, 0}
	if len(h.History) != len(want) {
		t.Fatalf("len(History) = %d; want %d", len(h.History), len(want))
	}
	for i, v := range want {
		if h.History[i] != v {
			t.Errorf("History[%d] = %v; want %v", i, h.History[i], v)
		}
	}
	if last, _ := h.Last(); last != 0 {
		t.Errorf("Last = %v; want 0", last)
	}
}

func TestHistoryWidgetView(t *testing.T) {
	h := NewHistoryWidget("Offset", 30, 8, 10, -300, 100)
	h.Push(0)
	h.Push(-120)
	h.Push(-200)
	if !strings.Contains(h.View(), "Offset") {
		t.Error("View does not show the title")
	}
}
