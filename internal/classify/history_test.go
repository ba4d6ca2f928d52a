package classify

import "testing"

func pushAll(h *History, labels ...string) string {
	var out string
	for _, l := range labels {
		out = h.Push(l)
	}
	return out
}

func TestHistoryMajorityWins(t *testing.T) {
	h := NewHistory(6)
	// Four of six entries agree: strict majority of the window.
	got := pushAll(h, "Open_Palm", "Open_Palm", "Open_Palm", "Open_Palm", "Closed_Fist", "Closed_Fist")
	if got != "Open_Palm" {
		t.Errorf("smoothed label = %q, want Open_Palm", got)
	}
}

func TestHistoryNoMajorityUsesRecentRaw(t *testing.T) {
	h := NewHistory(6)
	// Three-way tie: nothing reaches four, the raw label stands.
	got := pushAll(h, "Open_Palm", "Closed_Fist", "Victory", "Open_Palm", "Closed_Fist", "Victory")
	if got != "Victory" {
		t.Errorf("smoothed label = %q, want most recent raw Victory", got)
	}
}

func TestHistoryPassThroughBelowThreeEntries(t *testing.T) {
	h := NewHistory(6)
	if got := h.Push("Victory"); got != "Victory" {
		t.Errorf("first push = %q, want Victory", got)
	}
	if got := h.Push("Open_Palm"); got != "Open_Palm" {
		t.Errorf("second push = %q, want Open_Palm", got)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	pushAll(h, "A", "A", "A")
	// Window is now full of A; pushing B three times flips the majority
	// once the As are evicted.
	pushAll(h, "B", "B")
	if got := h.Push("B"); got != "B" {
		t.Errorf("smoothed label after eviction = %q, want B", got)
	}
	if h.Len() != 3 {
		t.Errorf("history length = %d, want capacity 3", h.Len())
	}
}
