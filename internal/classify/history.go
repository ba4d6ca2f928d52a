package classify

// minVoteEntries is the fill level below which smoothing passes labels
// through unchanged.
const minVoteEntries = 3

// History is a fixed-capacity ring of recent static-gesture labels for one
// tracked region slot, used for majority-vote smoothing.
type History struct {
	labels   []string
	capacity int
}

// NewHistory creates a History with the given capacity.
func NewHistory(capacity int) *History {
	return &History{capacity: capacity}
}

// Push appends a raw label, evicting the oldest entry at capacity, and
// returns the smoothed label: once the buffer holds at least three
// entries, the most frequent label wins if its count reaches a strict
// majority of the current length; otherwise the most recent raw label
// stands.
func (h *History) Push(label string) string {
	if len(h.labels) >= h.capacity {
		h.labels = h.labels[1:]
	}
	h.labels = append(h.labels, label)

	if len(h.labels) < minVoteEntries {
		return label
	}

	counts := make(map[string]int, len(h.labels))
	best := h.labels[0]
	for _, l := range h.labels {
		counts[l]++
		if counts[l] > counts[best] {
			best = l
		}
	}

	if counts[best] >= len(h.labels)/2+1 {
		return best
	}
	return label
}

// Len returns the number of buffered labels.
func (h *History) Len() int {
	return len(h.labels)
}
