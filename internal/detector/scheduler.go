package detector

import (
	"log"
	"time"
)

// PalmState is the redetection scheduler's current state.
type PalmState string

const (
	StateNoHands          PalmState = "NO_HANDS"
	StateOneHandSearching PalmState = "ONE_HAND_SEARCHING"
	StateOneHandStable    PalmState = "ONE_HAND_STABLE"
	StateTwoHands         PalmState = "TWO_HANDS"
)

// Scheduler decides whether the expensive palm detection must run this
// frame. Full detection runs while no hands are tracked and during a grace
// period after the first hand appears; once a single hand is stable only a
// periodic check looks for a second hand, and with two hands tracking alone
// carries the frame.
type Scheduler struct {
	state           PalmState
	graceStart      time.Time
	gracePeriod     time.Duration
	periodicCounter int
	periodicEvery   int
	debug           bool
}

// NewScheduler creates a Scheduler in the NO_HANDS state.
func NewScheduler(gracePeriod time.Duration, periodicEvery int) *Scheduler {
	return &Scheduler{
		state:         StateNoHands,
		gracePeriod:   gracePeriod,
		periodicEvery: periodicEvery,
	}
}

// SetDebug enables state-transition logging.
func (s *Scheduler) SetDebug(debug bool) {
	s.debug = debug
}

// State returns the current scheduler state.
func (s *Scheduler) State() PalmState {
	return s.state
}

// Decide advances the state machine for the given tracked hand count and
// reports whether palm detection is required this frame.
func (s *Scheduler) Decide(handCount int, now time.Time) bool {
	switch {
	case handCount == 0:
		s.transition(StateNoHands)
		return true

	case handCount == 1:
		switch s.state {
		case StateOneHandSearching:
			if now.Sub(s.graceStart) >= s.gracePeriod {
				s.transition(StateOneHandStable)
				return false
			}
			return true

		case StateOneHandStable:
			s.periodicCounter++
			if s.periodicCounter >= s.periodicEvery {
				s.periodicCounter = 0
				return true
			}
			return false

		default:
			s.transition(StateOneHandSearching)
			s.graceStart = now
			return true
		}

	default: // two or more hands
		s.transition(StateTwoHands)
		return false
	}
}

func (s *Scheduler) transition(next PalmState) {
	if s.state == next {
		return
	}
	if s.debug {
		log.Printf("palm state: %s -> %s", s.state, next)
	}
	if next == StateOneHandStable {
		s.periodicCounter = 0
	}
	s.state = next
}

// NeedsQualityRedetection reports whether any previously tracked region's
// landmark score has fallen below threshold, signalling tracking drift that
// only a fresh detection can recover from. It is OR'd with the scheduler's
// own decision.
func NeedsQualityRedetection(prev []*HandRegion, threshold float64) bool {
	for _, r := range prev {
		if r.HasLandmarks && r.LandmarkScore < threshold {
			return true
		}
	}
	return false
}
