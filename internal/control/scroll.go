package control

import (
	"log"
	"math"
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/effector"
)

const (
	// directionLockDelta is how far the pinch midpoint must travel from
	// its grip start before the scroll direction freezes.
	directionLockDelta = 0.03

	// minTickInterval throttles tick emission while gripped.
	minTickInterval = 100 * time.Millisecond

	// scrollScale converts the normalized midpoint delta to a tick
	// magnitude together with the configured sensitivity.
	scrollScale = 80

	// minScrollAmount suppresses near-zero magnitudes as noise.
	minScrollAmount = 2
)

// Scroll drives wheel ticks from a pinch grip: index and middle
// fingertips held together engage the grip, vertical midpoint travel
// from the grip start sets direction and magnitude. Once the direction
// locks, frames whose instantaneous delta points the other way emit
// nothing until the grip releases.
type Scroll struct {
	eff         effector.Effector
	threshold   float64
	sensitivity float64
	handPref    string

	active     bool
	startY     float64
	lockedDir  string
	activeHand string
	lastTick   time.Time
}

// NewScroll creates a scroll controller from the control settings.
func NewScroll(cfg config.Control, eff effector.Effector) *Scroll {
	return &Scroll{
		eff:         eff,
		threshold:   cfg.ScrollThreshold,
		sensitivity: cfg.ScrollSensitivity,
		handPref:    cfg.ScrollHandPreference,
	}
}

// Active reports whether a grip is currently engaged.
func (s *Scroll) Active() bool {
	return s.active
}

// Process advances the grip state machine for one region. Regions
// without landmarks, or from a hand excluded by the preference filter,
// are ignored.
func (s *Scroll) Process(r *detector.HandRegion, now time.Time) {
	if !r.HasLandmarks {
		return
	}

	hand := r.Side()
	if s.handPref != "any" && hand != s.handPref {
		return
	}

	index := r.Landmarks[detector.IndexTip]
	middle := r.Landmarks[detector.MiddleTip]
	distance := math.Hypot(index.X-middle.X, index.Y-middle.Y)
	midY := (index.Y + middle.Y) / 2

	if distance >= s.threshold {
		if s.active {
			s.reset()
		}
		return
	}

	if !s.active {
		s.active = true
		s.startY = midY
		s.activeHand = hand
		s.lockedDir = ""
		return
	}

	// Only the hand that engaged the grip steers it.
	if s.activeHand != hand {
		return
	}

	delta := midY - s.startY

	if s.lockedDir == "" && math.Abs(delta) > directionLockDelta {
		if delta > 0 {
			s.lockedDir = "down"
		} else {
			s.lockedDir = "up"
		}
	}
	if s.lockedDir == "" {
		return
	}

	current := "up"
	if delta > 0 {
		current = "down"
	}
	if current != s.lockedDir {
		return
	}

	if now.Sub(s.lastTick) <= minTickInterval {
		return
	}

	amount := int(math.Round(-delta * s.sensitivity * scrollScale))
	if amount >= -minScrollAmount && amount <= minScrollAmount {
		return
	}

	if err := s.eff.Scroll(amount); err != nil {
		log.Printf("control: scroll tick failed: %v", err)
		return
	}
	s.lastTick = now
}

// Reset clears any engaged grip.
func (s *Scroll) Reset() {
	s.reset()
}

func (s *Scroll) reset() {
	s.active = false
	s.startY = 0
	s.lockedDir = ""
	s.activeHand = ""
}
