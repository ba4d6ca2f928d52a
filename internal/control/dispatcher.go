package control

import (
	"log"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/effector"
)

// Dispatcher fires mode bindings through the effector with per-gesture
// cooldown gating. A malformed binding or a failed effector call is
// logged and skipped; it never aborts the frame.
type Dispatcher struct {
	eff       effector.Effector
	lastFired map[string]time.Time
}

// NewDispatcher creates a Dispatcher writing to the given effector.
func NewDispatcher(eff effector.Effector) *Dispatcher {
	return &Dispatcher{
		eff:       eff,
		lastFired: make(map[string]time.Time),
	}
}

// Dispatch fires the binding for one gesture id. It returns true only
// when the action actually reached the effector; a cooldown skip, a
// malformed binding, or an effector failure all return false.
func (d *Dispatcher) Dispatch(id string, b Binding, now time.Time) bool {
	if last, ok := d.lastFired[id]; ok && now.Sub(last) < b.Cooldown() {
		return false
	}

	var err error
	switch b.Action {
	case ActionKeyPress:
		if b.Key == "" {
			log.Printf("control: gesture %s has key_press binding with no key, skipping", id)
			return false
		}
		if strings.Contains(b.Key, "+") {
			keys := strings.Split(b.Key, "+")
			for i := range keys {
				keys[i] = strings.TrimSpace(keys[i])
			}
			err = d.eff.Hotkey(keys...)
		} else {
			err = d.eff.PressKey(b.Key)
		}
	case ActionMouseClick:
		if !effector.ValidButton(b.Button) {
			log.Printf("control: gesture %s has invalid mouse button %q, skipping", id, b.Button)
			return false
		}
		err = d.eff.Click(b.Button)
	default:
		log.Printf("control: gesture %s has unknown action %q, skipping", id, b.Action)
		return false
	}

	if err != nil {
		log.Printf("control: gesture %s action failed: %v", id, err)
		return false
	}

	d.lastFired[id] = now
	return true
}
