package control

import (
	"time"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/effector"
)

// staticGestureIDs maps smoothed static labels to the gesture ids used
// in mode bindings. Labels outside this map never fire actions.
var staticGestureIDs = map[string]string{
	"Closed_Fist": "fist_gesture",
	"Open_Palm":   "open_palm_gesture",
	"ILoveYou":    "iloveyou_gesture",
}

// labelILoveYou triggers the browser right-hand cursor/scroll toggle.
const labelILoveYou = "ILoveYou"

// Processor runs the per-region control pass: browser sub-mode toggle,
// mode binding dispatch, and the continuous cursor and scroll
// controllers. It owns the per-frame "last pressed hand" latch.
type Processor struct {
	cfg        config.Control
	modes      *Manager
	dispatcher *Dispatcher
	cursor     *Cursor
	scroll     *Scroll

	sawAngleGesture bool
	lastPressedHand string
}

// NewProcessor wires a Processor to the mode manager and effector.
func NewProcessor(cfg config.Control, modes *Manager, eff effector.Effector) *Processor {
	return &Processor{
		cfg:        cfg,
		modes:      modes,
		dispatcher: NewDispatcher(eff),
		cursor:     NewCursor(cfg, eff),
		scroll:     NewScroll(cfg, eff),
	}
}

// GestureIDs returns the angle-based and static gesture ids active on
// the region this frame, at most one of each.
func GestureIDs(r *detector.HandRegion) []string {
	var ids []string
	switch r.Gesture {
	case detector.GestureIndexOnly:
		ids = append(ids, r.Side()+"_index_bent")
	case detector.GestureIndexMiddleBoth:
		ids = append(ids, r.Side()+"_index_middle_bent")
	}
	if r.HasGesture {
		if id, ok := staticGestureIDs[r.GestureLabel]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Process handles one region and returns the gesture ids whose actions
// actually fired.
func (p *Processor) Process(r *detector.HandRegion, now time.Time) []string {
	if !r.HasLandmarks {
		return nil
	}

	if r.Gesture != detector.GestureNone {
		p.sawAngleGesture = true
	}

	p.handleBrowserToggle(r, now)

	var fired []string
	if mode := p.modes.Current(); mode != nil {
		for _, id := range GestureIDs(r) {
			binding, ok := mode.Bindings[id]
			if !ok {
				continue
			}
			if p.dispatcher.Dispatch(id, binding, now) {
				fired = append(fired, id)
				if r.Gesture != detector.GestureNone {
					p.lastPressedHand = r.Side()
				}
			}
		}
	}

	p.runContinuous(r, now)
	return fired
}

// handleBrowserToggle flips the right-hand cursor/scroll sub-mode on a
// right-hand ILoveYou while browser mode is active.
func (p *Processor) handleBrowserToggle(r *detector.HandRegion, now time.Time) {
	if p.modes.CurrentKey() != ModeBrowser {
		return
	}
	if !r.HasGesture || r.GestureLabel != labelILoveYou || r.Side() != "right" {
		return
	}
	if p.modes.ToggleRightHand(now) && p.modes.RightHandMode() == RightHandCursor {
		p.cursor.Reset()
	}
}

// runContinuous drives the cursor and scroll controllers. The global
// enable flags gate them for every hand; browser mode additionally
// forces one of them for the right hand according to the sub-mode.
func (p *Processor) runContinuous(r *detector.HandRegion, now time.Time) {
	browserRight := p.modes.CurrentKey() == ModeBrowser && r.Side() == "right"

	if p.cfg.EnableCursorControl || (browserRight && p.modes.RightHandMode() == RightHandCursor) {
		p.cursor.Move(r)
	}
	if p.cfg.EnableScrollControl || (browserRight && p.modes.RightHandMode() == RightHandScroll) {
		p.scroll.Process(r, now)
	}
}

// EndFrame closes out the control pass for a frame: when no region held
// an angle gesture this frame the last-pressed-hand latch clears.
func (p *Processor) EndFrame() {
	if !p.sawAngleGesture {
		p.lastPressedHand = ""
	}
	p.sawAngleGesture = false
}

// LastPressedHand reports which hand most recently fired an angle
// gesture, empty once the latch has cleared.
func (p *Processor) LastPressedHand() string {
	return p.lastPressedHand
}
