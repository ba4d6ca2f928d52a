package control

import (
	"log"
	"math"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/effector"
)

// Cursor maps the index fingertip to screen coordinates and issues
// absolute pointer moves. The horizontal axis is mirrored so the hand
// moves the pointer like a mirror image of the camera view.
type Cursor struct {
	eff     effector.Effector
	alpha   float64
	screenW int
	screenH int

	hasPrev bool
	prevX   float64
	prevY   float64
}

// NewCursor creates a cursor controller from the control settings.
func NewCursor(cfg config.Control, eff effector.Effector) *Cursor {
	return &Cursor{
		eff:     eff,
		alpha:   cfg.CursorSmoothing,
		screenW: cfg.ScreenWidth,
		screenH: cfg.ScreenHeight,
	}
}

// Move points the cursor at the region's index fingertip. The target is
// smoothed against the previous position with the configured alpha; the
// first move after a reset goes straight to the target. Regions without
// landmarks are ignored.
func (c *Cursor) Move(r *detector.HandRegion) {
	if !r.HasLandmarks {
		return
	}

	tip := r.Landmarks[detector.IndexTip]
	targetX := float64(c.screenW) * (1 - tip.X)
	targetY := float64(c.screenH) * tip.Y

	x, y := targetX, targetY
	if c.hasPrev {
		x = c.alpha*c.prevX + (1-c.alpha)*targetX
		y = c.alpha*c.prevY + (1-c.alpha)*targetY
	}

	if err := c.eff.MoveMouse(int(math.Round(x)), int(math.Round(y))); err != nil {
		log.Printf("control: cursor move failed: %v", err)
		return
	}

	c.prevX, c.prevY = x, y
	c.hasPrev = true
}

// Reset forgets the previous position so the next move is unsmoothed.
func (c *Cursor) Reset() {
	c.hasPrev = false
}
