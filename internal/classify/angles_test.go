package classify

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestCalculateAngleStraightJoint(t *testing.T) {
	a := detector.Point3{X: 0, Y: 0}
	b := detector.Point3{X: 1, Y: 0}
	c := detector.Point3{X: 2, Y: 0}

	if got := CalculateAngle(a, b, c); math.Abs(got-180) > 1e-9 {
		t.Errorf("colinear points: angle = %f, want 180", got)
	}
}

func TestCalculateAngleDecreasesWithFold(t *testing.T) {
	a := detector.Point3{X: 0, Y: 0}
	b := detector.Point3{X: 1, Y: 0}

	prev := 180.0
	// Fold the outer segment progressively back toward the inner one.
	for _, theta := range []float64{0.3, 0.8, 1.5, 2.2, 2.9} {
		c := detector.Point3{
			X: 1 + math.Cos(math.Pi-theta),
			Y: math.Sin(math.Pi - theta),
		}
		got := CalculateAngle(a, b, c)
		if got >= prev {
			t.Errorf("fold %f: angle %f did not decrease from %f", theta, got, prev)
		}
		prev = got
	}
}

func TestCalculateAngleZeroLengthVector(t *testing.T) {
	p := detector.Point3{X: 1, Y: 1}
	if got := CalculateAngle(p, p, detector.Point3{X: 2, Y: 2}); got != 180 {
		t.Errorf("zero-length vector: angle = %f, want 180", got)
	}
}

func TestFingerState(t *testing.T) {
	cases := []struct {
		angle float64
		want  detector.FingerState
	}{
		{30, detector.FingerRelaxed},
		{59.9, detector.FingerRelaxed},
		{60, detector.FingerBent},
		{100, detector.FingerBent},
		{129.9, detector.FingerBent},
		{130, detector.FingerExtended},
		{180, detector.FingerExtended},
	}

	for _, c := range cases {
		if got := fingerState(c.angle); got != c.want {
			t.Errorf("fingerState(%f) = %s, want %s", c.angle, got, c.want)
		}
	}
}

// bentIndex lays out index landmarks with a 90 degree bend at the PIP
// joint and the finger pointing up.
func bentIndex(lm *[detector.NumLandmarks]detector.Point3) {
	lm[detector.IndexMCP] = detector.Point3{X: 0, Y: 0}
	lm[detector.IndexPIP] = detector.Point3{X: 0, Y: -1}
	lm[detector.IndexTip] = detector.Point3{X: 1, Y: -1}
}

func region(setup func(lm *[detector.NumLandmarks]detector.Point3)) *detector.HandRegion {
	r := &detector.HandRegion{HasLandmarks: true}
	setup(&r.Landmarks)
	return r
}

func TestApplyAnglesBothFingersParallel(t *testing.T) {
	r := region(func(lm *[detector.NumLandmarks]detector.Point3) {
		bentIndex(lm)
		// Middle finger parallel to the index and equally bent.
		lm[detector.MiddleMCP] = detector.Point3{X: 0.3, Y: 0}
		lm[detector.MiddlePIP] = detector.Point3{X: 0.3, Y: -1}
		lm[detector.MiddleTip] = detector.Point3{X: 1.3, Y: -1}
	})

	ApplyAngles(r)

	if !r.FingersParallel {
		t.Errorf("expected parallel fingers, spread angle %f", r.FingerAngle)
	}
	if r.IndexState != detector.FingerBent || r.MiddleState != detector.FingerBent {
		t.Errorf("states = %s/%s, want BENT/BENT", r.IndexState, r.MiddleState)
	}
	if r.Gesture != detector.GestureIndexMiddleBoth {
		t.Errorf("gesture = %s, want %s", r.Gesture, detector.GestureIndexMiddleBoth)
	}
}

func TestApplyAnglesIndexOnlyPerpendicular(t *testing.T) {
	r := region(func(lm *[detector.NumLandmarks]detector.Point3) {
		bentIndex(lm)
		// Middle finger extended sideways, perpendicular to the index.
		lm[detector.MiddleMCP] = detector.Point3{X: 0.3, Y: 0}
		lm[detector.MiddlePIP] = detector.Point3{X: 1.3, Y: 0}
		lm[detector.MiddleTip] = detector.Point3{X: 2.3, Y: 0}
	})

	ApplyAngles(r)

	if !r.FingersPerpendicular {
		t.Errorf("expected perpendicular fingers, spread angle %f", r.FingerAngle)
	}
	if r.Gesture != detector.GestureIndexOnly {
		t.Errorf("gesture = %s, want %s", r.Gesture, detector.GestureIndexOnly)
	}
}

func TestApplyAnglesIndexOnlyAngledMiddleExtended(t *testing.T) {
	r := region(func(lm *[detector.NumLandmarks]detector.Point3) {
		bentIndex(lm)
		// Middle finger straight at 45 degrees: neither parallel nor
		// perpendicular to the index.
		d := math.Sqrt2 / 2
		lm[detector.MiddleMCP] = detector.Point3{X: 0.3, Y: 0}
		lm[detector.MiddlePIP] = detector.Point3{X: 0.3 + d, Y: -d}
		lm[detector.MiddleTip] = detector.Point3{X: 0.3 + 2*d, Y: -2 * d}
	})

	ApplyAngles(r)

	if r.FingersParallel || r.FingersPerpendicular {
		t.Errorf("expected angled fingers, spread %f", r.FingerAngle)
	}
	if r.MiddleState != detector.FingerExtended {
		t.Errorf("middle state = %s, want EXTENDED", r.MiddleState)
	}
	if r.Gesture != detector.GestureIndexOnly {
		t.Errorf("gesture = %s, want %s", r.Gesture, detector.GestureIndexOnly)
	}
}

func TestApplyAnglesNoGestureWhenIndexExtended(t *testing.T) {
	r := region(func(lm *[detector.NumLandmarks]detector.Point3) {
		lm[detector.IndexMCP] = detector.Point3{X: 0, Y: 0}
		lm[detector.IndexPIP] = detector.Point3{X: 0, Y: -1}
		lm[detector.IndexTip] = detector.Point3{X: 0, Y: -2}
		lm[detector.MiddleMCP] = detector.Point3{X: 0.3, Y: 0}
		lm[detector.MiddlePIP] = detector.Point3{X: 0.3, Y: -1}
		lm[detector.MiddleTip] = detector.Point3{X: 0.3, Y: -2}
	})

	ApplyAngles(r)

	if r.Gesture != detector.GestureNone {
		t.Errorf("gesture = %s, want %s", r.Gesture, detector.GestureNone)
	}
}

func TestApplyAnglesSkipsWithoutLandmarks(t *testing.T) {
	r := &detector.HandRegion{}
	ApplyAngles(r)
	if r.Gesture != "" {
		t.Errorf("expected untouched region, got gesture %q", r.Gesture)
	}
}
