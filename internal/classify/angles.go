// Package classify runs the per-region landmark and gesture stages: crop
// warping, landmark extraction, static-label classification with temporal
// debouncing, and angle-based gesture typing.
package classify

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/mudra/internal/detector"
)

// Finger bend classification boundaries in degrees.
const (
	relaxedBelow  = 60.0  // very curled, natural resting
	extendedAbove = 130.0 // straight finger
)

// Inter-finger relationship thresholds in degrees.
const (
	parallelBelow       = 30.0
	perpendicularWithin = 20.0
)

// CalculateAngle returns the angle in degrees at p2 formed by p1-p2-p3,
// using only the x/y plane. Colinear points with no fold give 180; the
// angle strictly decreases as the joint folds toward 0. Zero-length
// vectors default to 180 (treated as straight).
func CalculateAngle(p1, p2, p3 detector.Point3) float64 {
	v1 := []float64{p1.X - p2.X, p1.Y - p2.Y}
	v2 := []float64{p3.X - p2.X, p3.Y - p2.Y}

	m1 := floats.Norm(v1, 2)
	m2 := floats.Norm(v2, 2)
	if m1 == 0 || m2 == 0 {
		return 180
	}

	cos := floats.Dot(v1, v2) / (m1 * m2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// indexBendAngle measures the index finger's bend at the PIP joint. The
// outer reference point is the fingertip, matching the landmark model's
// behavior under partial occlusion better than the DIP joint does.
func indexBendAngle(lm *[detector.NumLandmarks]detector.Point3) float64 {
	return CalculateAngle(lm[detector.IndexMCP], lm[detector.IndexPIP], lm[detector.IndexTip])
}

// middleBendAngle measures the middle finger's bend at the PIP joint.
func middleBendAngle(lm *[detector.NumLandmarks]detector.Point3) float64 {
	return CalculateAngle(lm[detector.MiddleMCP], lm[detector.MiddlePIP], lm[detector.MiddleTip])
}

// fingerSpreadAngle returns the angle between the index and middle finger
// direction vectors (MCP to PIP of each). The absolute cosine folds the
// result into [0°, 90°], so anti-parallel fingers read as parallel. Zero
// length vectors default to 90.
func fingerSpreadAngle(lm *[detector.NumLandmarks]detector.Point3) float64 {
	iv := []float64{
		lm[detector.IndexPIP].X - lm[detector.IndexMCP].X,
		lm[detector.IndexPIP].Y - lm[detector.IndexMCP].Y,
	}
	mv := []float64{
		lm[detector.MiddlePIP].X - lm[detector.MiddleMCP].X,
		lm[detector.MiddlePIP].Y - lm[detector.MiddleMCP].Y,
	}

	im := floats.Norm(iv, 2)
	mm := floats.Norm(mv, 2)
	if im == 0 || mm == 0 {
		return 90
	}

	cos := floats.Dot(iv, mv) / (im * mm)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(math.Abs(cos)) * 180 / math.Pi
}

func fingerState(angle float64) detector.FingerState {
	switch {
	case angle < relaxedBelow:
		return detector.FingerRelaxed
	case angle < extendedAbove:
		return detector.FingerBent
	default:
		return detector.FingerExtended
	}
}

// ApplyAngles computes the angle-based gesture fields of a region from its
// landmarks. The finger relationship, not bend magnitude alone,
// disambiguates one-finger from two-finger gestures when the fingers are
// close together.
func ApplyAngles(r *detector.HandRegion) {
	if !r.HasLandmarks {
		return
	}

	indexAngle := indexBendAngle(&r.Landmarks)
	middleAngle := middleBendAngle(&r.Landmarks)
	spread := fingerSpreadAngle(&r.Landmarks)

	parallel := spread < parallelBelow
	perpendicular := math.Abs(spread-90) < perpendicularWithin

	indexState := fingerState(indexAngle)
	middleState := fingerState(middleAngle)

	gesture := detector.GestureNone
	if indexState == detector.FingerBent {
		switch {
		case parallel && middleState == detector.FingerBent:
			gesture = detector.GestureIndexMiddleBoth
		case perpendicular:
			gesture = detector.GestureIndexOnly
		case !parallel && (middleState == detector.FingerExtended || middleState == detector.FingerRelaxed):
			gesture = detector.GestureIndexOnly
		}
	}

	r.IndexAngle = indexAngle
	r.MiddleAngle = middleAngle
	r.IndexState = indexState
	r.MiddleState = middleState
	r.FingerAngle = spread
	r.FingersParallel = parallel
	r.FingersPerpendicular = perpendicular
	r.Gesture = gesture
	r.HandSide = r.Side()
}
