package detector

import "math"

// Rotated rectangle derivation constants, fixed by the landmark model's
// training crop: the detection box is expanded around the palm and shifted
// toward the fingers before warping.
const (
	rectScale  = 2.6
	rectShiftY = -0.5
)

// DeriveRect computes the region's rotated square from its detection box
// and palm keypoints. Rotation aligns the wrist-to-middle-finger axis with
// vertical; the square is the box's long side scaled by rectScale, shifted
// along the rotated Y axis.
func DeriveRect(r *HandRegion) {
	w, h := r.Box[2], r.Box[3]
	cx := r.Box[0] + w/2
	cy := r.Box[1] + h/2

	wrist := r.Keypoints[0]
	middleBase := r.Keypoints[2]
	// Target angle is π/2: hand pointing up in the crop.
	rotation := normalizeRadians(math.Pi/2 - math.Atan2(-(middleBase.Y-wrist.Y), middleBase.X-wrist.X))

	size := math.Max(w, h) * rectScale

	shift := rectShiftY * math.Max(w, h)
	r.RectCenter = Point2{
		X: cx - shift*math.Sin(rotation),
		Y: cy + shift*math.Cos(rotation),
	}
	r.RectSize = size
	r.Rotation = rotation

	// Corner order: top-left, top-right, bottom-right, bottom-left in the
	// rectangle's own frame.
	half := size / 2
	cos, sin := math.Cos(rotation), math.Sin(rotation)
	corners := [4][2]float64{{-half, -half}, {half, -half}, {half, half}, {-half, half}}
	for i, c := range corners {
		r.RectPoints[i] = Point2{
			X: r.RectCenter.X + c[0]*cos - c[1]*sin,
			Y: r.RectCenter.Y + c[0]*sin + c[1]*cos,
		}
	}
}

// DeriveRects runs DeriveRect over a region set.
func DeriveRects(regions []*HandRegion) {
	for _, r := range regions {
		DeriveRect(r)
	}
}

// normalizeRadians folds an angle into (-π, π].
func normalizeRadians(angle float64) float64 {
	return angle - 2*math.Pi*math.Floor((angle+math.Pi)/(2*math.Pi))
}
