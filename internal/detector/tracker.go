package detector

// matchThreshold is the minimum IOU for a new region to inherit smoothing
// from a previous-frame region.
const matchThreshold = 0.15

// Tracker associates freshly detected regions with the previous frame's
// regions by box overlap and blends their coordinates to suppress
// frame-to-frame jitter without adding per-frame detection cost.
type Tracker struct {
	// Alpha is the EMA weight given to the previous box.
	Alpha float64
}

// NewTracker creates a Tracker with the given smoothing weight.
func NewTracker(alpha float64) *Tracker {
	return &Tracker{Alpha: alpha}
}

// Smooth blends each region in current against its best IOU match among
// prev: matched boxes become alpha*prev + (1-alpha)*new componentwise,
// unmatched boxes are left untouched. Regions are mutated in place.
func (t *Tracker) Smooth(current, prev []*HandRegion) {
	if len(current) == 0 || len(prev) == 0 {
		return
	}

	for _, region := range current {
		var best *HandRegion
		maxIOU := 0.0

		for _, p := range prev {
			if iou := IOU(region.Box, p.Box); iou > maxIOU {
				maxIOU = iou
				best = p
			}
		}

		if best == nil || maxIOU <= matchThreshold {
			continue
		}
		for i := range region.Box {
			region.Box[i] = t.Alpha*best.Box[i] + (1-t.Alpha)*region.Box[i]
		}
	}
}

// MatchPrevious returns the previous-frame region with the highest box IOU
// against r, provided it is at least minIOU. Used by the landmark stage to
// smooth landmarks against the matched region.
func MatchPrevious(r *HandRegion, prev []*HandRegion, minIOU float64) *HandRegion {
	var best *HandRegion
	maxIOU := 0.0

	for _, p := range prev {
		if iou := IOU(r.Box, p.Box); iou > maxIOU {
			maxIOU = iou
			best = p
		}
	}

	if maxIOU < minIOU {
		return nil
	}
	return best
}
