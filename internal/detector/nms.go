package detector

import (
	"math"
	"sort"
)

// IOU returns the intersection-over-union of two normalized x,y,w,h boxes.
// The result is in [0,1]; identical boxes score 1 and disjoint boxes 0.
func IOU(a, b [4]float64) float64 {
	ix := math.Min(a[0]+a[2], b[0]+b[2]) - math.Max(a[0], b[0])
	if ix <= 0 {
		return 0
	}
	iy := math.Min(a[1]+a[3], b[1]+b[3]) - math.Max(a[1], b[1])
	if iy <= 0 {
		return 0
	}

	inter := ix * iy
	union := a[2]*a[3] + b[2]*b[3] - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// NonMaxSuppression greedily deduplicates overlapping detections. Regions
// are visited in descending score order and a region is accepted only if
// its IOU with every already-accepted box is below threshold, so the output
// is IOU-disjoint at that threshold. O(n²) in the retained candidate count.
func NonMaxSuppression(regions []*HandRegion, threshold float64) []*HandRegion {
	if len(regions) == 0 {
		return nil
	}

	ordered := make([]*HandRegion, len(regions))
	copy(ordered, regions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	var kept []*HandRegion
	for _, candidate := range ordered {
		overlaps := false
		for _, accepted := range kept {
			if IOU(candidate.Box, accepted.Box) >= threshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, candidate)
		}
	}

	return kept
}
