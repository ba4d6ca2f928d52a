package detector

import (
	"fmt"
	"math"
)

// regressorStride is the number of values per anchor in the regression
// tensor: 4 box values plus 7 keypoints of 2 values each.
const regressorStride = 4 + 2*NumKeypoints

// DecodeBoxes converts the palm detector's raw per-anchor score and
// regression vectors into candidate hand regions. Offsets and sizes are
// divided by the model input size and applied to the anchor center; scores
// pass through a sigmoid. Candidates below scoreThreshold are discarded.
func DecodeBoxes(scoreThreshold float64, scores, regressors []float32, anchors []Anchor, inputSize int) ([]*HandRegion, error) {
	if len(scores) != len(anchors) {
		return nil, fmt.Errorf("decode: %d scores for %d anchors", len(scores), len(anchors))
	}
	if len(regressors) != len(anchors)*regressorStride {
		return nil, fmt.Errorf("decode: regressor tensor has %d values, want %d",
			len(regressors), len(anchors)*regressorStride)
	}

	scale := float64(inputSize)
	var regions []*HandRegion

	for i, anchor := range anchors {
		score := sigmoid(float64(scores[i]))
		if score < scoreThreshold {
			continue
		}

		raw := regressors[i*regressorStride : (i+1)*regressorStride]

		cx := float64(raw[0])/scale + anchor.X
		cy := float64(raw[1])/scale + anchor.Y
		w := float64(raw[2]) / scale
		h := float64(raw[3]) / scale

		region := &HandRegion{
			Box:   [4]float64{cx - w/2, cy - h/2, w, h},
			Score: score,
		}
		for k := 0; k < NumKeypoints; k++ {
			region.Keypoints[k] = Point2{
				X: float64(raw[4+2*k])/scale + anchor.X,
				Y: float64(raw[5+2*k])/scale + anchor.Y,
			}
		}

		regions = append(regions, region)
	}

	return regions, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
