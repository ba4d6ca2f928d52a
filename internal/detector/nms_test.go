package detector

import (
	"math"
	"testing"
)

func TestIOUIdentical(t *testing.T) {
	box := [4]float64{0.2, 0.3, 0.4, 0.2}
	if got := IOU(box, box); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("IOU of a box with itself = %f, want 1", got)
	}
}

func TestIOUSymmetricAndBounded(t *testing.T) {
	cases := [][2][4]float64{
		{{0, 0, 0.5, 0.5}, {0.25, 0.25, 0.5, 0.5}},
		{{0.1, 0.1, 0.2, 0.2}, {0.5, 0.5, 0.2, 0.2}},
		{{0, 0, 1, 1}, {0.4, 0.4, 0.1, 0.1}},
	}

	for _, c := range cases {
		ab := IOU(c[0], c[1])
		ba := IOU(c[1], c[0])
		if math.Abs(ab-ba) > 1e-12 {
			t.Errorf("IOU not symmetric: %f vs %f for %v", ab, ba, c)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("IOU out of range: %f for %v", ab, c)
		}
	}
}

func TestIOUDisjoint(t *testing.T) {
	a := [4]float64{0, 0, 0.2, 0.2}
	b := [4]float64{0.5, 0.5, 0.2, 0.2}
	if got := IOU(a, b); got != 0 {
		t.Errorf("IOU of disjoint boxes = %f, want 0", got)
	}
}

func TestNonMaxSuppressionDisjointOutput(t *testing.T) {
	regions := []*HandRegion{
		{Box: [4]float64{0.10, 0.10, 0.30, 0.30}, Score: 0.9},
		{Box: [4]float64{0.12, 0.12, 0.30, 0.30}, Score: 0.8}, // heavy overlap with first
		{Box: [4]float64{0.60, 0.60, 0.25, 0.25}, Score: 0.7},
		{Box: [4]float64{0.61, 0.61, 0.25, 0.25}, Score: 0.95}, // heavy overlap with third
	}

	const threshold = 0.3
	kept := NonMaxSuppression(regions, threshold)

	if len(kept) != 2 {
		t.Fatalf("expected 2 surviving regions, got %d", len(kept))
	}

	for i := range kept {
		for j := i + 1; j < len(kept); j++ {
			if iou := IOU(kept[i].Box, kept[j].Box); iou >= threshold {
				t.Errorf("output boxes %d and %d overlap with IOU %f >= %f", i, j, iou, threshold)
			}
		}
	}

	// Highest score must survive suppression.
	if kept[0].Score != 0.95 {
		t.Errorf("expected the top-scoring region first, got score %f", kept[0].Score)
	}
}

func TestNonMaxSuppressionEmpty(t *testing.T) {
	if got := NonMaxSuppression(nil, 0.3); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestDecodeBoxes(t *testing.T) {
	const inputSize = 192
	anchors := []Anchor{{X: 0.5, Y: 0.5}, {X: 0.25, Y: 0.75}}

	// One confident anchor, one well below threshold after sigmoid.
	scores := []float32{2.0, -4.0}

	regressors := make([]float32, 2*regressorStride)
	// Box centered 19.2px right of the anchor, 38.4px wide and tall.
	regressors[0] = 19.2
	regressors[1] = 0
	regressors[2] = 38.4
	regressors[3] = 38.4
	// First keypoint offset 9.6px down.
	regressors[4] = 0
	regressors[5] = 9.6

	regions, err := DecodeBoxes(0.5, scores, regressors, anchors, inputSize)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(regions) != 1 {
		t.Fatalf("expected 1 region above threshold, got %d", len(regions))
	}

	r := regions[0]
	wantBox := [4]float64{0.5, 0.4, 0.2, 0.2} // center (0.6, 0.5), size 0.2
	for i := range wantBox {
		if math.Abs(r.Box[i]-wantBox[i]) > 1e-9 {
			t.Errorf("box[%d] = %f, want %f", i, r.Box[i], wantBox[i])
		}
	}

	if math.Abs(r.Keypoints[0].X-0.5) > 1e-9 || math.Abs(r.Keypoints[0].Y-0.55) > 1e-9 {
		t.Errorf("keypoint 0 = %+v, want (0.5, 0.55)", r.Keypoints[0])
	}

	wantScore := 1 / (1 + math.Exp(-2.0))
	if math.Abs(r.Score-wantScore) > 1e-9 {
		t.Errorf("score = %f, want %f", r.Score, wantScore)
	}
}

func TestDecodeBoxesShapeMismatch(t *testing.T) {
	anchors := GenerateAnchors(192)
	if _, err := DecodeBoxes(0.5, make([]float32, 10), make([]float32, 10*regressorStride), anchors, 192); err == nil {
		t.Error("expected error for score/anchor count mismatch")
	}
}

func TestGenerateAnchorsCount(t *testing.T) {
	anchors := GenerateAnchors(192)
	// 24*24*2 stride-8 anchors plus 12*12*6 stride-16 anchors.
	if len(anchors) != 2016 {
		t.Errorf("expected 2016 anchors for 192 input, got %d", len(anchors))
	}

	for i, a := range anchors {
		if a.X <= 0 || a.X >= 1 || a.Y <= 0 || a.Y >= 1 {
			t.Fatalf("anchor %d center out of range: %+v", i, a)
		}
	}
}
