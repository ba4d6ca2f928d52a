package detector

// Anchor is a precomputed reference location the detector's regression
// output is relative to. Palm-detector anchors are unit squares, so only
// the center matters.
type Anchor struct {
	X float64
	Y float64
}

// anchorLayer mirrors one feature-map layer of the palm detector's SSD
// head. Layers sharing a stride are merged by stacking their anchors in
// the same grid cell.
type anchorLayer struct {
	stride  int
	repeats int
}

// palmAnchorLayers is the fixed stride/scale scheme of the MediaPipe palm
// detector: one stride-8 layer with 2 anchors per cell and three stride-16
// layers merged into 6 anchors per cell. For a 192x192 input this yields
// 24*24*2 + 12*12*6 = 2016 anchors.
var palmAnchorLayers = []anchorLayer{
	{stride: 8, repeats: 2},
	{stride: 16, repeats: 6},
}

// GenerateAnchors builds the anchor table for the given square input size.
// Anchor centers are expressed in normalized [0,1] coordinates at the
// center of each feature-map cell. The table is computed once at startup;
// it is not user-configurable.
func GenerateAnchors(inputSize int) []Anchor {
	var anchors []Anchor

	for _, layer := range palmAnchorLayers {
		grid := inputSize / layer.stride
		for y := 0; y < grid; y++ {
			for x := 0; x < grid; x++ {
				cx := (float64(x) + 0.5) / float64(grid)
				cy := (float64(y) + 0.5) / float64(grid)
				for r := 0; r < layer.repeats; r++ {
					anchors = append(anchors, Anchor{X: cx, Y: cy})
				}
			}
		}
	}

	return anchors
}
