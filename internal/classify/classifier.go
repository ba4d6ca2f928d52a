package classify

import (
	"errors"
	"fmt"
	"log"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/inference"
)

// CropSize is the square landmark-model input resolution in pixels.
const CropSize = 224

// CannedGestures is the static classifier's closed vocabulary, in output
// order.
var CannedGestures = []string{
	"None",
	"Closed_Fist",
	"Open_Palm",
	"Pointing_Up",
	"Thumb_Down",
	"Thumb_Up",
	"Victory",
	"ILoveYou",
}

// Classifier runs the landmark model, the optional static-gesture stages
// and angle-based typing over one region at a time.
type Classifier struct {
	landmark inference.Model
	embedder inference.Model
	labeler  inference.Model

	inputSize     int
	alpha         float64
	iouMatch      float64
	staticEnabled bool
	anglesEnabled bool

	histories  map[int]*History
	historyLen int
}

// New builds a Classifier from the backend. The landmark model is
// required; static-gesture stages degrade gracefully when either model is
// unavailable.
func New(cfg config.Detection, backend inference.Backend) (*Classifier, error) {
	landmark, err := backend.Model(inference.ModelHandLandmarks)
	if err != nil {
		return nil, fmt.Errorf("landmark model: %w", err)
	}

	c := &Classifier{
		landmark:      landmark,
		inputSize:     cfg.InputSize,
		alpha:         cfg.SmoothingAlpha,
		iouMatch:      cfg.IOUMatchThreshold,
		staticEnabled: cfg.EnableStaticGestures,
		anglesEnabled: cfg.EnableFingerDetection,
		histories:     make(map[int]*History),
		historyLen:    cfg.GestureSmoothingFrames,
	}

	if cfg.EnableStaticGestures {
		c.embedder, err = backend.Model(inference.ModelGestureEmbedder)
		if err == nil {
			c.labeler, err = backend.Model(inference.ModelGestureClassifier)
		}
		if err != nil {
			log.Printf("static gestures unavailable, falling back to angle classification: %v", err)
			c.staticEnabled = false
		}
	}

	return c, nil
}

// Process runs the landmark and gesture stages on one region. The slot is
// the region's index within the frame's region set, keying its label
// history. An error means the region should be dropped for this frame; it
// never aborts the whole frame.
func (c *Classifier) Process(r *detector.HandRegion, slot int, frame gocv.Mat, prev []*detector.HandRegion) error {
	crop, err := warpRegionCrop(frame, r, c.inputSize, CropSize)
	if err != nil {
		return fmt.Errorf("crop region: %w", err)
	}
	defer crop.Close()

	data, shape, err := cropToTensor(crop)
	if err != nil {
		return fmt.Errorf("crop tensor: %w", err)
	}

	outputs, err := c.landmark.Infer(inference.Tensor{Data: data, Shape: shape})
	if err != nil {
		return fmt.Errorf("landmark inference: %w", err)
	}

	cropLandmarks, err := c.applyLandmarks(r, outputs, prev)
	if err != nil {
		return err
	}

	if c.staticEnabled {
		if err := c.applyStaticGesture(r, slot, cropLandmarks); err != nil {
			// Optional stage: keep the region with angle classification only.
			log.Printf("static gesture stage failed for region %d: %v", slot, err)
		}
	}

	if c.anglesEnabled {
		ApplyAngles(r)
	}

	return nil
}

// DropHistory forgets the label history of slots at or beyond count,
// keeping slot keys aligned with the new frame's region set.
func (c *Classifier) DropHistory(count int) {
	for slot := range c.histories {
		if slot >= count {
			delete(c.histories, slot)
		}
	}
}

// applyLandmarks decodes the landmark model outputs into the region,
// mapping crop-relative coordinates back through the rotated rectangle
// into normalized frame coordinates, and smoothing against the previous
// frame's matching region. It returns the crop-relative landmarks for the
// embedder stage.
func (c *Classifier) applyLandmarks(r *detector.HandRegion, outputs map[string]inference.Tensor, prev []*detector.HandRegion) ([]float32, error) {
	lm, ok := outputs[inference.OutputLandmarks]
	if !ok || len(lm.Data) < detector.NumLandmarks*3 {
		return nil, errors.New("landmark tensor missing or short")
	}
	score, ok := outputs[inference.OutputScore]
	if !ok || len(score.Data) == 0 {
		return nil, errors.New("landmark score tensor missing")
	}
	handed, ok := outputs[inference.OutputHandedness]
	if !ok || len(handed.Data) == 0 {
		return nil, errors.New("handedness tensor missing")
	}

	r.LandmarkScore = sigmoid(float64(score.Data[0]))
	r.Handedness = sigmoid(float64(handed.Data[0]))

	cos := math.Cos(r.Rotation)
	sin := math.Sin(r.Rotation)
	for i := 0; i < detector.NumLandmarks; i++ {
		// Crop-relative in [0,1], origin at the crop's top-left.
		lx := float64(lm.Data[3*i]) / CropSize
		ly := float64(lm.Data[3*i+1]) / CropSize
		lz := float64(lm.Data[3*i+2]) / CropSize

		dx := (lx - 0.5) * r.RectSize
		dy := (ly - 0.5) * r.RectSize
		r.Landmarks[i] = detector.Point3{
			X: r.RectCenter.X + dx*cos - dy*sin,
			Y: r.RectCenter.Y + dx*sin + dy*cos,
			Z: lz * r.RectSize,
		}
	}
	r.HasLandmarks = true

	if match := detector.MatchPrevious(r, prev, c.iouMatch); match != nil && match.HasLandmarks {
		for i := range r.Landmarks {
			r.Landmarks[i].X = c.alpha*match.Landmarks[i].X + (1-c.alpha)*r.Landmarks[i].X
			r.Landmarks[i].Y = c.alpha*match.Landmarks[i].Y + (1-c.alpha)*r.Landmarks[i].Y
			r.Landmarks[i].Z = c.alpha*match.Landmarks[i].Z + (1-c.alpha)*r.Landmarks[i].Z
		}
	}

	return lm.Data[:detector.NumLandmarks*3], nil
}

// applyStaticGesture runs the embedder and classifier stages and smooths
// the resulting label through the slot's history buffer.
func (c *Classifier) applyStaticGesture(r *detector.HandRegion, slot int, cropLandmarks []float32) error {
	embedded, err := c.embedder.Infer(inference.Tensor{
		Data:  cropLandmarks,
		Shape: []int{1, detector.NumLandmarks, 3},
	})
	if err != nil {
		return fmt.Errorf("embedder: %w", err)
	}

	embedding, ok := embedded[inference.OutputEmbedding]
	if !ok {
		return errors.New("embedding tensor missing")
	}

	classified, err := c.labeler.Infer(embedding)
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	classes, ok := classified[inference.OutputClasses]
	if !ok || len(classes.Data) < len(CannedGestures) {
		return errors.New("class tensor missing or short")
	}

	best := 0
	for i := 1; i < len(CannedGestures); i++ {
		if classes.Data[i] > classes.Data[best] {
			best = i
		}
	}

	history, ok := c.histories[slot]
	if !ok {
		history = NewHistory(c.historyLen)
		c.histories[slot] = history
	}

	r.GestureLabel = history.Push(CannedGestures[best])
	r.GestureConfidence = float64(classes.Data[best])
	r.HasGesture = true
	return nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
