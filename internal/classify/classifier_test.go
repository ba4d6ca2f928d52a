package classify

import (
	"errors"
	"math"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/inference"
)

// fullFrameRegion returns a region whose rotated rect covers the whole
// model input, so crop coordinates map straight back to frame coordinates.
func fullFrameRegion() *detector.HandRegion {
	r := &detector.HandRegion{
		Box:        [4]float64{0.25, 0.25, 0.5, 0.5},
		Score:      0.9,
		RectCenter: detector.Point2{X: 0.5, Y: 0.5},
		RectSize:   1.0,
		Rotation:   0,
	}
	r.RectPoints = [4]detector.Point2{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}
	return r
}

func landmarkOutputs(score, handedness float32) map[string]inference.Tensor {
	lm := make([]float32, detector.NumLandmarks*3)
	for i := 0; i < detector.NumLandmarks; i++ {
		// Spread landmarks along the crop diagonal.
		lm[3*i] = float32(i) * 10
		lm[3*i+1] = float32(i) * 10
		lm[3*i+2] = 0
	}
	return map[string]inference.Tensor{
		inference.OutputLandmarks:  {Data: lm, Shape: []int{1, 63}},
		inference.OutputScore:      {Data: []float32{score}, Shape: []int{1, 1}},
		inference.OutputHandedness: {Data: []float32{handedness}, Shape: []int{1, 1}},
	}
}

func newTestBackend(static bool) *inference.MockBackend {
	backend := inference.NewMockBackend()
	backend.SetModel(inference.ModelHandLandmarks, &inference.MockModel{
		Outputs: landmarkOutputs(3.0, 2.0),
	})
	if static {
		backend.SetModel(inference.ModelGestureEmbedder, &inference.MockModel{
			Outputs: map[string]inference.Tensor{
				inference.OutputEmbedding: {Data: make([]float32, 128), Shape: []int{1, 128}},
			},
		})
		classes := make([]float32, len(CannedGestures))
		classes[6] = 0.9 // Victory
		backend.SetModel(inference.ModelGestureClassifier, &inference.MockModel{
			Outputs: map[string]inference.Tensor{
				inference.OutputClasses: {Data: classes, Shape: []int{1, len(classes)}},
			},
		})
	}
	return backend
}

func TestClassifierProcess(t *testing.T) {
	cfg := config.Default().Detection
	classifier, err := New(cfg, newTestBackend(true))
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}

	frame := gocv.NewMatWithSize(cfg.InputSize, cfg.InputSize, gocv.MatTypeCV8UC3)
	defer frame.Close()

	r := fullFrameRegion()
	if err := classifier.Process(r, 0, frame, nil); err != nil {
		t.Fatalf("process: %v", err)
	}

	if !r.HasLandmarks {
		t.Fatal("expected landmarks to be populated")
	}

	// Identity rect: crop-normalized coordinates come through unchanged.
	want := 10.0 / CropSize
	if math.Abs(r.Landmarks[1].X-want) > 1e-6 || math.Abs(r.Landmarks[1].Y-want) > 1e-6 {
		t.Errorf("landmark 1 = %+v, want (%f, %f)", r.Landmarks[1], want, want)
	}

	if r.LandmarkScore <= 0.9 {
		t.Errorf("landmark score = %f, want sigmoid(3) > 0.9", r.LandmarkScore)
	}
	if r.Side() != "right" {
		t.Errorf("handedness %f should read as right hand", r.Handedness)
	}

	if !r.HasGesture || r.GestureLabel != "Victory" {
		t.Errorf("gesture label = %q (has=%v), want Victory", r.GestureLabel, r.HasGesture)
	}
}

func TestClassifierLandmarkSmoothing(t *testing.T) {
	cfg := config.Default().Detection
	classifier, err := New(cfg, newTestBackend(false))
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	classifier.staticEnabled = false

	frame := gocv.NewMatWithSize(cfg.InputSize, cfg.InputSize, gocv.MatTypeCV8UC3)
	defer frame.Close()

	prev := fullFrameRegion()
	prev.HasLandmarks = true
	for i := range prev.Landmarks {
		prev.Landmarks[i] = detector.Point3{X: 0.9, Y: 0.9, Z: 0}
	}

	r := fullFrameRegion()
	if err := classifier.Process(r, 0, frame, []*detector.HandRegion{prev}); err != nil {
		t.Fatalf("process: %v", err)
	}

	// Raw landmark 0 is (0,0); blended against (0.9,0.9) with alpha 0.8.
	want := cfg.SmoothingAlpha * 0.9
	if math.Abs(r.Landmarks[0].X-want) > 1e-6 {
		t.Errorf("smoothed landmark 0 X = %f, want %f", r.Landmarks[0].X, want)
	}
}

func TestClassifierDegradesWithoutStaticModels(t *testing.T) {
	cfg := config.Default().Detection
	cfg.EnableStaticGestures = true

	// Backend with only the landmark model: the classifier must degrade
	// to angle classification rather than fail.
	classifier, err := New(cfg, newTestBackend(false))
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	if classifier.staticEnabled {
		t.Error("expected static stage disabled when models are missing")
	}

	frame := gocv.NewMatWithSize(cfg.InputSize, cfg.InputSize, gocv.MatTypeCV8UC3)
	defer frame.Close()

	r := fullFrameRegion()
	if err := classifier.Process(r, 0, frame, nil); err != nil {
		t.Fatalf("process: %v", err)
	}
	if r.HasGesture {
		t.Error("expected no static gesture without classifier models")
	}
	if !r.HasLandmarks {
		t.Error("landmark stage should still run")
	}
}

func TestClassifierRequiresLandmarkModel(t *testing.T) {
	if _, err := New(config.Default().Detection, inference.NewMockBackend()); err == nil {
		t.Error("expected error when the landmark model is missing")
	}
}

func TestClassifierLandmarkFailureDropsRegion(t *testing.T) {
	backend := inference.NewMockBackend()
	backend.SetModel(inference.ModelHandLandmarks, &inference.MockModel{
		Err: errors.New("backend offline"),
	})

	cfg := config.Default().Detection
	cfg.EnableStaticGestures = false
	classifier, err := New(cfg, backend)
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}

	frame := gocv.NewMatWithSize(cfg.InputSize, cfg.InputSize, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if err := classifier.Process(fullFrameRegion(), 0, frame, nil); err == nil {
		t.Error("expected error so the region is dropped for the frame")
	}
}

func TestDropHistory(t *testing.T) {
	classifier := &Classifier{histories: map[int]*History{
		0: NewHistory(6),
		1: NewHistory(6),
		2: NewHistory(6),
	}}

	classifier.DropHistory(1)

	if _, ok := classifier.histories[0]; !ok {
		t.Error("slot 0 history should survive")
	}
	if _, ok := classifier.histories[1]; ok {
		t.Error("slot 1 history should be dropped")
	}
	if _, ok := classifier.histories[2]; ok {
		t.Error("slot 2 history should be dropped")
	}
}
