// Package inference provides the opaque tensor-in/tensor-out model backend
// used by the detection and classification stages.
package inference

import "errors"

// ErrModelNotFound is returned when a named model is not loaded.
var ErrModelNotFound = errors.New("model not found")

// Model names the engine asks the backend for.
const (
	ModelPalmDetection     = "palm_detection"
	ModelHandLandmarks     = "hand_landmarks"
	ModelGestureEmbedder   = "gesture_embedder"
	ModelGestureClassifier = "gesture_classifier"
)

// Output tensor names shared by the bundled models.
const (
	OutputRegressors = "Identity"   // palm detector box/keypoint regression
	OutputScores     = "Identity_1" // palm detector per-anchor scores
	OutputLandmarks  = "Identity"   // landmark model 21x3 coordinates
	OutputScore      = "Identity_1" // landmark model confidence
	OutputHandedness = "Identity_2" // landmark model handedness logit
	OutputEmbedding  = "Identity"   // gesture embedder feature vector
	OutputClasses    = "Identity"   // gesture classifier per-label scores
)

// Tensor is a dense float tensor in row-major order.
type Tensor struct {
	Data  []float32
	Shape []int
}

// Len returns the number of elements implied by the shape.
func (t Tensor) Len() int {
	if len(t.Shape) == 0 {
		return 0
	}
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Model is one compiled model. Invocations are synchronous and have no
// timeout: a hung call blocks the caller by design.
type Model interface {
	// Infer runs the model on a single batched input tensor and returns
	// its named output tensors.
	Infer(input Tensor) (map[string]Tensor, error)
}

// Backend exposes named compiled models. Initialization is one-shot;
// after it succeeds, model handles are read-only and safe to share.
type Backend interface {
	// Model returns a handle to a named model, or ErrModelNotFound.
	Model(name string) (Model, error)

	// Close releases backend resources.
	Close() error
}
