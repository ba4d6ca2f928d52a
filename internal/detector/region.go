// Package detector turns raw palm-detector output into tracked hand
// regions: anchor decoding, non-max suppression, cross-frame smoothing and
// the redetection scheduler.
package detector

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumKeypoints is the number of palm keypoints emitted by the detector.
const NumKeypoints = 7

// Point2 is a 2D point in normalized model-input coordinates.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3 is a 3D point in normalized model-input coordinates.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FingerState classifies a finger's bend angle.
type FingerState string

const (
	FingerRelaxed  FingerState = "RELAXED"
	FingerBent     FingerState = "BENT"
	FingerExtended FingerState = "EXTENDED"
)

// GestureType is the angle-based gesture classification of a region.
type GestureType string

const (
	GestureNone            GestureType = "none"
	GestureIndexOnly       GestureType = "index_only"
	GestureIndexMiddleBoth GestureType = "index_middle_both"
)

// HandRegion is one tracked hand. A region is created from a detection (or
// carried forward by the tracker), mutated in place as pipeline stages run,
// and the full set is replaced wholesale at each frame boundary. The Has*
// flags record which stages have populated their fields.
type HandRegion struct {
	// Detection stage.
	Box       [4]float64             `json:"box"` // normalized x, y, w, h
	Score     float64                `json:"score"`
	Keypoints [NumKeypoints]Point2   `json:"keypoints"`

	// Rotated rectangle derived from the box and keypoints.
	RectCenter Point2     `json:"rect_center"`
	RectSize   float64    `json:"rect_size"`
	Rotation   float64    `json:"rotation"` // radians
	RectPoints [4]Point2  `json:"rect_points"`

	// Landmark stage.
	HasLandmarks  bool                  `json:"has_landmarks"`
	Landmarks     [NumLandmarks]Point3  `json:"landmarks"`
	LandmarkScore float64               `json:"landmark_score"`
	Handedness    float64               `json:"handedness"` // > 0.5 means right

	// Static gesture stage.
	HasGesture        bool    `json:"has_gesture"`
	GestureLabel      string  `json:"gesture_label"`
	GestureConfidence float64 `json:"gesture_confidence"`

	// Angle-based gesture stage.
	IndexAngle           float64     `json:"index_angle"`
	MiddleAngle          float64     `json:"middle_angle"`
	IndexState           FingerState `json:"index_state"`
	MiddleState          FingerState `json:"middle_state"`
	FingerAngle          float64     `json:"finger_angle_between"`
	FingersParallel      bool        `json:"fingers_parallel"`
	FingersPerpendicular bool        `json:"fingers_perpendicular"`
	Gesture              GestureType `json:"gesture_type"`
	HandSide             string      `json:"hand_side"` // "left" or "right"
}

// Carry returns a fresh region holding only the detection-stage fields of
// r, ready to be reprocessed on a frame that skips palm detection.
func (r *HandRegion) Carry() *HandRegion {
	return &HandRegion{
		Box:       r.Box,
		Score:     r.Score,
		Keypoints: r.Keypoints,
	}
}

// Side returns "right" or "left" from the handedness score.
func (r *HandRegion) Side() string {
	if r.Handedness > 0.5 {
		return "right"
	}
	return "left"
}
