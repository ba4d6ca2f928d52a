// Package config holds the engine configuration snapshot. A snapshot is
// loaded once, passed by value, and never mutated while a frame loop is
// running; Load produces a fresh snapshot on reload.
package config

import "time"

// Detection holds the core per-frame detection parameters.
type Detection struct {
	// InputSize is the square model input resolution in pixels.
	InputSize int `json:"input_size"`

	// ScoreThreshold discards palm detections below this confidence.
	ScoreThreshold float64 `json:"score_threshold"`

	// NMSThreshold is the IOU cutoff for non-max suppression.
	NMSThreshold float64 `json:"nms_threshold"`

	// SmoothingAlpha is the EMA weight applied to landmarks of a region
	// matched against the previous frame.
	SmoothingAlpha float64 `json:"smoothing_alpha"`

	// IOUMatchThreshold is the minimum IOU for landmark smoothing matches.
	IOUMatchThreshold float64 `json:"iou_match_threshold"`

	// DetectionSmoothingAlpha is the EMA weight for detection boxes.
	DetectionSmoothingAlpha float64 `json:"detection_smoothing_alpha"`

	// GestureSmoothingFrames is the capacity of the per-region label
	// history used for majority-vote smoothing.
	GestureSmoothingFrames int `json:"gesture_smoothing_frames"`

	// LandmarkRedetectionScore forces palm redetection when any tracked
	// region's landmark score falls below it.
	LandmarkRedetectionScore float64 `json:"landmark_score_for_palm_redetection_threshold"`

	// AlwaysRunPalmDetection bypasses the redetection scheduler entirely.
	AlwaysRunPalmDetection bool `json:"always_run_palm_detection"`

	// EnableLandmarks toggles the landmark model stage.
	EnableLandmarks bool `json:"enable_landmarks"`

	// EnableStaticGestures toggles the embedder+classifier stage.
	EnableStaticGestures bool `json:"enable_static_gestures"`

	// EnableFingerDetection toggles angle-based gesture typing.
	EnableFingerDetection bool `json:"enable_finger_detection"`
}

// SmartPalm holds the redetection scheduler settings.
type SmartPalm struct {
	// GracePeriodSeconds is how long a single hand must persist before
	// the scheduler stops running detection every frame.
	GracePeriodSeconds float64 `json:"grace_period_duration"`

	// PeriodicCheckInterval is the number of stable frames between
	// forced detections that look for a second hand.
	PeriodicCheckInterval int `json:"periodic_check_interval"`
}

// GracePeriod returns the grace period as a duration.
func (s SmartPalm) GracePeriod() time.Duration {
	return time.Duration(s.GracePeriodSeconds * float64(time.Second))
}

// Control holds the continuous cursor and scroll controller settings.
type Control struct {
	EnableCursorControl bool    `json:"enable_cursor_control"`
	CursorSmoothing     float64 `json:"cursor_smoothing"`
	ScreenWidth         int     `json:"screen_width"`
	ScreenHeight        int     `json:"screen_height"`

	EnableScrollControl bool    `json:"enable_scroll_control"`
	ScrollSensitivity   float64 `json:"scroll_sensitivity"`
	ScrollThreshold     float64 `json:"scroll_threshold"`

	// ScrollHandPreference is "any", "left" or "right".
	ScrollHandPreference string `json:"scroll_hand_preference"`
}

// Modes holds the application-mode switching settings.
type Modes struct {
	// SwitchCooldownSeconds is the minimum time between mode switches.
	SwitchCooldownSeconds float64 `json:"mode_switch_cooldown"`

	// ToggleCooldownSeconds is the minimum time between right-hand
	// cursor/scroll toggles inside browser mode.
	ToggleCooldownSeconds float64 `json:"browser_toggle_cooldown"`
}

// SwitchCooldown returns the mode switch cooldown as a duration.
func (m Modes) SwitchCooldown() time.Duration {
	return time.Duration(m.SwitchCooldownSeconds * float64(time.Second))
}

// ToggleCooldown returns the right-hand toggle cooldown as a duration.
func (m Modes) ToggleCooldown() time.Duration {
	return time.Duration(m.ToggleCooldownSeconds * float64(time.Second))
}

// Camera holds capture device settings.
type Camera struct {
	DeviceID int `json:"device_id"`
	Width    int `json:"width"`
	Height   int `json:"height"`
	FPS      int `json:"fps"`
}

// Config is the full engine configuration snapshot.
type Config struct {
	Detection Detection `json:"detection"`
	SmartPalm SmartPalm `json:"smart_palm"`
	Control   Control   `json:"control_system"`
	Modes     Modes     `json:"app_modes"`
	Camera    Camera    `json:"camera"`
}

// Default returns a Config with the stock thresholds and toggles.
func Default() Config {
	return Config{
		Detection: Detection{
			InputSize:                192,
			ScoreThreshold:           0.75,
			NMSThreshold:             0.3,
			SmoothingAlpha:           0.8,
			IOUMatchThreshold:        0.3,
			DetectionSmoothingAlpha:  0.7,
			GestureSmoothingFrames:   6,
			LandmarkRedetectionScore: 0.7,
			AlwaysRunPalmDetection:   false,
			EnableLandmarks:          true,
			EnableStaticGestures:     true,
			EnableFingerDetection:    true,
		},
		SmartPalm: SmartPalm{
			GracePeriodSeconds:    0.5,
			PeriodicCheckInterval: 30,
		},
		Control: Control{
			EnableCursorControl:  false,
			CursorSmoothing:      0.7,
			ScreenWidth:          1920,
			ScreenHeight:         1080,
			EnableScrollControl:  false,
			ScrollSensitivity:    6,
			ScrollThreshold:      0.1,
			ScrollHandPreference: "any",
		},
		Modes: Modes{
			SwitchCooldownSeconds: 2.0,
			ToggleCooldownSeconds: 1.0,
		},
		Camera: Camera{
			DeviceID: 0,
			Width:    640,
			Height:   480,
			FPS:      30,
		},
	}
}
