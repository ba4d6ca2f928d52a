package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a configuration file and returns a snapshot with file values
// layered over the defaults. A missing file is not an error; the defaults
// are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// Save writes the snapshot to path, creating parent directories as needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Validate checks that thresholds, weights and dimensions are in range.
func (c Config) Validate() error {
	d := c.Detection
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"score_threshold", d.ScoreThreshold},
		{"nms_threshold", d.NMSThreshold},
		{"smoothing_alpha", d.SmoothingAlpha},
		{"iou_match_threshold", d.IOUMatchThreshold},
		{"detection_smoothing_alpha", d.DetectionSmoothingAlpha},
		{"landmark_score_for_palm_redetection_threshold", d.LandmarkRedetectionScore},
		{"cursor_smoothing", c.Control.CursorSmoothing},
	} {
		if v.value < 0 || v.value > 1 {
			return fmt.Errorf("config: %s must be between 0 and 1, got %g", v.name, v.value)
		}
	}

	if d.InputSize <= 0 {
		return fmt.Errorf("config: input_size must be positive, got %d", d.InputSize)
	}
	if d.GestureSmoothingFrames < 1 {
		return fmt.Errorf("config: gesture_smoothing_frames must be at least 1, got %d", d.GestureSmoothingFrames)
	}
	if c.Control.ScreenWidth <= 0 || c.Control.ScreenHeight <= 0 {
		return fmt.Errorf("config: screen dimensions must be positive, got %dx%d",
			c.Control.ScreenWidth, c.Control.ScreenHeight)
	}

	switch c.Control.ScrollHandPreference {
	case "any", "left", "right":
	default:
		return fmt.Errorf("config: scroll_hand_preference must be any, left or right, got %q",
			c.Control.ScrollHandPreference)
	}

	return nil
}
