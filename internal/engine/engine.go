// Package engine runs the per-frame gesture pipeline: capture, palm
// detection scheduling, region tracking, landmark classification and
// action dispatch.
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/effector"
	"github.com/ayusman/mudra/internal/inference"
)

// Status is a snapshot of the engine's run state.
type Status struct {
	Running    bool    `json:"running"`
	Paused     bool    `json:"paused"`
	FrameCount uint64  `json:"frame_count"`
	FPS        float64 `json:"fps"`
	Mode       string  `json:"mode"`
	PalmState  string  `json:"palm_state"`
}

// FrameOutput is what listeners receive after each processed frame.
// Regions are value copies; listeners may keep them.
type FrameOutput struct {
	Regions    []detector.HandRegion `json:"regions"`
	Fired      []string              `json:"fired"`
	FrameCount uint64                `json:"frame_count"`
	Timestamp  time.Time             `json:"timestamp"`
}

// Listener consumes per-frame output. Listeners run on the frame loop
// goroutine and should hand work off quickly.
type Listener func(FrameOutput)

// Engine owns the frame loop and all per-frame mutable state. The
// region history, scheduler, classifier histories and control state are
// touched only by the loop goroutine; the mutex guards lifecycle and
// the published counters.
type Engine struct {
	cfg     config.Config
	camera  capture.Camera
	backend inference.Backend
	modes   *control.Manager
	eff     effector.Effector
	anchors []detector.Anchor

	mu         sync.RWMutex
	stopCh     chan struct{}
	doneCh     chan struct{}
	paused     bool
	frameCount uint64
	fps        float64
	palmState  detector.PalmState
	listeners  []Listener

	// Frame-loop-owned state, rebuilt on every Start.
	palm       inference.Model
	classifier *classify.Classifier
	tracker    *detector.Tracker
	scheduler  *detector.Scheduler
	processor  *control.Processor
	prev       []*detector.HandRegion
}

// New creates an Engine. Nothing is opened until Start.
func New(cfg config.Config, cam capture.Camera, backend inference.Backend, modes *control.Manager, eff effector.Effector) *Engine {
	return &Engine{
		cfg:       cfg,
		camera:    cam,
		backend:   backend,
		modes:     modes,
		eff:       eff,
		anchors:   detector.GenerateAnchors(cfg.Detection.InputSize),
		palmState: detector.StateNoHands,
	}
}

// AddListener registers a per-frame output consumer.
func (e *Engine) AddListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Modes returns the engine's mode manager.
func (e *Engine) Modes() *control.Manager {
	return e.modes
}

// Start acquires the camera and models and launches the frame loop.
// Starting a running engine is a no-op; a failed Start leaves the
// engine stopped and restartable.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopCh != nil {
		return nil
	}

	palm, err := e.backend.Model(inference.ModelPalmDetection)
	if err != nil {
		return fmt.Errorf("palm detection model: %w", err)
	}

	classifier, err := classify.New(e.cfg.Detection, e.backend)
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}

	if err := e.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	e.palm = palm
	e.classifier = classifier
	e.tracker = detector.NewTracker(e.cfg.Detection.DetectionSmoothingAlpha)
	e.scheduler = detector.NewScheduler(e.cfg.SmartPalm.GracePeriod(), e.cfg.SmartPalm.PeriodicCheckInterval)
	e.processor = control.NewProcessor(e.cfg.Control, e.modes, e.eff)
	e.prev = nil
	e.frameCount = 0
	e.fps = 0
	e.paused = false
	e.palmState = detector.StateNoHands

	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	go e.run(e.stopCh, e.doneCh)

	log.Println("Engine started")
	return nil
}

// Stop halts the frame loop at the next frame boundary and releases the
// camera. Stopping a stopped engine is a no-op; Start works again
// afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopCh == nil {
		e.mu.Unlock()
		return
	}
	close(e.stopCh)
	e.stopCh = nil
	done := e.doneCh
	e.mu.Unlock()

	<-done

	if err := e.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Engine stopped")
}

// Pause suspends frame processing without releasing any resources.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

// Resume continues frame processing after a pause.
func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Status returns a snapshot of the run state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Status{
		Running:    e.stopCh != nil,
		Paused:     e.paused,
		FrameCount: e.frameCount,
		FPS:        e.fps,
		Mode:       e.modes.CurrentKey(),
		PalmState:  string(e.palmState),
	}
}

func (e *Engine) isPaused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.paused
}

func (e *Engine) snapshotListeners() []Listener {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Listener, len(e.listeners))
	copy(out, e.listeners)
	return out
}
