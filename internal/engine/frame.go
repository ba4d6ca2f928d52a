package engine

import (
	"fmt"
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/inference"
)

// run is the frame loop. It paces itself off the configured camera
// frame rate and exits when stopCh closes; a hung inference call simply
// blocks the loop until it returns.
func (e *Engine) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := e.cfg.Camera.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	windowStart := time.Now()
	windowFrames := 0

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if e.isPaused() {
				continue
			}

			if err := e.processFrame(time.Now()); err != nil {
				log.Printf("frame dropped: %v", err)
				continue
			}

			windowFrames++
			if elapsed := time.Since(windowStart); elapsed >= time.Second {
				e.mu.Lock()
				e.fps = float64(windowFrames) / elapsed.Seconds()
				e.mu.Unlock()
				windowStart = time.Now()
				windowFrames = 0
			}
		}
	}
}

// processFrame runs the full pipeline on one frame. A returned error
// means the whole frame was dropped; per-region failures are absorbed
// here and only drop the region.
func (e *Engine) processFrame(now time.Time) error {
	frame, err := e.camera.ReadFrame()
	if err != nil {
		return fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	inputSize := e.cfg.Detection.InputSize
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(*frame, &resized, image.Pt(inputSize, inputSize), 0, 0, gocv.InterpolationLinear)

	// The scheduler always advances, even when the fallbacks force
	// detection anyway.
	need := e.scheduler.Decide(len(e.prev), now)
	need = need || e.cfg.Detection.AlwaysRunPalmDetection ||
		detector.NeedsQualityRedetection(e.prev, e.cfg.Detection.LandmarkRedetectionScore)

	var regions []*detector.HandRegion
	if need {
		regions, err = e.detect(resized)
		if err != nil {
			return err
		}
		e.tracker.Smooth(regions, e.prev)
	} else {
		for _, r := range e.prev {
			regions = append(regions, r.Carry())
		}
	}

	detector.DeriveRects(regions)

	var processed []*detector.HandRegion
	var fired []string
	for i, r := range regions {
		if err := e.classifier.Process(r, len(processed), resized, e.prev); err != nil {
			log.Printf("dropping region %d: %v", i, err)
			continue
		}
		fired = append(fired, e.processor.Process(r, now)...)
		processed = append(processed, r)
	}
	e.processor.EndFrame()
	e.classifier.DropHistory(len(processed))
	e.prev = processed

	e.mu.Lock()
	e.frameCount++
	count := e.frameCount
	e.palmState = e.scheduler.State()
	e.mu.Unlock()

	e.publish(processed, fired, count, now)
	return nil
}

// detect runs the palm detector over the resized frame and returns the
// surviving candidate regions.
func (e *Engine) detect(resized gocv.Mat) ([]*detector.HandRegion, error) {
	tensor, err := classify.FrameTensor(resized)
	if err != nil {
		return nil, fmt.Errorf("frame tensor: %w", err)
	}

	outputs, err := e.palm.Infer(tensor)
	if err != nil {
		return nil, fmt.Errorf("palm inference: %w", err)
	}

	scores, ok := outputs[inference.OutputScores]
	if !ok {
		return nil, fmt.Errorf("palm score tensor missing")
	}
	regressors, ok := outputs[inference.OutputRegressors]
	if !ok {
		return nil, fmt.Errorf("palm regressor tensor missing")
	}

	regions, err := detector.DecodeBoxes(e.cfg.Detection.ScoreThreshold, scores.Data, regressors.Data, e.anchors, e.cfg.Detection.InputSize)
	if err != nil {
		return nil, fmt.Errorf("decode boxes: %w", err)
	}

	return detector.NonMaxSuppression(regions, e.cfg.Detection.NMSThreshold), nil
}

// publish fans the frame output out to the registered listeners.
func (e *Engine) publish(regions []*detector.HandRegion, fired []string, count uint64, now time.Time) {
	listeners := e.snapshotListeners()
	if len(listeners) == 0 {
		return
	}

	out := FrameOutput{
		Regions:    make([]detector.HandRegion, len(regions)),
		Fired:      fired,
		FrameCount: count,
		Timestamp:  now,
	}
	for i, r := range regions {
		out.Regions[i] = *r
	}

	for _, l := range listeners {
		l(out)
	}
}
