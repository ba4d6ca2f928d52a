// Package capture provides camera capture using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/config"
)

// ErrCameraNotOpen is returned when reading from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// Camera defines the interface for frame sources. ReadFrame blocks until
// a frame is available; the caller closes the returned Mat.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// cameraImpl captures BGR frames from a camera device using GoCV.
type cameraImpl struct {
	cfg     config.Camera
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewCamera creates a Camera for the configured device. Resolution and
// frame rate are applied when the device opens.
func NewCamera(cfg config.Camera) Camera {
	return &cameraImpl{cfg: cfg}
}

// Open opens the camera device. Opening an already open camera is a no-op,
// which makes engine restart idempotent.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.cfg.DeviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.cfg.DeviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(c.cfg.Width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(c.cfg.Height))
	capture.Set(gocv.VideoCaptureFPS, float64(c.cfg.FPS))

	c.capture = capture
	c.running = true

	return nil
}

// Close releases the camera device.
func (c *cameraImpl) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads one frame from the camera.
func (c *cameraImpl) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// IsOpen reports whether the camera is currently open.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
