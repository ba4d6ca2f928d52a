package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-built frames for testing.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool

	// OpenErr, when set, is returned by Open to simulate a missing device.
	OpenErr error
}

func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.OpenErr != nil {
		return c.OpenErr
	}
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return nil, fmt.Errorf("no more frames")
		}
	}

	// Clone so the caller can close its copy freely.
	frame := c.frames[c.index].Clone()
	c.index++

	return &frame, nil
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
