package effector

import (
	"fmt"
	"strings"
	"sync"
)

// Recorder is an Effector that records every call for assertions in
// tests. Calls are rendered as strings like "key:space" or "move:10,20".
type Recorder struct {
	mu    sync.Mutex
	Calls []string
	Err   error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Calls = append(r.Calls, call)
	return nil
}

func (r *Recorder) PressKey(key string) error {
	return r.record("key:" + key)
}

func (r *Recorder) Hotkey(keys ...string) error {
	return r.record("hotkey:" + strings.Join(keys, "+"))
}

func (r *Recorder) Click(button Button) error {
	if !ValidButton(button) {
		return ErrInvalidButton(button)
	}
	return r.record("click:" + string(button))
}

func (r *Recorder) MoveMouse(x, y int) error {
	return r.record(fmt.Sprintf("move:%d,%d", x, y))
}

func (r *Recorder) Scroll(amount int) error {
	return r.record(fmt.Sprintf("scroll:%d", amount))
}

// Recorded returns a copy of the recorded calls.
func (r *Recorder) Recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Calls))
	copy(out, r.Calls)
	return out
}

// Reset clears the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = nil
}
