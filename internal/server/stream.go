package server

import (
	"fmt"
	"net/http"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
)

const defaultStreamFPS = 15

// StreamHandler serves a debug MJPEG preview straight from the camera.
// It shares the device with the engine, so preview clients see whatever
// frames they win from the frame loop. While the engine is paused the
// preview idles instead of draining the camera.
type StreamHandler struct {
	camera   capture.Camera
	interval time.Duration
	paused   func() bool
}

// NewStreamHandler creates a StreamHandler pacing frames at the given
// rate (<=0 falls back to the default). paused may be nil when no
// engine is attached.
func NewStreamHandler(camera capture.Camera, fps int, paused func() bool) *StreamHandler {
	if fps <= 0 {
		fps = defaultStreamFPS
	}
	return &StreamHandler{
		camera:   camera,
		interval: time.Second / time.Duration(fps),
		paused:   paused,
	}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		if h.paused != nil && h.paused() {
			time.Sleep(h.interval)
			continue
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(h.interval)
	}
}
