package view

import "time"

// Viewport is implemented by rendering surfaces that can move their camera.
type Viewport interface {
	// CenterAndZoom is a one-shot animation request. The core does not track
	// the camera afterwards.
	CenterAndZoom(x, y, zoom float64, duration time.Duration)
}

// CameraSettings configure the move issued after a successful search.
type CameraSettings struct {
	Zoom     float64
	Duration time.Duration
}

// DefaultCameraSettings returns zoom 4 over one second.
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{Zoom: DefaultSearchZoom, Duration: DefaultSearchDuration}
}

// Camera is a recorded CenterAndZoom request.
type Camera struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Zoom       float64 `json:"zoom"`
	DurationMS int64   `json:"durationMs"`
}

// Duration returns the transition length.
func (c Camera) Duration() time.Duration {
	return time.Duration(c.DurationMS) * time.Millisecond
}

// CameraRecorder is a Viewport that remembers the last request. Adapters
// that answer over a request/response boundary use it to forward the move.
type CameraRecorder struct {
	last *Camera
}

// CenterAndZoom records the request.
func (r *CameraRecorder) CenterAndZoom(x, y, zoom float64, duration time.Duration) {
	r.last = &Camera{X: x, Y: y, Zoom: zoom, DurationMS: duration.Milliseconds()}
}

// Take returns the pending request, if any, and clears it.
func (r *CameraRecorder) Take() (Camera, bool) {
	if r.last == nil {
		return Camera{}, false
	}
	c := *r.last
	r.last = nil
	return c, true
}
