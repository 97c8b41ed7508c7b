// Package capture provides camera capture functionality using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// FallbackFPS is used when the camera driver reports an implausible
// frame rate (<= 0 or > 120).
const FallbackFPS = 30.0

// ErrCameraNotOpen is returned when trying to read from a camera that is not open.
var ErrCameraNotOpen = errors.New("camera is not open")

// ErrSourceUnavailable is returned when the camera cannot deliver frames,
// for example because the device was disconnected. Callers should treat
// this as fatal rather than retrying forever.
var ErrSourceUnavailable = errors.New("camera source unavailable")

// Frame is a single captured video frame at the camera's native resolution.
// The caller owns the Mat and must Close it when done.
type Frame struct {
	Mat       *gocv.Mat
	Timestamp time.Time
}

// Close releases the pixel buffer held by the frame.
func (f *Frame) Close() {
	if f.Mat != nil {
		f.Mat.Close()
		f.Mat = nil
	}
}

// Clone returns a deep copy of the frame with its own pixel buffer.
func (f *Frame) Clone() Frame {
	mat := f.Mat.Clone()
	return Frame{Mat: &mat, Timestamp: f.Timestamp}
}

// Camera defines the interface for camera capture implementations.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (Frame, error)
	FPS() float64
	Width() int
	Height() int
	IsOpen() bool
}

// cameraImpl manages video capture from a camera device using GoCV.
// Frames are delivered at the device's native resolution and frame rate.
type cameraImpl struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      float64
	width    int
	height   int
}

// NewCamera creates a new Camera with the given device ID.
func NewCamera(deviceID int) Camera {
	return &cameraImpl{
		deviceID: deviceID,
		running:  false,
		capture:  nil,
	}
}

// Open opens the camera and probes its native resolution and frame rate.
func (c *cameraImpl) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.deviceID, err)
	}

	c.fps = capture.Get(gocv.VideoCaptureFPS)
	if c.fps <= 0 || c.fps > 120 {
		c.fps = FallbackFPS
	}
	c.width = int(capture.Get(gocv.VideoCaptureFrameWidth))
	c.height = int(capture.Get(gocv.VideoCaptureFrameHeight))

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
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

// ReadFrame reads a single frame from the camera, stamped with the time of
// capture. The caller is responsible for closing the returned frame.
func (c *cameraImpl) ReadFrame() (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return Frame{}, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return Frame{}, ErrSourceUnavailable
	}

	if mat.Empty() {
		mat.Close()
		return Frame{}, ErrSourceUnavailable
	}

	return Frame{Mat: &mat, Timestamp: time.Now()}, nil
}

// FPS returns the camera's native frame rate. Valid after Open.
func (c *cameraImpl) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// Width returns the native frame width in pixels. Valid after Open.
func (c *cameraImpl) Width() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.width
}

// Height returns the native frame height in pixels. Valid after Open.
func (c *cameraImpl) Height() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.height
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraImpl) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}
