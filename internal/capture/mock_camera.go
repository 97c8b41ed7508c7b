package capture

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing.
type MockCamera struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	fps     float64
	width   int
	height  int
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a MockCamera that plays back the given frames.
// When loop is true, playback restarts from the beginning after the
// last frame; otherwise ReadFrame reports ErrSourceUnavailable.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	m := &MockCamera{
		frames: frames,
		loop:   loop,
		fps:    15,
	}
	if len(frames) > 0 {
		m.width = frames[0].Cols()
		m.height = frames[0].Rows()
	}
	return m
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
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

func (c *MockCamera) ReadFrame() (Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return Frame{}, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return Frame{}, ErrSourceUnavailable
	}

	if c.index >= len(c.frames) {
		if c.loop {
			c.index = 0
		} else {
			return Frame{}, ErrSourceUnavailable
		}
	}

	// Clone the frame so the original isn't modified
	mat := c.frames[c.index].Clone()
	c.index++

	return Frame{Mat: &mat, Timestamp: time.Now()}, nil
}

func (c *MockCamera) FPS() float64 { return c.fps }
func (c *MockCamera) Width() int   { return c.width }
func (c *MockCamera) Height() int  { return c.height }

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFPS overrides the frame rate the mock reports.
func (c *MockCamera) SetFPS(fps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

// SetFrames replaces the frame sequence.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
	if len(frames) > 0 {
		c.width = frames[0].Cols()
		c.height = frames[0].Rows()
	}
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
