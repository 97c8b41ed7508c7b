package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera(t *testing.T) {
	cam := NewCamera(0)
	if cam == nil {
		t.Fatal("NewCamera returned nil")
	}
	if cam.IsOpen() {
		t.Error("new camera should not be open")
	}
}

func TestReadFrame_NotOpen(t *testing.T) {
	cam := NewCamera(0)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestClose_NotOpened(t *testing.T) {
	cam := NewCamera(0)
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on an unopened camera failed: %v", err)
	}
}

func TestFrame_CloseIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Mat-backed test in short mode")
	}

	mat := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	f := Frame{Mat: &mat}

	f.Close()
	if f.Mat != nil {
		t.Error("Close should nil the Mat")
	}
	f.Close() // second Close must not panic
}

func TestFrame_Clone(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Mat-backed test in short mode")
	}

	mat := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	f := Frame{Mat: &mat}
	defer f.Close()

	clone := f.Clone()
	defer clone.Close()

	if clone.Mat == f.Mat {
		t.Error("Clone should allocate its own Mat")
	}
	if clone.Mat.Rows() != 4 || clone.Mat.Cols() != 4 {
		t.Errorf("clone dimensions = %dx%d, want 4x4", clone.Mat.Cols(), clone.Mat.Rows())
	}
}

// TestCamera_Integration requires a physical camera and is skipped in
// short mode or when no device is attached.
func TestCamera_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping camera integration test in short mode")
	}

	cam := NewCamera(0)
	if err := cam.Open(); err != nil {
		t.Skipf("no camera available: %v", err)
	}
	defer cam.Close()

	if !cam.IsOpen() {
		t.Fatal("camera should report open after Open()")
	}
	if cam.FPS() <= 0 || cam.FPS() > 120 {
		t.Errorf("FPS() = %v, want a plausible value", cam.FPS())
	}

	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	defer f.Close()

	if f.Mat.Empty() {
		t.Error("captured frame is empty")
	}
	if f.Timestamp.IsZero() {
		t.Error("captured frame has no timestamp")
	}
}
