package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, either as a fixed
// result or as a per-frame sequence.
type MockDetector struct {
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	seqIndex int
	err      error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.sequence = nil
	m.seqIndex = 0
}

// SetSequence sets per-frame detection results. Each Detect call returns
// the next entry; the last entry repeats once the sequence is exhausted.
func (m *MockDetector) SetSequence(sequence [][]HandLandmarks) {
	m.sequence = sequence
	m.seqIndex = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		hands := m.sequence[m.seqIndex]
		if m.seqIndex < len(m.sequence)-1 {
			m.seqIndex++
		}
		return hands, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OneHand returns a single detected hand with the given confidence score.
// Landmark positions are a rough open palm; callers that only care about
// detection counts can ignore them.
func OneHand(score float64) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      score,
	}

	lm.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}
	lm.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}
	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}
	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}
	lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}
	lm.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return lm
}

// TwoHands returns a left/right pair of detected hands, both with the
// given confidence score.
func TwoHands(score float64) []HandLandmarks {
	right := OneHand(score)

	left := OneHand(score)
	left.Handedness = "Left"
	for i := 0; i < NumLandmarks; i++ {
		left.Points[i].X = 1.0 - left.Points[i].X
	}

	return []HandLandmarks{left, right}
}
