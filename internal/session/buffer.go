// Package session implements the interactive recording controller for
// sign-language clip collection: the session state machine, the in-memory
// clip buffer, and the retake quality heuristic.
package session

import (
	"errors"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
)

// ErrClipTooLong is returned by Append when the buffer has reached its
// configured frame cap.
var ErrClipTooLong = errors.New("clip exceeds maximum frame count")

// DetectionSample summarizes hand detection for one captured frame.
type DetectionSample struct {
	// Count is the number of hands detected in the frame (0, 1, or 2).
	Count int

	// Confidences holds the per-hand detection scores, aligned with Count.
	Confidences []float64
}

// SampleFromHands builds a DetectionSample from a detector result.
func SampleFromHands(hands []detector.HandLandmarks) DetectionSample {
	sample := DetectionSample{Count: len(hands)}
	for _, h := range hands {
		sample.Confidences = append(sample.Confidences, h.Score)
	}
	return sample
}

// ClipBuffer holds the raw frames of the take currently being recorded,
// plus an aligned per-frame detection log. It is exclusively owned by the
// Controller; all access happens on the tick loop.
//
// Invariant: len(frames) == len(samples) at all times.
type ClipBuffer struct {
	frames    []capture.Frame
	samples   []DetectionSample
	maxFrames int
}

// NewClipBuffer creates an empty buffer. maxFrames caps the number of
// buffered frames; 0 means unlimited.
func NewClipBuffer(maxFrames int) *ClipBuffer {
	return &ClipBuffer{maxFrames: maxFrames}
}

// Append adds a frame and its detection sample to the buffer, taking
// ownership of the frame. Returns ErrClipTooLong when the cap is reached,
// in which case the frame is not appended and remains owned by the caller.
func (b *ClipBuffer) Append(frame capture.Frame, sample DetectionSample) error {
	if b.maxFrames > 0 && len(b.frames) >= b.maxFrames {
		return ErrClipTooLong
	}
	b.frames = append(b.frames, frame)
	b.samples = append(b.samples, sample)
	return nil
}

// Len returns the number of buffered frames.
func (b *ClipBuffer) Len() int {
	return len(b.frames)
}

// Frames returns the buffered frames in append order. The returned slice
// is a read-only view; the buffer retains ownership of the frames.
func (b *ClipBuffer) Frames() []capture.Frame {
	return b.frames
}

// Samples returns the detection log in append order, aligned with Frames.
// The returned slice is a read-only view.
func (b *ClipBuffer) Samples() []DetectionSample {
	return b.samples
}

// Reset drops all buffered frames and samples, releasing frame memory.
// The buffer can be reused for the next take.
func (b *ClipBuffer) Reset() {
	for i := range b.frames {
		b.frames[i].Close()
	}
	b.frames = b.frames[:0]
	b.samples = b.samples[:0]
}
