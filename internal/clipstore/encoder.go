package clipstore

import (
	"errors"
	"fmt"

	"github.com/ayusman/mudra/internal/capture"
	"gocv.io/x/gocv"
)

// Encoder writes a frame sequence to a video file at the given path.
type Encoder interface {
	Encode(path string, frames []capture.Frame, fps float64) error
}

// VideoEncoder encodes frames as an mp4v video using GoCV's VideoWriter.
// Frames are written at their native resolution; the resolution of the
// first frame sets the clip dimensions.
type VideoEncoder struct{}

// Encode writes the frames to path.
func (e *VideoEncoder) Encode(path string, frames []capture.Frame, fps float64) error {
	if len(frames) == 0 {
		return errors.New("no frames to encode")
	}

	width := frames[0].Mat.Cols()
	height := frames[0].Mat.Rows()

	writer, err := gocv.VideoWriterFile(path, "mp4v", fps, width, height, true)
	if err != nil {
		return fmt.Errorf("open video writer: %w", err)
	}
	defer writer.Close()

	for i := range frames {
		if err := writer.Write(*frames[i].Mat); err != nil {
			return fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	return nil
}
