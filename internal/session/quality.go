package session

import "errors"

// Default retake thresholds.
const (
	// DefaultZeroFracThreshold is the fraction of frames with no detected
	// hands above which a retake is suggested.
	DefaultZeroFracThreshold = 0.25
	// DefaultLowFracThreshold is the fraction of frames with at most one
	// detected hand above which a retake is suggested.
	DefaultLowFracThreshold = 0.50
)

// ErrClipEmpty is returned when a clip with no frames is evaluated or saved.
var ErrClipEmpty = errors.New("clip has no frames")

// Verdict is the quality assessment of a recorded clip. It is advisory:
// the controller saves the clip regardless and only surfaces the verdict
// to the operator.
type Verdict struct {
	// SuggestRetake is true when tracking coverage was poor enough that
	// re-recording the clip is recommended.
	SuggestRetake bool

	// ZeroFrac is the fraction of frames with zero detected hands.
	ZeroFrac float64

	// LowFrac is the fraction of frames with at most one detected hand.
	LowFrac float64

	// Frames is the number of samples the verdict was computed over.
	Frames int
}

// Assessor classifies a clip's detection log as acceptable or
// retake-suggested based on tracking coverage.
type Assessor struct {
	zeroFracThreshold float64
	lowFracThreshold  float64
}

// NewAssessor creates an Assessor with the given thresholds. Values less
// than or equal to 0 fall back to the defaults.
func NewAssessor(zeroFracThreshold, lowFracThreshold float64) *Assessor {
	if zeroFracThreshold <= 0 {
		zeroFracThreshold = DefaultZeroFracThreshold
	}
	if lowFracThreshold <= 0 {
		lowFracThreshold = DefaultLowFracThreshold
	}
	return &Assessor{
		zeroFracThreshold: zeroFracThreshold,
		lowFracThreshold:  lowFracThreshold,
	}
}

// Evaluate computes coverage statistics over the detection log and
// classifies the clip. A retake is suggested when either the zero-detection
// fraction or the low-detection fraction exceeds its threshold; the two
// conditions have no precedence between them.
// Returns ErrClipEmpty when the log is empty.
func (a *Assessor) Evaluate(samples []DetectionSample) (Verdict, error) {
	if len(samples) == 0 {
		return Verdict{}, ErrClipEmpty
	}

	var zero, low int
	for _, s := range samples {
		if s.Count == 0 {
			zero++
		}
		if s.Count <= 1 {
			low++
		}
	}

	n := float64(len(samples))
	v := Verdict{
		ZeroFrac: float64(zero) / n,
		LowFrac:  float64(low) / n,
		Frames:   len(samples),
	}
	v.SuggestRetake = v.ZeroFrac > a.zeroFracThreshold || v.LowFrac > a.lowFracThreshold

	return v, nil
}
