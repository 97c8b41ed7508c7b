package session

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

// samplesWithCounts builds a detection log from per-frame hand counts.
func samplesWithCounts(counts ...int) []DetectionSample {
	samples := make([]DetectionSample, len(counts))
	for i, c := range counts {
		samples[i] = DetectionSample{Count: c}
		for j := 0; j < c; j++ {
			samples[i].Confidences = append(samples[i].Confidences, 0.9)
		}
	}
	return samples
}

func TestAssessor_Evaluate(t *testing.T) {
	assessor := NewAssessor(DefaultZeroFracThreshold, DefaultLowFracThreshold)

	tests := []struct {
		name         string
		counts       []int
		wantRetake   bool
		wantZeroFrac float64
		wantLowFrac  float64
	}{
		{
			name:         "all frames two hands",
			counts:       []int{2, 2, 2, 2, 2},
			wantRetake:   false,
			wantZeroFrac: 0.0,
			wantLowFrac:  0.0,
		},
		{
			name:         "all frames zero hands",
			counts:       []int{0, 0, 0},
			wantRetake:   true,
			wantZeroFrac: 1.0,
			wantLowFrac:  1.0,
		},
		{
			name:         "zero fraction just above threshold",
			counts:       []int{0, 0, 2, 2, 2, 2, 2, 2, 2, 2}, // zero_frac = 0.3 > 0.25
			wantRetake:   true,
			wantZeroFrac: 0.3,
			wantLowFrac:  0.3,
		},
		{
			name:         "zero fraction exactly at threshold is accepted",
			counts:       []int{0, 2, 2, 2}, // zero_frac = 0.25, not > 0.25
			wantRetake:   false,
			wantZeroFrac: 0.25,
			wantLowFrac:  0.25,
		},
		{
			name:         "low fraction just above threshold",
			counts:       []int{1, 1, 1, 1, 1, 1, 2, 2, 2, 2}, // low_frac = 0.6 > 0.5
			wantRetake:   true,
			wantZeroFrac: 0.0,
			wantLowFrac:  0.6,
		},
		{
			name:         "low fraction exactly at threshold is accepted",
			counts:       []int{1, 2, 1, 2}, // low_frac = 0.5, not > 0.5
			wantRetake:   false,
			wantZeroFrac: 0.0,
			wantLowFrac:  0.5,
		},
		{
			name:         "single frame with two hands",
			counts:       []int{2},
			wantRetake:   false,
			wantZeroFrac: 0.0,
			wantLowFrac:  0.0,
		},
		{
			name:         "single frame with no hands",
			counts:       []int{0},
			wantRetake:   true,
			wantZeroFrac: 1.0,
			wantLowFrac:  1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := assessor.Evaluate(samplesWithCounts(tt.counts...))
			if err != nil {
				t.Fatalf("Evaluate() failed: %v", err)
			}

			if verdict.SuggestRetake != tt.wantRetake {
				t.Errorf("SuggestRetake = %v, want %v", verdict.SuggestRetake, tt.wantRetake)
			}
			if math.Abs(verdict.ZeroFrac-tt.wantZeroFrac) > epsilon {
				t.Errorf("ZeroFrac = %f, want %f", verdict.ZeroFrac, tt.wantZeroFrac)
			}
			if math.Abs(verdict.LowFrac-tt.wantLowFrac) > epsilon {
				t.Errorf("LowFrac = %f, want %f", verdict.LowFrac, tt.wantLowFrac)
			}
			if verdict.Frames != len(tt.counts) {
				t.Errorf("Frames = %d, want %d", verdict.Frames, len(tt.counts))
			}
		})
	}
}

func TestAssessor_Evaluate_EmptyClip(t *testing.T) {
	assessor := NewAssessor(DefaultZeroFracThreshold, DefaultLowFracThreshold)

	_, err := assessor.Evaluate(nil)
	if !errors.Is(err, ErrClipEmpty) {
		t.Errorf("Evaluate(nil) error = %v, want ErrClipEmpty", err)
	}

	_, err = assessor.Evaluate([]DetectionSample{})
	if !errors.Is(err, ErrClipEmpty) {
		t.Errorf("Evaluate(empty) error = %v, want ErrClipEmpty", err)
	}
}

func TestAssessor_CustomThresholds(t *testing.T) {
	// A strict assessor that tolerates almost no dropped frames.
	assessor := NewAssessor(0.05, 0.10)

	verdict, err := assessor.Evaluate(samplesWithCounts(0, 2, 2, 2, 2, 2, 2, 2, 2, 2)) // zero_frac = 0.1
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if !verdict.SuggestRetake {
		t.Error("strict thresholds should suggest retake at zero_frac=0.1")
	}

	// The same clip passes with the defaults.
	relaxed := NewAssessor(DefaultZeroFracThreshold, DefaultLowFracThreshold)
	verdict, err = relaxed.Evaluate(samplesWithCounts(0, 2, 2, 2, 2, 2, 2, 2, 2, 2))
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if verdict.SuggestRetake {
		t.Error("default thresholds should accept zero_frac=0.1")
	}
}

func TestNewAssessor_DefaultsOnZero(t *testing.T) {
	assessor := NewAssessor(0, 0)

	if assessor.zeroFracThreshold != DefaultZeroFracThreshold {
		t.Errorf("zeroFracThreshold = %f, want %f", assessor.zeroFracThreshold, DefaultZeroFracThreshold)
	}
	if assessor.lowFracThreshold != DefaultLowFracThreshold {
		t.Errorf("lowFracThreshold = %f, want %f", assessor.lowFracThreshold, DefaultLowFracThreshold)
	}
}
