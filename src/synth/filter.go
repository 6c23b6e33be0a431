package synth

import (
	"fmt"
	"math"
)

// ----- Filter ----- //

// Filter is a per-voice resonant low-pass. Coefficients are pushed at control
// rate; Render runs once per sample.
type Filter interface {
	UpdateCoefficients(cutoff float64, q float64)
	Render(x float64) float64
	Reset()
}

// FilterKind selects the filter topology used by every voice.
type FilterKind int

const (
	FilterLadder FilterKind = iota
	FilterBiquad
)

const resonanceScale = 30.0

// ParseFilterKind ...
func ParseFilterKind(s string) (FilterKind, error) {
	switch s {
	case "ladder", "":
		return FilterLadder, nil
	case "biquad":
		return FilterBiquad, nil
	}
	return FilterLadder, fmt.Errorf("unknown filter kind %q", s)
}

func (k FilterKind) String() string {
	if k == FilterBiquad {
		return "biquad"
	}
	return "ladder"
}

func newFilter(kind FilterKind, sampleRate float64) Filter {
	if kind == FilterBiquad {
		return newBiquadFilter(sampleRate)
	}
	return newLadderFilter(sampleRate)
}

// normalizedResonance maps a filter Q into [0, 1].
func normalizedResonance(q float64) float64 {
	return clamp(q/resonanceScale, 0, 1)
}

// maxCutoff keeps the cutoff a little below Nyquist.
func maxCutoff(sampleRate float64) float64 {
	return sampleRate * 0.49
}

func clamp(x, lo, hi float64) float64 {
	if x < lo || math.IsNaN(x) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
