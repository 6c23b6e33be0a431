package synth

import (
	"math"
	"testing"
)

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectTrue(t *testing.T, actual bool, message string) {
	t.Helper()
	if !actual {
		t.Error(message)
	}
}

func noteOnEvent(offset int, note, velocity byte) Event {
	return Event{Offset: offset, Status: 0x90, Data1: note, Data2: velocity}
}

func noteOffEvent(offset int, note byte) Event {
	return Event{Offset: offset, Status: 0x80, Data1: note}
}

func countActive(s *Synth) int {
	n := 0
	for i := range s.voices {
		if s.voices[i].IsActive() {
			n++
		}
	}
	return n
}

func newSynthWith(c Controls) *Synth {
	s := New(FilterLadder)
	s.SetControls(c)
	block := make([]float64, 16)
	s.ProcessBlock(block, nil, nil)
	return s
}
