package synth

import (
	"math"
	"testing"
)

func TestCalcPeriod(t *testing.T) {
	s := New(FilterLadder)
	period := s.calcPeriod(0, 69)
	if math.Abs(period/(44100.0/440)-1) > 1e-4 {
		t.Errorf("A4 should be 440Hz, but period is %v", period)
	}
	expectTrue(t, s.calcPeriod(1, 69) < period, "voices should be slightly detuned")

	high := s.calcPeriod(0, 127)
	expectTrue(t, high >= minPeriod, "period should be raised to the minimum")
	expectNearlyEqual(t, high, 2*s.coef.Tune*math.Exp(-noteToPeriod*127))
}

func TestCalcPeriodRespectsDetune(t *testing.T) {
	p := DefaultParams()
	p.OscTune = 24
	s := newSynthWith(p)
	period := s.calcPeriod(0, 127)
	expectTrue(t, period*s.coef.Detune >= minPeriod, "second oscillator period should be raised too")
}

func TestCalcPeriodWithBrokenTune(t *testing.T) {
	s := New(FilterLadder)
	s.coef.Tune = 0
	expectEqual(t, s.calcPeriod(0, 60), minPeriod)
	s.coef.Tune = math.NaN()
	expectEqual(t, s.calcPeriod(0, 60), minPeriod)
}

func TestSampleAccurateNoteOn(t *testing.T) {
	s := New(FilterLadder)
	left := make([]float64, 256)
	right := make([]float64, 256)
	s.ProcessBlock(left, right, []Event{noteOnEvent(100, 60, 100)})
	for i := 0; i < 100; i++ {
		if left[i] != 0 || right[i] != 0 {
			t.Fatalf("sample %v should be silent before the event", i)
		}
	}
	sounding := false
	for i := 100; i < 256; i++ {
		if left[i] != 0 && right[i] != 0 {
			sounding = true
		}
	}
	expectTrue(t, sounding, "note should sound from the event on")
	expectEqual(t, s.ActiveVoices(), 1)
	expectEqual(t, countActive(s), 1)
}

func TestEventsAtSameOffsetKeepArrivalOrder(t *testing.T) {
	s := New(FilterLadder)
	left := make([]float64, 256)
	events := []Event{
		noteOnEvent(20, 62, 100),
		noteOnEvent(10, 60, 100),
		noteOffEvent(10, 60),
	}
	s.ProcessBlock(left, nil, events)
	expectEqual(t, events[0].Offset, 10)
	expectEqual(t, events[0].Status, byte(0x90))
	expectEqual(t, events[1].Status, byte(0x80))
	expectEqual(t, s.voices[0].Note(), -1)
	expectEqual(t, s.voices[0].Stage(), StageRelease)
	expectEqual(t, s.voices[1].Note(), 62)
	expectEqual(t, countActive(s), 2)
}

func TestEventOffsetsAreClamped(t *testing.T) {
	s := New(FilterLadder)
	left := make([]float64, 64)
	s.ProcessBlock(left, nil, []Event{noteOnEvent(1000, 60, 100), noteOnEvent(-5, 64, 100)})
	expectEqual(t, s.voices[0].Note(), 64)
	expectEqual(t, s.voices[1].Note(), 60)
	expectTrue(t, s.voices[1].IsActive(), "late event should still be applied")
}

func TestNewEvent(t *testing.T) {
	e, ok := NewEvent(3, []byte{0x90, 60, 100})
	expectEqual(t, ok, true)
	expectEqual(t, e, noteOnEvent(3, 60, 100))
	e, ok = NewEvent(0, []byte{0xD0, 64})
	expectEqual(t, ok, true)
	expectEqual(t, e.Data1, byte(64))
	_, ok = NewEvent(0, []byte{0xF0, 1, 2, 3, 0xF7})
	expectEqual(t, ok, false)
	_, ok = NewEvent(0, nil)
	expectEqual(t, ok, false)
}

func TestVoicePoolBound(t *testing.T) {
	s := New(FilterLadder)
	block := make([]float64, 64)
	for n := 0; n < 20; n++ {
		s.ProcessBlock(block, nil, []Event{noteOnEvent(n, byte(40+n), 100)})
		if countActive(s) > s.numVoices {
			t.Fatalf("%v voices active, limit %v", countActive(s), s.numVoices)
		}
	}
	expectEqual(t, countActive(s), MaxVoices)

	p := DefaultParams()
	p.PolyMode = false
	s.SetControls(p)
	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 80, 100), noteOnEvent(10, 82, 100)})
	expectEqual(t, s.numVoices, 1)
	expectTrue(t, countActive(s) <= 1, "mono mode should sound one voice at most")
}

func TestVoiceStealingPrefersQuietestReleasedVoice(t *testing.T) {
	s := New(FilterLadder)
	block := make([]float64, 256)
	for n := 0; n < MaxVoices; n++ {
		s.ProcessBlock(block, nil, []Event{noteOnEvent(0, byte(60+n), 100)})
	}
	s.ProcessBlock(block, nil, []Event{noteOffEvent(0, 63)})
	expectTrue(t, s.voices[3].IsActive(), "released voice should still ring")
	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 90, 100)})
	expectEqual(t, s.voices[3].Note(), 90)
	expectEqual(t, countActive(s), MaxVoices)
}

func TestVoiceStealingFallsBackToOldest(t *testing.T) {
	p := DefaultParams()
	p.EnvAttack = 100 // every voice stays in attack
	s := newSynthWith(p)
	block := make([]float64, 64)
	for n := 0; n < MaxVoices; n++ {
		s.ProcessBlock(block, nil, []Event{noteOnEvent(0, byte(60+n), 100)})
	}
	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 90, 100)})
	expectEqual(t, s.voices[0].Note(), 90)
	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 91, 100)})
	expectEqual(t, s.voices[1].Note(), 91)
}

func TestMonoQueuesAndRestoresNotes(t *testing.T) {
	p := DefaultParams()
	p.PolyMode = false
	p.GlideMode = GlideLegato
	p.GlideRate = 50
	s := newSynthWith(p)
	block := make([]float64, 128)

	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 60, 100)})
	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 64, 100)})
	expectEqual(t, s.voices[0].Note(), 60)
	expectEqual(t, len(s.QueuedNotes()), 1)
	expectEqual(t, s.QueuedNotes()[0], 64)

	s.MidiMessage(0x80, 60, 0)
	v := &s.voices[0]
	expectEqual(t, v.Note(), 64)
	expectEqual(t, len(s.QueuedNotes()), 0)
	expectTrue(t, v.Stage() != StageRelease, "promoted note should not be released")
	expectNearlyEqual(t, v.target, s.calcPeriod(0, 64))
	expectTrue(t, v.period > v.target, "legato mode should glide toward the new note")

	s.MidiMessage(0x80, 64, 0)
	expectEqual(t, v.Stage(), StageRelease)
	expectEqual(t, v.Note(), -1)
}

func TestMonoWithoutGlideJumps(t *testing.T) {
	p := DefaultParams()
	p.PolyMode = false
	s := newSynthWith(p)
	s.MidiMessage(0x90, 60, 100)
	s.MidiMessage(0x90, 67, 100)
	s.MidiMessage(0x90, 72, 100)
	expectEqual(t, len(s.QueuedNotes()), 2)

	// a queued note released before its turn is forgotten
	s.MidiMessage(0x80, 67, 0)
	expectEqual(t, len(s.QueuedNotes()), 1)

	s.MidiMessage(0x80, 60, 0)
	v := &s.voices[0]
	expectEqual(t, v.Note(), 72)
	expectEqual(t, v.period, v.target)
}

func TestMonoQueueDropsOldest(t *testing.T) {
	p := DefaultParams()
	p.PolyMode = false
	s := newSynthWith(p)
	for n := 0; n < 12; n++ {
		s.MidiMessage(0x90, byte(50+n), 100)
	}
	queued := s.QueuedNotes()
	expectEqual(t, len(queued), MaxVoices-1)
	expectEqual(t, queued[0], 55)
	expectEqual(t, queued[len(queued)-1], 61)
}

func TestMonoRestartsAfterHeldNoteDecays(t *testing.T) {
	p := DefaultParams()
	p.PolyMode = false
	p.EnvDecay = 0
	p.EnvSustain = 0
	s := newSynthWith(p)
	block := make([]float64, 4096)

	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 60, 100)})
	for i := 0; i < 100 && s.voices[0].IsActive(); i++ {
		s.ProcessBlock(block, nil, nil)
	}
	expectTrue(t, !s.voices[0].IsActive(), "held note should decay to silence")
	expectEqual(t, s.voices[0].Note(), 60)

	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 64, 100)})
	expectEqual(t, s.voices[0].Note(), 64)
	expectEqual(t, len(s.QueuedNotes()), 0)
	expectEqual(t, s.ActiveVoices(), 1)
	peak := 0.0
	for _, x := range block {
		peak = math.Max(peak, math.Abs(x))
	}
	expectTrue(t, peak > 0, "new note should be audible")

	// the silent key no longer restores anything on release
	s.MidiMessage(0x80, 60, 0)
	expectEqual(t, s.voices[0].Note(), 64)
	expectTrue(t, s.voices[0].Stage() != StageRelease, "sounding note should not be released")
}

func TestSustainPedal(t *testing.T) {
	s := New(FilterLadder)
	s.MidiMessage(0x90, 60, 100)
	s.MidiMessage(0xB0, 0x40, 127)
	s.MidiMessage(0x80, 60, 0)
	v := &s.voices[0]
	expectTrue(t, v.Stage() != StageRelease, "pedal should hold the note")
	expectEqual(t, v.Note(), -1)
	s.MidiMessage(0xB0, 0x40, 0)
	expectEqual(t, v.Stage(), StageRelease)
}

func TestVelocityZeroIsNoteOff(t *testing.T) {
	s := New(FilterLadder)
	s.MidiMessage(0x90, 60, 100)
	s.MidiMessage(0x90, 60, 0)
	expectEqual(t, s.voices[0].Stage(), StageRelease)
}

func TestIgnoredVelocity(t *testing.T) {
	p := DefaultParams()
	p.FilterVelocity = -100
	quiet := newSynthWith(p)
	quiet.MidiMessage(0x90, 60, 1)
	loud := newSynthWith(p)
	loud.MidiMessage(0x90, 60, 127)
	expectEqual(t, quiet.voices[0].osc1.Amplitude, loud.voices[0].osc1.Amplitude)
	expectEqual(t, quiet.voices[0].cutoff, loud.voices[0].cutoff)
}

func TestPitchBendAndControllers(t *testing.T) {
	s := New(FilterLadder)
	s.MidiMessage(0xE0, 0x00, 0x40)
	expectNearlyEqual(t, s.pitchBend, 1)
	s.MidiMessage(0xE0, 0x7F, 0x7F)
	expectNearlyEqual(t, s.pitchBend, math.Exp(-0.000014102*8191))
	s.MidiMessage(0xB0, 0x01, 100)
	expectNearlyEqual(t, s.modWheel, 0.05)
	s.MidiMessage(0xB0, 0x4A, 50)
	expectNearlyEqual(t, s.filterCtl, 1)
	s.MidiMessage(0xB0, 0x47, 0)
	expectNearlyEqual(t, s.resonanceCtl, 1)
	s.MidiMessage(0xD0, 100, 0)
	expectNearlyEqual(t, s.pressure, 1)

	s.SetResonanceCC(0x15)
	s.MidiMessage(0xB0, 0x15, 77)
	expectNearlyEqual(t, s.resonanceCtl, 2)
}

func TestAllNotesOff(t *testing.T) {
	s := New(FilterLadder)
	s.MidiMessage(0x90, 60, 100)
	s.MidiMessage(0x90, 64, 100)
	s.MidiMessage(0xB0, 0x7B, 0)
	expectEqual(t, countActive(s), 0)
}

func TestControlLatch(t *testing.T) {
	s := New(FilterLadder)
	p := DefaultParams()
	p.OutputLevel = -6
	s.SetControls(p)
	expectNearlyEqual(t, s.coef.OutputLevel, 1)
	s.ProcessBlock(make([]float64, 8), nil, nil)
	expectNearlyEqual(t, s.coef.OutputLevel, math.Pow(10, -6.0/20))
	expectEqual(t, s.changed.Load(), false)

	// without a new SetControls the coefficients are left alone
	s.coef.OutputLevel = 0.25
	s.ProcessBlock(make([]float64, 8), nil, nil)
	expectNearlyEqual(t, s.coef.OutputLevel, 0.25)

	s.SetNonRealtime(true)
	s.ProcessBlock(make([]float64, 8), nil, nil)
	expectNearlyEqual(t, s.coef.OutputLevel, math.Pow(10, -6.0/20))
}

func TestAttackEndsWithin50ms(t *testing.T) {
	p := DefaultParams()
	p.EnvAttack = 37 // about 2000 samples at 44.1kHz
	s := newSynthWith(p)
	s.ProcessBlock(make([]float64, 1800), nil, []Event{noteOnEvent(0, 60, 100)})
	expectTrue(t, s.voices[0].env.IsInAttack(), "should still be in attack after 1800 samples")
	s.ProcessBlock(make([]float64, 405), nil, nil)
	expectTrue(t, !s.voices[0].env.IsInAttack(), "should be in decay after 2205 samples")
}

func renderAfterReset(resets int) []float64 {
	s := New(FilterLadder)
	block := make([]float64, 300)
	s.ProcessBlock(block, nil, []Event{
		noteOnEvent(0, 60, 100),
		noteOnEvent(10, 67, 90),
		{Offset: 20, Status: 0xE0, Data1: 0, Data2: 0x50},
		{Offset: 30, Status: 0xB0, Data1: 0x01, Data2: 90},
	})
	for i := 0; i < resets; i++ {
		s.Reset()
	}
	out := make([]float64, 512)
	s.ProcessBlock(out, nil, []Event{noteOnEvent(0, 64, 100)})
	return out
}

func TestResetIsIdempotent(t *testing.T) {
	once := renderAfterReset(1)
	twice := renderAfterReset(2)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("sample %v differs: %v != %v", i, once[i], twice[i])
		}
	}

	s := New(FilterLadder)
	s.MidiMessage(0x90, 60, 100)
	s.MidiMessage(0xE0, 0, 0)
	s.Reset()
	s.Reset()
	expectEqual(t, countActive(s), 0)
	expectEqual(t, s.pitchBend, 1.0)
	expectEqual(t, s.lfo, 0.0)
	expectEqual(t, s.lastNote, -1)
}

func TestRequestReset(t *testing.T) {
	s := New(FilterLadder)
	block := make([]float64, 64)
	s.ProcessBlock(block, nil, []Event{noteOnEvent(0, 60, 100)})
	s.RequestReset()
	s.ProcessBlock(block, nil, nil)
	expectEqual(t, countActive(s), 0)
	for _, x := range block {
		expectEqual(t, x, 0.0)
	}
}

func TestMonoOutputIsAverageOfStereo(t *testing.T) {
	events := func() []Event {
		return []Event{noteOnEvent(0, 48, 100), noteOnEvent(5, 72, 100)}
	}
	stereo := New(FilterLadder)
	left := make([]float64, 512)
	right := make([]float64, 512)
	stereo.ProcessBlock(left, right, events())
	mono := New(FilterLadder)
	mixed := make([]float64, 512)
	mono.ProcessBlock(mixed, nil, events())
	for i := range mixed {
		expectNearlyEqual(t, mixed[i], (left[i]+right[i])/2)
	}
}

func TestProtectYourEars(t *testing.T) {
	expectEqual(t, protectYourEars([]float64{0, 1.5, -1.9}), true)
	expectEqual(t, protectYourEars([]float64{0, math.NaN()}), false)
	expectEqual(t, protectYourEars([]float64{math.Inf(-1)}), false)
	expectEqual(t, protectYourEars([]float64{2.5}), false)
	expectEqual(t, protectYourEars(nil), true)
}

func TestOutputStaysBounded(t *testing.T) {
	for _, kind := range []FilterKind{FilterLadder, FilterBiquad} {
		s := New(kind)
		p := DefaultParams()
		p.FilterReso = 100
		p.Noise = 100
		p.OscMix = 100
		s.SetControls(p)
		left := make([]float64, 1024)
		right := make([]float64, 1024)
		for b := 0; b < 40; b++ {
			s.ProcessBlock(left, right, []Event{noteOnEvent(b%16, byte(24+b*2), 127)})
			for i := range left {
				if math.IsNaN(left[i]) || math.IsNaN(right[i]) {
					t.Fatalf("%v: NaN in block %v", kind, b)
				}
			}
		}
	}
}

func TestSortEventsIsStable(t *testing.T) {
	events := []Event{
		{Offset: 5, Data1: 1},
		{Offset: 1, Data1: 2},
		{Offset: 5, Data1: 3},
		{Offset: 0, Data1: 4},
		{Offset: 1, Data1: 5},
	}
	SortEvents(events)
	order := []byte{4, 2, 5, 1, 3}
	for i, e := range events {
		expectEqual(t, e.Data1, order[i])
	}
}
