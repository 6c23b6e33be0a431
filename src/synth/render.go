package synth

import "math"

// ----- Event ----- //

// Event is a channel message due at a sample offset within a block.
type Event struct {
	Offset int
	Status byte
	Data1  byte
	Data2  byte
}

// NewEvent builds an Event from raw MIDI bytes. Empty messages and messages
// longer than three bytes (SysEx) are rejected.
func NewEvent(offset int, data []byte) (Event, bool) {
	if len(data) == 0 || len(data) > 3 {
		return Event{}, false
	}
	e := Event{Offset: offset, Status: data[0]}
	if len(data) > 1 {
		e.Data1 = data[1]
	}
	if len(data) > 2 {
		e.Data2 = data[2]
	}
	return e, true
}

// SortEvents orders events by offset in place. Events at the same offset
// keep their arrival order.
func SortEvents(events []Event) {
	for i := 1; i < len(events); i++ {
		e := events[i]
		j := i
		for ; j > 0 && events[j-1].Offset > e.Offset; j-- {
			events[j] = events[j-1]
		}
		events[j] = e
	}
}

// ----- Block Processing ----- //

// ProcessBlock renders len(left) samples, applying each event at its offset.
// right may be nil for mono output. Offsets are clamped into the block and
// events may be reordered in place.
func (s *Synth) ProcessBlock(left, right []float64, events []Event) {
	if s.changed.CompareAndSwap(true, false) || s.nonRealtime {
		if slot := s.controls.Load(); slot != nil {
			s.update(slot.controls)
		}
	}
	if s.resetRequested.CompareAndSwap(true, false) {
		s.Reset()
	}
	n := len(left)
	SortEvents(events)
	pos := 0
	for _, e := range events {
		offset := e.Offset
		if offset < 0 {
			offset = 0
		}
		if offset > n {
			offset = n
		}
		if offset > pos {
			s.Render(left[pos:offset], subslice(right, pos, offset))
			pos = offset
		}
		s.MidiMessage(e.Status, e.Data1, e.Data2)
	}
	if pos < n {
		s.Render(left[pos:n], subslice(right, pos, n))
	}
}

func subslice(buf []float64, from, to int) []float64 {
	if buf == nil {
		return nil
	}
	return buf[from:to]
}

// ----- Render ----- //

// Render writes len(left) samples. When right is nil the voices are mixed
// down to mono.
func (s *Synth) Render(left, right []float64) {
	for i := range s.voices {
		v := &s.voices[i]
		if v.env.IsActive() {
			s.updatePeriod(v)
			v.glideRate = s.coef.GlideRate
			v.filterQ = s.coef.FilterQ * s.resonanceCtl
			v.pitchBend = s.pitchBend
			v.filterEnvDepth = s.coef.FilterEnvDepth
		}
	}

	for n := range left {
		s.updateLFO()
		noise := s.noise.nextValue() * s.coef.NoiseMix

		outputLeft := 0.0
		outputRight := 0.0
		for i := range s.voices {
			v := &s.voices[i]
			if v.env.IsActive() {
				output := v.render(noise)
				outputLeft += output * v.panLeft
				outputRight += output * v.panRight
			}
		}
		level := s.outputLevel.step()
		outputLeft *= level
		outputRight *= level

		if right != nil {
			left[n] = outputLeft
			right[n] = outputRight
		} else {
			left[n] = (outputLeft + outputRight) * 0.5
		}
	}

	active := int32(0)
	for i := range s.voices {
		v := &s.voices[i]
		if v.env.IsActive() {
			active++
		} else {
			v.env.Reset()
			v.filter.Reset()
		}
	}
	s.activeVoices.Store(active)

	if !protectYourEars(left) || !protectYourEars(right) {
		clear(left)
		clear(right)
		s.mutedBlocks.Add(1)
	}
}

// protectYourEars reports whether every sample is finite and within +-2.
func protectYourEars(buf []float64) bool {
	for _, x := range buf {
		if math.IsNaN(x) || x < -2 || x > 2 {
			return false
		}
	}
	return true
}

// ----- Control Rate ----- //

func (s *Synth) updateLFO() {
	s.lfoStep--
	if s.lfoStep > 0 {
		return
	}
	s.lfoStep = lfoMax

	s.lfo += s.coef.LFOInc
	if s.lfo > math.Pi {
		s.lfo -= 2 * math.Pi
	}
	sine := math.Sin(s.lfo)

	vibratoMod := 1 + sine*(s.modWheel+s.coef.Vibrato)
	pwm := 1 + sine*(s.modWheel+s.coef.PWMDepth)

	filterMod := s.coef.FilterKeyTracking + s.filterCtl + (s.coef.FilterLFODepth+s.pressure)*sine
	s.filterZip += 0.005 * (filterMod - s.filterZip)

	for i := range s.voices {
		v := &s.voices[i]
		if v.env.IsActive() {
			v.osc1Mod = vibratoMod
			v.osc2Mod = pwm
			v.filterMod = s.filterZip
			v.updateLFO()
			s.updatePeriod(v)
		}
	}
}

func (s *Synth) updatePeriod(v *Voice) {
	period := v.period * s.pitchBend
	if period < minPeriod*minPitchBend {
		period = minPeriod * minPitchBend
	}
	v.osc1.Increment = 1 / (period * v.osc1Mod)
	v.osc2.Increment = 1 / (period * s.coef.Detune * v.osc2Mod)
}
