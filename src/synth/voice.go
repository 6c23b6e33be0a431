package synth

import "math"

// ----- Voice ----- //

const (
	noNote        = -1
	sustainedNote = -2 // key released while the sustain pedal is down
	minCutoff     = 30.0
	maxCutoffHz   = 20000.0
	sawLeak       = 0.997
	panRange      = 24.0
)

// Voice renders one note: two detuned saws, a leaky integrator, a filter, and
// amplitude and filter envelopes.
type Voice struct {
	note    int
	started uint64 // start order, for stealing
	saw     float64

	osc1      Oscillator
	osc2      Oscillator
	env       Envelope
	filterEnv Envelope
	filter    Filter

	panLeft  float64
	panRight float64

	// glide, in samples per cycle
	period    float64
	target    float64
	glideRate float64

	cutoff         float64
	filterMod      float64
	filterQ        float64
	filterEnvDepth float64
	pitchBend      float64

	// LFO modulation of the oscillator periods
	osc1Mod float64
	osc2Mod float64
}

// Note returns the MIDI note held by the voice, or -1.
func (v *Voice) Note() int {
	if v.note < 0 {
		return noNote
	}
	return v.note
}

// IsActive ...
func (v *Voice) IsActive() bool {
	return v.env.IsActive()
}

// Stage ...
func (v *Voice) Stage() Stage {
	return v.env.Stage()
}

func (v *Voice) reset() {
	v.note = noNote
	v.saw = 0
	v.osc1.Reset()
	v.osc2.Reset()
	v.env.Reset()
	v.filterEnv.Reset()
	if v.filter != nil {
		v.filter.Reset()
	}
	v.panLeft = math.Sqrt2 / 2
	v.panRight = math.Sqrt2 / 2
	v.pitchBend = 1
	v.osc1Mod = 1
	v.osc2Mod = 1
}

func (v *Voice) render(input float64) float64 {
	s1 := v.osc1.NextSample()
	s2 := v.osc2.NextSample()
	v.saw = v.saw*sawLeak + s1 - s2

	output := v.saw + input
	output = v.filter.Render(output)

	envelope := v.env.NextValue()
	return output * envelope
}

func (v *Voice) release() {
	v.env.Release()
	v.filterEnv.Release()
}

func (v *Voice) updatePanning() {
	pan := clamp(float64(v.note)-60, -panRange, panRange) / panRange
	v.panLeft = math.Sin(math.Pi / 4 * (1 - pan))
	v.panRight = math.Sin(math.Pi / 4 * (1 + pan))
}

// updateLFO runs once per control tick.
func (v *Voice) updateLFO() {
	v.period += v.glideRate * (v.target - v.period)

	fenv := v.filterEnv.NextValue()
	modulatedCutoff := v.cutoff * math.Exp(v.filterMod+v.filterEnvDepth*fenv) / v.pitchBend
	modulatedCutoff = clamp(modulatedCutoff, minCutoff, maxCutoffHz)
	v.filter.UpdateCoefficients(modulatedCutoff, v.filterQ)
}
