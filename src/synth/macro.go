package synth

import "math"

// ----- Macro Params ----- //

// MacroParams is the four-knob layout. Type, Tone, Shape and Style each drive
// several coefficients at once; the mappings below are kept exactly as the
// instrument shipped them, couplings included.
type MacroParams struct {
	PolyMode    int // 0: mono, 1: poly
	GlideMode   GlideMode
	PitchMode   int     // 0: "On", 1: "Off" (index 0 disables pitch modulation)
	Type        float64 // 0 ~ 1
	Tone        float64 // 0 ~ 100
	Shape       float64 // 0 ~ 100
	Style       float64 // 0 ~ 1
	OutputLevel float64 // -24 ~ 6 dB
}

// DefaultMacroParams ...
func DefaultMacroParams() MacroParams {
	return MacroParams{
		PolyMode: 1,
		Tone:     100,
	}
}

// setRange maps in/maxX through a power curve onto [0, maxY].
func setRange(in, maxX, maxY, skew float64) float64 {
	return math.Pow(in/maxX, skew) * maxY
}

// Apply leaves GlideRate untouched while pitch mode is off.
func (m MacroParams) Apply(c *Coefficients, sampleRate float64) {
	invSampleRate := 1 / sampleRate
	invUpdateRate := invSampleRate * lfoMax
	pitchMode := m.PitchMode != 0

	c.NumVoices = 1
	if m.PolyMode != 0 {
		c.NumVoices = MaxVoices
	}
	c.GlideMode = GlideMode(clamp(float64(m.GlideMode), 0, float64(GlideAlways)))

	// Type
	semi := m.Type
	if semi < 0.33 {
		semi = 0
	}
	if semi > 0.33 && semi < 0.66 {
		semi = 0.5
	} else if semi > 0.66 {
		semi = 1
	}
	semi = semi*12 - 6
	cent := m.Type*10 - 5
	c.Detune = math.Pow(semitone, -semi-0.01*cent)
	oscMix := setRange(m.Type, 1, 100, 0.2)
	c.OscMix = oscMix
	if pitchMode {
		gr := m.Type * 20
		if gr < 2 {
			c.GlideRate = 1
		} else {
			c.GlideRate = 1 - math.Exp(-invSampleRate*math.Exp(6-0.07*gr))
		}
	}
	c.GlideBend = 0
	if pitchMode {
		c.GlideBend = m.Type*72 - 36
	}

	// Tone
	c.FilterKeyTracking = 0.08*m.Tone - 1.5
	filterReso := m.Tone / 100
	c.FilterQ = math.Exp(3 * filterReso)
	c.FilterEnvDepth = 0.06 * (m.Tone - (m.Tone - 100))
	filterLFO := m.Tone / 100
	c.FilterLFODepth = 2.5 * filterLFO * filterLFO
	filterVelocity := m.Tone - (m.Tone - 100)
	c.IgnoreVelocity = filterVelocity < -90
	c.VelocitySensitivity = 0
	if !c.IgnoreVelocity {
		c.VelocitySensitivity = 0.0005 * filterVelocity
	}
	toneTime := envelopeMultiplier(invUpdateRate, m.Tone)
	c.FilterAttack = toneTime
	c.FilterDecay = toneTime
	c.FilterSustain = (m.Tone / 100) * (m.Tone / 100)
	c.FilterRelease = toneTime

	// Shape
	shapeTime := envelopeMultiplier(invSampleRate, m.Shape)
	c.EnvAttack = shapeTime
	c.EnvDecay = shapeTime
	c.EnvSustain = m.Shape / 100
	c.EnvRelease = releaseMultiplier(invSampleRate, m.Shape)

	// Style
	lfoRate := 0.0
	if pitchMode {
		lfoRate = math.Exp(7*m.Style - 4)
	}
	c.LFOInc = lfoRate * invUpdateRate * 2 * math.Pi
	vibrato := (m.Style*100 - 100) / 200
	c.Vibrato = 0.2 * vibrato * vibrato
	c.PWMDepth = c.Vibrato
	if vibrato > 0 {
		c.Vibrato = 0
	}
	c.NoiseMix = noiseMix(m.Style)
	octave := 1.0
	tuning := 0.0
	if pitchMode {
		octave = m.Style*4 - 2
		tuning = m.Style*200 - 100
	}
	c.Tune = calcTune(sampleRate, octave, tuning)

	c.OutputLevel = decibelsToGain(m.OutputLevel)
	c.VolumeTrim = volumeTrim(oscMix, c.NoiseMix, filterReso)
}
