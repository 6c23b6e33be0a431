package synth

import "math"

// ----- Glide Mode ----- //

// GlideMode ...
type GlideMode int

const (
	GlideOff GlideMode = iota
	GlideLegato
	GlideAlways
)

func (g GlideMode) String() string {
	switch g {
	case GlideLegato:
		return "legato"
	case GlideAlways:
		return "always"
	}
	return "off"
}

// ----- Coefficients ----- //

// Coefficients are the synth-wide values the render loop reads. They are
// derived from a Controls once per block at most.
type Coefficients struct {
	NumVoices int
	GlideMode GlideMode

	Tune        float64 // period of note 0, in samples
	Detune      float64 // osc2 period ratio
	OscMix      float64
	NoiseMix    float64
	VolumeTrim  float64
	OutputLevel float64 // linear gain

	EnvAttack  float64
	EnvDecay   float64
	EnvSustain float64
	EnvRelease float64

	FilterKeyTracking float64
	FilterQ           float64
	FilterEnvDepth    float64
	FilterLFODepth    float64
	FilterAttack      float64
	FilterDecay       float64
	FilterSustain     float64
	FilterRelease     float64

	VelocitySensitivity float64
	IgnoreVelocity      bool

	LFOInc    float64
	Vibrato   float64
	PWMDepth  float64
	GlideRate float64
	GlideBend float64
}

// Controls turns user-facing control values into Coefficients.
// Implementations must be values that are not mutated after SetControls.
type Controls interface {
	Apply(c *Coefficients, sampleRate float64)
}

// ----- Params ----- //

// Params is the per-parameter control layout.
type Params struct {
	PolyMode       bool
	OscMix         float64 // 0 ~ 100 %
	OscTune        float64 // -24 ~ 24 semitones
	OscFine        float64 // -10 ~ 10 cents
	GlideMode      GlideMode
	GlideRate      float64 // 0 ~ 100
	GlideBend      float64 // -36 ~ 36 semitones
	FilterFreq     float64 // 0 ~ 100
	FilterReso     float64 // 0 ~ 100 %
	FilterEnv      float64 // -100 ~ 100 %
	FilterLFO      float64 // 0 ~ 100 %
	FilterVelocity float64 // -100 ~ 100, < -90 is off
	FilterAttack   float64 // 0 ~ 100 %
	FilterDecay    float64 // 0 ~ 100 %
	FilterSustain  float64 // 0 ~ 100 %
	FilterRelease  float64 // 0 ~ 100 %
	EnvAttack      float64 // 0 ~ 100 %
	EnvDecay       float64 // 0 ~ 100 %
	EnvSustain     float64 // 0 ~ 100 %
	EnvRelease     float64 // 0 ~ 100 %
	LFORate        float64 // 0 ~ 1
	Vibrato        float64 // -100 ~ 100 %, negative is PWM
	Noise          float64 // 0 ~ 100 %
	Octave         float64 // -2 ~ 2
	Tuning         float64 // -100 ~ 100 cents
	OutputLevel    float64 // -24 ~ 6 dB
}

// DefaultParams ...
func DefaultParams() Params {
	return Params{
		PolyMode:      true,
		OscTune:       -12,
		GlideRate:     35,
		FilterFreq:    100,
		FilterReso:    15,
		FilterEnv:     50,
		FilterDecay:   30,
		FilterRelease: 25,
		EnvDecay:      50,
		EnvSustain:    100,
		EnvRelease:    30,
		LFORate:       0.81,
	}
}

// Apply ...
func (p Params) Apply(c *Coefficients, sampleRate float64) {
	invSampleRate := 1 / sampleRate
	invUpdateRate := invSampleRate * lfoMax

	c.NumVoices = 1
	if p.PolyMode {
		c.NumVoices = MaxVoices
	}
	c.GlideMode = GlideMode(clamp(float64(p.GlideMode), 0, float64(GlideAlways)))

	c.Detune = math.Pow(semitone, -p.OscTune-0.01*p.OscFine)
	c.Tune = calcTune(sampleRate, p.Octave, p.Tuning)

	c.OscMix = clamp(p.OscMix, 0, 100) / 100
	c.NoiseMix = noiseMix(p.Noise / 100)

	reso := clamp(p.FilterReso, 0, 100) / 100
	c.FilterKeyTracking = 0.08*p.FilterFreq - 1.5
	c.FilterQ = math.Exp(3 * reso)
	c.VolumeTrim = volumeTrim(c.OscMix, c.NoiseMix, reso)
	c.OutputLevel = decibelsToGain(p.OutputLevel)

	lfoDepth := clamp(p.FilterLFO, 0, 100) / 100
	c.FilterLFODepth = 2.5 * lfoDepth * lfoDepth
	c.FilterAttack = envelopeMultiplier(invUpdateRate, p.FilterAttack)
	c.FilterDecay = envelopeMultiplier(invUpdateRate, p.FilterDecay)
	s := clamp(p.FilterSustain, 0, 100) / 100
	c.FilterSustain = s * s
	c.FilterRelease = envelopeMultiplier(invUpdateRate, p.FilterRelease)
	c.FilterEnvDepth = 0.06 * p.FilterEnv

	c.IgnoreVelocity = p.FilterVelocity < -90
	c.VelocitySensitivity = 0
	if !c.IgnoreVelocity {
		c.VelocitySensitivity = 0.0005 * p.FilterVelocity
	}

	c.EnvAttack = envelopeMultiplier(invSampleRate, p.EnvAttack)
	c.EnvDecay = envelopeMultiplier(invSampleRate, p.EnvDecay)
	c.EnvSustain = clamp(p.EnvSustain, 0, 100) / 100
	c.EnvRelease = releaseMultiplier(invSampleRate, p.EnvRelease)

	lfoRate := math.Exp(7*p.LFORate - 4)
	c.LFOInc = lfoRate * invUpdateRate * 2 * math.Pi

	vibrato := p.Vibrato / 200
	c.Vibrato = 0.2 * vibrato * vibrato
	c.PWMDepth = c.Vibrato
	if vibrato < 0 {
		c.Vibrato = 0
	}

	c.GlideRate = glideRate(invUpdateRate, p.GlideRate)
	c.GlideBend = p.GlideBend
}

// ----- Conversions ----- //

const (
	semitone     = 1.059463094359
	noteToPeriod = 0.05776226505 // ln(2)/12
	a440InSemi   = -36.3763
)

// envelopeMultiplier converts a 0-100 time control into a per-step
// multiplier: exp(-1/(rate * exp(0.075*x - 5.5))).
func envelopeMultiplier(invRate float64, x float64) float64 {
	return math.Exp(-invRate * math.Exp(5.5-0.075*x))
}

func releaseMultiplier(invRate float64, x float64) float64 {
	if x < 1 {
		return 0.75
	}
	return envelopeMultiplier(invRate, x)
}

func glideRate(invRate float64, x float64) float64 {
	if x < 2 {
		return 1
	}
	return 1 - math.Exp(-invRate*math.Exp(6-0.07*x))
}

func calcTune(sampleRate, octave, tuning float64) float64 {
	tuneInSemi := a440InSemi - 12*octave - tuning/100
	return sampleRate * math.Exp(noteToPeriod*tuneInSemi)
}

func noiseMix(x float64) float64 {
	return x * x * 0.06
}

func volumeTrim(oscMix, noiseMix, reso float64) float64 {
	return 0.0008 * (3.2 - oscMix - 25*noiseMix) * (1.5 - 0.5*reso)
}

func decibelsToGain(db float64) float64 {
	if db <= -100 {
		return 0
	}
	return math.Pow(10, db*0.05)
}
