package synth

import "math"

// ----- Ladder Filter ----- //

const (
	ladderDrive        = 1.2
	ladderComp         = 0.5
	ladderSmoothing    = 0.05 // sec
	ladderStageB0      = 0.76923076923
	ladderStageB1      = 0.23076923076
	ladderMinResonance = 0.1
)

// ladderFilter is a four-stage transistor ladder low-pass (24dB/oct) with a
// tanh input stage and feedback resonance.
type ladderFilter struct {
	cutoffScaler    float64
	nyquistLimit    float64
	cutoffTransform transitiveValue
	resonance       transitiveValue
	gain            float64
	drive           float64
	drive2          float64
	state           [5]float64
}

func newLadderFilter(sampleRate float64) *ladderFilter {
	f := &ladderFilter{}
	f.cutoffScaler = -2 * math.Pi / sampleRate
	f.nyquistLimit = maxCutoff(sampleRate)
	f.cutoffTransform.prepare(sampleRate, ladderSmoothing)
	f.resonance.prepare(sampleRate, ladderSmoothing)
	f.drive = ladderDrive
	f.gain = math.Pow(ladderDrive, -2.642)*0.6103 + 0.3903
	f.drive2 = ladderDrive*0.04 + 0.96
	f.UpdateCoefficients(1000, 0)
	f.Reset()
	return f
}

func (f *ladderFilter) UpdateCoefficients(cutoff float64, q float64) {
	cutoff = clamp(cutoff, 0, f.nyquistLimit)
	f.cutoffTransform.linear(math.Exp(cutoff * f.cutoffScaler))
	r := normalizedResonance(q)
	f.resonance.linear(ladderMinResonance + r*(1-ladderMinResonance))
}

func (f *ladderFilter) Render(x float64) float64 {
	a1 := f.cutoffTransform.step()
	res := f.resonance.step()
	g := 1 - a1
	b0 := g * ladderStageB0
	b1 := g * ladderStageB1
	s := &f.state

	dx := f.gain * math.Tanh(f.drive*x)
	a := dx + res*-4*(f.gain*math.Tanh(f.drive2*s[4])-dx*ladderComp)
	b := b1*s[0] + a1*s[1] + b0*a
	c := b1*s[1] + a1*s[2] + b0*b
	d := b1*s[2] + a1*s[3] + b0*c
	e := b1*s[3] + a1*s[4] + b0*d
	s[0], s[1], s[2], s[3], s[4] = a, b, c, d, e
	return e
}

func (f *ladderFilter) Reset() {
	f.state = [5]float64{}
	f.cutoffTransform.end()
	f.resonance.end()
}
