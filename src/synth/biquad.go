package synth

import "math"

// ----- Biquad Filter ----- //

const (
	biquadMinQ = 0.707
	biquadMaxQ = 10.0
)

// biquadFilter is the RBJ cookbook low-pass (12dB/oct), in direct form II.
type biquadFilter struct {
	sampleRate float64
	nyquist    float64
	a          [3]float64 // feedforward
	b          [2]float64 // feedback
	past       [2]float64
}

func newBiquadFilter(sampleRate float64) *biquadFilter {
	f := &biquadFilter{
		sampleRate: sampleRate,
		nyquist:    maxCutoff(sampleRate),
	}
	f.UpdateCoefficients(1000, 0)
	return f
}

func makeBiquadLowpassH(fc float64, q float64) ([3]float64, [2]float64) {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	alpha := math.Sin(w0) / (2 * q)
	cos := math.Cos(w0)
	b0 := (1 - cos) / 2
	b1 := 1 - cos
	b2 := (1 - cos) / 2
	a0 := 1 + alpha
	a1 := -2 * cos
	a2 := 1 - alpha
	return [3]float64{b0 / a0, b1 / a0, b2 / a0}, [2]float64{a1 / a0, a2 / a0}
}

func (f *biquadFilter) UpdateCoefficients(cutoff float64, q float64) {
	cutoff = clamp(cutoff, 1, f.nyquist)
	bq := biquadMinQ + normalizedResonance(q)*(biquadMaxQ-biquadMinQ)
	f.a, f.b = makeBiquadLowpassH(cutoff/f.sampleRate, bq)
}

func (f *biquadFilter) Render(x float64) float64 {
	in := math.Tanh(x)
	// apply b
	in -= f.past[0]*f.b[0] + f.past[1]*f.b[1]
	// apply a
	o := in*f.a[0] + f.past[0]*f.a[1] + f.past[1]*f.a[2]
	f.past[1] = f.past[0]
	f.past[0] = in
	return o
}

func (f *biquadFilter) Reset() {
	f.past = [2]float64{}
}
