package synth

// ----- Oscillator ----- //

// Oscillator is a naive sawtooth. The voice integrates the difference of two
// of them, which removes most of the aliasing.
type Oscillator struct {
	Amplitude float64
	Phase     float64 // 0 <= Phase < 1
	Increment float64 // cycles per sample
}

// Reset ...
func (o *Oscillator) Reset() {
	o.Phase = 0
}

// NextSample ...
func (o *Oscillator) NextSample() float64 {
	o.Phase += o.Increment
	for o.Phase >= 1 {
		o.Phase -= 1
	}
	return o.Amplitude * (2*o.Phase - 1)
}
