package synth

const noiseSeed = 22222

// noiseGenerator is a 32-bit linear congruential generator with output in
// [-1, 1).
type noiseGenerator struct {
	seed uint32
}

func (n *noiseGenerator) reset() {
	n.seed = noiseSeed
}

func (n *noiseGenerator) nextValue() float64 {
	n.seed = n.seed*196314165 + 907633515
	temp := int(n.seed>>7) - 16777216
	return float64(temp) / 16777216.0
}
