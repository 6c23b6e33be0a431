package synth

import "math"

// ----- Transitive Value ----- //

// transitiveValue ramps linearly toward its target over a fixed number of
// samples. Changing the target restarts the ramp from the current value.
type transitiveValue struct {
	steps       int
	pos         int
	delta       float64
	targetValue float64
	value       float64
}

func (tv *transitiveValue) prepare(sampleRate float64, seconds float64) {
	tv.steps = int(math.Floor(seconds * sampleRate))
	tv.init(tv.targetValue)
}

// init jumps to value without ramping.
func (tv *transitiveValue) init(value float64) {
	tv.targetValue = value
	tv.value = value
	tv.pos = 0
	tv.delta = 0
}

func (tv *transitiveValue) linear(targetValue float64) {
	if targetValue == tv.targetValue {
		return
	}
	if tv.steps <= 0 {
		tv.init(targetValue)
		return
	}
	tv.targetValue = targetValue
	tv.pos = tv.steps
	tv.delta = (tv.targetValue - tv.value) / float64(tv.steps)
}

func (tv *transitiveValue) step() float64 {
	if tv.pos <= 0 {
		return tv.targetValue
	}
	tv.pos--
	if tv.pos == 0 {
		tv.value = tv.targetValue
	} else {
		tv.value += tv.delta
	}
	return tv.value
}

func (tv *transitiveValue) end() {
	tv.init(tv.targetValue)
}
