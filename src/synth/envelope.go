package synth

// ----- Envelope Stage ----- //

// Stage is informational only. Transitions are decided by level and target.
type Stage int

const (
	StageIdle Stage = iota
	StageAttack
	StageDecay
	StageRelease
)

func (s Stage) String() string {
	switch s {
	case StageAttack:
		return "attack"
	case StageDecay:
		return "decay"
	case StageRelease:
		return "release"
	}
	return "idle"
}

// ----- Envelope ----- //

const (
	silence       = 0.0001
	attackCeiling = 2.0
	overshoot     = 3.0
)

// Envelope is an exponential ADSR. The level chases the target, and the
// attack aims at 2.0 so that level+target crosses 3.0 once the level passes
// 1.0; that crossing is the only attack-to-decay test.
type Envelope struct {
	Level  float64
	target float64
	mult   float64
	stage  Stage

	AttackMultiplier  float64
	DecayMultiplier   float64
	SustainLevel      float64
	ReleaseMultiplier float64
}

// NextValue ...
func (e *Envelope) NextValue() float64 {
	e.Level = e.mult*(e.Level-e.target) + e.target
	if e.Level+e.target > overshoot {
		e.mult = e.DecayMultiplier
		e.target = e.SustainLevel
		e.stage = StageDecay
	}
	return e.Level
}

// Attack ...
func (e *Envelope) Attack() {
	e.Level += silence + silence
	e.target = attackCeiling
	e.mult = e.AttackMultiplier
	e.stage = StageAttack
}

// Release ...
func (e *Envelope) Release() {
	e.target = 0
	e.mult = e.ReleaseMultiplier
	e.stage = StageRelease
}

// Reset ...
func (e *Envelope) Reset() {
	e.Level = 0
	e.target = 0
	e.mult = 0
	e.stage = StageIdle
}

// IsActive ...
func (e *Envelope) IsActive() bool {
	return e.Level > silence
}

// IsInAttack ...
func (e *Envelope) IsInAttack() bool {
	return e.target >= attackCeiling
}

// Stage ...
func (e *Envelope) Stage() Stage {
	if !e.IsActive() && e.stage == StageRelease {
		return StageIdle
	}
	return e.stage
}
