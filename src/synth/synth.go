package synth

import (
	"math"
	"sync/atomic"
)

// MaxVoices is the size of the voice pool.
const MaxVoices = 8

const (
	lfoMax            = 32 // samples per control tick
	analog            = 0.002
	minPeriod         = 6.0
	defaultSampleRate = 44100
	defaultBlockSize  = 512
	outputSmoothing   = 0.05 // sec
	ignoredVelocity   = 80
	minPitchBend      = 0.001
)

type controlsSlot struct {
	controls Controls
}

// Synth is a polyphonic subtractive synthesizer. Render, ProcessBlock,
// MidiMessage and Reset belong to the audio goroutine; SetControls,
// RequestReset and the status getters may be called from anywhere.
type Synth struct {
	filterKind   FilterKind
	sampleRate   float64
	maxBlockSize int

	voices    [MaxVoices]Voice
	numVoices int
	noise     noiseGenerator
	coef      Coefficients

	outputLevel transitiveValue

	pitchBend           float64
	sustainPedalPressed bool
	modWheel            float64
	pressure            float64
	filterCtl           float64
	resonanceCtl        float64
	resonanceCC         atomic.Uint32

	lfo       float64
	lfoStep   int
	filterZip float64

	lastNote  int
	startSeq  uint64
	queue     [MaxVoices - 1]queuedNote
	queueSize int

	controls       atomic.Pointer[controlsSlot]
	changed        atomic.Bool
	resetRequested atomic.Bool
	nonRealtime    bool

	activeVoices atomic.Int32
	mutedBlocks  atomic.Uint64
}

type queuedNote struct {
	note     int
	velocity int
}

// New returns a synth ready to render at 44.1kHz with default params.
func New(kind FilterKind) *Synth {
	s := &Synth{
		filterKind: kind,
		numVoices:  MaxVoices,
	}
	s.update(DefaultParams())
	s.AllocateResources(defaultSampleRate, defaultBlockSize)
	return s
}

// AllocateResources prepares the voice pool for a sample rate. It must not be
// called concurrently with rendering.
func (s *Synth) AllocateResources(sampleRate float64, maxBlockSize int) {
	s.sampleRate = sampleRate
	s.maxBlockSize = maxBlockSize
	for i := range s.voices {
		s.voices[i].filter = newFilter(s.filterKind, sampleRate)
	}
	s.outputLevel.prepare(sampleRate, outputSmoothing)
	if slot := s.controls.Load(); slot != nil {
		s.update(slot.controls)
	} else {
		s.update(DefaultParams())
	}
	s.Reset()
}

// SampleRate ...
func (s *Synth) SampleRate() float64 {
	return s.sampleRate
}

// FilterKind ...
func (s *Synth) FilterKind() FilterKind {
	return s.filterKind
}

// Reset silences every voice and returns the modulation state to rest.
func (s *Synth) Reset() {
	for i := range s.voices {
		s.voices[i].reset()
	}
	s.noise.reset()
	s.pitchBend = 1
	s.sustainPedalPressed = false
	s.modWheel = 0
	s.pressure = 0
	s.filterCtl = 0
	s.resonanceCtl = 1
	s.lfo = 0
	s.lfoStep = 0
	s.filterZip = 0
	s.lastNote = noNote
	s.startSeq = 0
	s.queueSize = 0
	s.outputLevel.end()
	s.activeVoices.Store(0)
}

// SetNonRealtime makes every block recompute coefficients.
func (s *Synth) SetNonRealtime(nonRealtime bool) {
	s.nonRealtime = nonRealtime
}

// SetControls publishes new control values. They take effect at the start of
// the next block.
func (s *Synth) SetControls(c Controls) {
	s.controls.Store(&controlsSlot{controls: c})
	s.changed.Store(true)
}

// RequestReset makes the next block start from Reset.
func (s *Synth) RequestReset() {
	s.resetRequested.Store(true)
}

// SetResonanceCC sets the controller that drives resonance like CC 71.
// Zero disables it.
func (s *Synth) SetResonanceCC(cc byte) {
	s.resonanceCC.Store(uint32(cc))
}

// ResonanceCC ...
func (s *Synth) ResonanceCC() byte {
	return byte(s.resonanceCC.Load())
}

// ActiveVoices reports the number of voices sounding after the last block.
func (s *Synth) ActiveVoices() int {
	return int(s.activeVoices.Load())
}

// MutedBlocks counts blocks silenced because of an out-of-range sample.
func (s *Synth) MutedBlocks() uint64 {
	return s.mutedBlocks.Load()
}

// Coefficients returns the coefficients in use. Audio goroutine only.
func (s *Synth) Coefficients() Coefficients {
	return s.coef
}

func (s *Synth) update(c Controls) {
	prevVoices := s.numVoices
	c.Apply(&s.coef, s.sampleRateOrDefault())
	s.numVoices = s.coef.NumVoices
	if s.numVoices < 1 {
		s.numVoices = 1
	}
	if s.numVoices > MaxVoices {
		s.numVoices = MaxVoices
	}
	if s.numVoices < prevVoices {
		for i := s.numVoices; i < MaxVoices; i++ {
			s.voices[i].reset()
		}
	}
	if s.numVoices > 1 {
		s.queueSize = 0
	}
	s.outputLevel.linear(s.coef.OutputLevel)
}

func (s *Synth) sampleRateOrDefault() float64 {
	if s.sampleRate <= 0 {
		return defaultSampleRate
	}
	return s.sampleRate
}

// ----- Notes ----- //

func (s *Synth) noteOn(note int, velocity int) {
	if s.coef.IgnoreVelocity {
		velocity = ignoredVelocity
	}
	if s.numVoices == 1 {
		// a held note that has decayed to silence no longer owns the voice
		if s.voices[0].note >= 0 && s.voices[0].IsActive() {
			s.queueNote(note, velocity)
			return
		}
		s.queueSize = 0
		s.startVoice(0, note, velocity)
		return
	}
	s.startVoice(s.findFreeVoice(), note, velocity)
}

func (s *Synth) noteOff(note int) {
	if s.numVoices == 1 {
		if s.voices[0].note == note {
			if q, ok := s.popQueuedNote(); ok {
				s.restartMonoVoice(q.note, q.velocity)
				return
			}
		} else if s.removeQueuedNote(note) {
			return
		}
	}
	for i := range s.voices {
		v := &s.voices[i]
		if v.note != note {
			continue
		}
		if s.sustainPedalPressed {
			v.note = sustainedNote
		} else {
			v.release()
			v.note = noNote
		}
	}
}

func (s *Synth) releaseSustained() {
	for i := range s.voices {
		v := &s.voices[i]
		if v.note == sustainedNote {
			v.release()
			v.note = noNote
		}
	}
}

// findFreeVoice prefers a silent voice, then the quietest voice past its
// attack, then the voice started longest ago.
func (s *Synth) findFreeVoice() int {
	for i := 0; i < s.numVoices; i++ {
		if !s.voices[i].env.IsActive() {
			return i
		}
	}
	quietest := -1
	level := math.Inf(1)
	for i := 0; i < s.numVoices; i++ {
		v := &s.voices[i]
		if !v.env.IsInAttack() && v.env.Level < level {
			level = v.env.Level
			quietest = i
		}
	}
	if quietest >= 0 {
		return quietest
	}
	oldest := 0
	for i := 1; i < s.numVoices; i++ {
		if s.voices[i].started < s.voices[oldest].started {
			oldest = i
		}
	}
	return oldest
}

func (s *Synth) isPlayingLegatoStyle(except int) bool {
	for i := range s.voices {
		if i != except && s.voices[i].note >= 0 {
			return true
		}
	}
	return false
}

func (s *Synth) startVoice(index int, note int, velocity int) {
	v := &s.voices[index]
	period := s.calcPeriod(index, note)

	glide := s.coef.GlideMode == GlideAlways ||
		(s.coef.GlideMode == GlideLegato && s.isPlayingLegatoStyle(index))
	noteDistance := 0
	if s.lastNote >= 0 && glide {
		noteDistance = note - s.lastNote
	}
	v.target = period
	v.period = period * math.Pow(semitone, float64(noteDistance)-s.coef.GlideBend)
	if v.period < minPeriod {
		v.period = minPeriod
	}

	s.lastNote = note
	s.startSeq++
	v.started = s.startSeq
	v.note = note
	v.updatePanning()

	v.cutoff = s.sampleRate / (period * math.Pi)
	v.cutoff *= math.Exp(s.coef.VelocitySensitivity * float64(velocity-64))

	vel := 0.004*float64((velocity+64)*(velocity+64)) - 8
	v.osc1.Amplitude = s.coef.VolumeTrim * vel
	v.osc2.Amplitude = v.osc1.Amplitude * s.coef.OscMix

	v.env.AttackMultiplier = s.coef.EnvAttack
	v.env.DecayMultiplier = s.coef.EnvDecay
	v.env.SustainLevel = clamp(s.coef.EnvSustain, 0, 1)
	v.env.ReleaseMultiplier = s.coef.EnvRelease
	v.env.Attack()

	v.filterEnv.AttackMultiplier = s.coef.FilterAttack
	v.filterEnv.DecayMultiplier = s.coef.FilterDecay
	v.filterEnv.SustainLevel = clamp(s.coef.FilterSustain, 0, 1)
	v.filterEnv.ReleaseMultiplier = s.coef.FilterRelease
	v.filterEnv.Attack()
}

// restartMonoVoice changes the pitch of voice 0 without retriggering its
// envelopes. A negative velocity keeps the current cutoff scaling.
func (s *Synth) restartMonoVoice(note int, velocity int) {
	v := &s.voices[0]
	period := s.calcPeriod(0, note)
	v.target = period
	if s.coef.GlideMode == GlideOff {
		v.period = period
	}
	v.env.Level += silence + silence
	s.lastNote = note
	v.note = note
	v.updatePanning()

	v.cutoff = s.sampleRate / (period * math.Pi)
	if velocity > 0 {
		v.cutoff *= math.Exp(s.coef.VelocitySensitivity * float64(velocity-64))
	}
}

// calcPeriod returns the oscillator period in samples, raised by octaves until
// both oscillators are at least minPeriod long.
func (s *Synth) calcPeriod(index int, note int) float64 {
	period := s.coef.Tune * math.Exp(-noteToPeriod*(float64(note)+analog*float64(index)))
	if !(period > 0) || math.IsInf(period, 0) {
		return minPeriod
	}
	detune := s.coef.Detune
	if !(detune > 0) || math.IsInf(detune, 0) {
		detune = 1
	}
	for period < minPeriod || period*detune < minPeriod {
		period += period
	}
	return period
}

// ----- Mono Note Queue ----- //

func (s *Synth) queueNote(note int, velocity int) {
	s.removeQueuedNote(note)
	if s.queueSize == len(s.queue) {
		copy(s.queue[:], s.queue[1:])
		s.queueSize--
	}
	s.queue[s.queueSize] = queuedNote{note: note, velocity: velocity}
	s.queueSize++
}

func (s *Synth) popQueuedNote() (queuedNote, bool) {
	if s.queueSize == 0 {
		return queuedNote{}, false
	}
	s.queueSize--
	return s.queue[s.queueSize], true
}

func (s *Synth) removeQueuedNote(note int) bool {
	for i := 0; i < s.queueSize; i++ {
		if s.queue[i].note == note {
			copy(s.queue[i:s.queueSize], s.queue[i+1:s.queueSize])
			s.queueSize--
			return true
		}
	}
	return false
}

// QueuedNotes returns the deferred mono notes, oldest first. Audio goroutine
// only.
func (s *Synth) QueuedNotes() []int {
	notes := make([]int, s.queueSize)
	for i := range notes {
		notes[i] = s.queue[i].note
	}
	return notes
}

// ----- MIDI ----- //

// MidiMessage applies one channel message. Longer messages are filtered out
// by the caller.
func (s *Synth) MidiMessage(status, data1, data2 byte) {
	switch status & 0xF0 {
	case 0x80:
		s.noteOff(int(data1 & 0x7F))
	case 0x90:
		note := int(data1 & 0x7F)
		velo := int(data2 & 0x7F)
		if velo > 0 {
			s.noteOn(note, velo)
		} else {
			s.noteOff(note)
		}
	case 0xB0:
		s.controlChange(data1, data2)
	case 0xD0:
		p := float64(data1 & 0x7F)
		s.pressure = 0.0001 * p * p
	case 0xE0:
		bend := float64(int(data1) + 128*int(data2) - 8192)
		s.pitchBend = math.Max(math.Exp(-0.000014102*bend), minPitchBend)
	}
}

func (s *Synth) controlChange(data1, data2 byte) {
	value := float64(data2 & 0x7F)
	switch data1 {
	case 0x40: // sustain
		s.sustainPedalPressed = data2 >= 64
		if !s.sustainPedalPressed {
			s.releaseSustained()
		}
	case 0x01: // mod wheel
		s.modWheel = 0.000005 * value * value
	case 0x4A: // brightness
		s.filterCtl = 0.02 * value
	case 0x47: // resonance
		s.resonanceCtl = 154 / (154 - value)
	default:
		if data1 >= 0x78 {
			for i := range s.voices {
				s.voices[i].reset()
			}
			s.sustainPedalPressed = false
			s.queueSize = 0
		} else if cc := s.ResonanceCC(); cc != 0 && data1 == cc {
			s.resonanceCtl = 154 / (154 - value)
		}
	}
}
