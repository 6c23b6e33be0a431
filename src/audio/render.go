package audio

import (
	"io"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/jinjor/desktop-synth/src/synth"
)

// ----- Offline Render ----- //

type scheduledEvent struct {
	frame int
	data  []byte
}

// scoreStreamer plays a score through an Audio without a device. Blocks are
// split at control events so a preset takes effect at its exact frame.
type scoreStreamer struct {
	audio  *Audio
	events []scheduledEvent
	next   int
	frame  int
	length int
	left   []float64
	right  []float64
	batch  []synth.Event
	tap    []float64
	peak   float64
}

func newScoreStreamer(audio *Audio, score *Score, rate beep.SampleRate) *scoreStreamer {
	s := &scoreStreamer{
		audio:  audio,
		events: make([]scheduledEvent, len(score.Events)),
		length: msToFrames(score.EndMs, rate),
		left:   make([]float64, samplesPerCycle),
		right:  make([]float64, samplesPerCycle),
		batch:  make([]synth.Event, 0, 64),
	}
	for i, e := range score.Events {
		s.events[i] = scheduledEvent{frame: msToFrames(e.Ms, rate), data: e.Data}
	}
	return s
}

func msToFrames(ms float64, rate beep.SampleRate) int {
	return int(math.Round(ms * float64(rate) / 1000))
}

// isControlEvent reports messages that change the control state rather than
// the synth, which must land between blocks.
func isControlEvent(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	switch data[0] & 0xF0 {
	case 0xC0:
		return true
	case 0xB0:
		return len(data) > 2 && data[1] == 7
	}
	return false
}

func (s *scoreStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.frame >= s.length {
		return 0, false
	}
	filled := 0
	for filled < len(samples) && s.frame < s.length {
		n := s.streamChunk(samples[filled:])
		filled += n
	}
	return filled, true
}

func (s *scoreStreamer) streamChunk(samples [][2]float64) int {
	n := len(samples)
	if n > s.length-s.frame {
		n = s.length - s.frame
	}
	if n > len(s.left) {
		n = len(s.left)
	}
	pos := 0
	for pos < n {
		end := n
		s.batch = s.batch[:0]
		for s.next < len(s.events) {
			e := s.events[s.next]
			offset := e.frame - s.frame
			if offset >= end {
				break
			}
			if isControlEvent(e.data) {
				if offset > pos {
					end = offset
					break
				}
				s.audio.AddMidiEvent(e.data)
				s.next++
				continue
			}
			if event, ok := synth.NewEvent(offset-pos, e.data); ok {
				s.batch = append(s.batch, event)
			}
			s.next++
		}
		s.audio.synth.ProcessBlock(s.left[pos:end], s.right[pos:end], s.batch)
		pos = end
	}
	for i := 0; i < n; i++ {
		samples[i][0] = s.left[i]
		samples[i][1] = s.right[i]
	}
	s.tap = append(s.tap, s.left[:n]...)
	s.peak = math.Max(s.peak, math.Max(Peak(s.left[:n]), Peak(s.right[:n])))
	s.frame += n
	return n
}

func (s *scoreStreamer) Err() error { return nil }

// RenderResult describes a finished offline render.
type RenderResult struct {
	Frames            int
	Peak              float64
	DominantFrequency float64
	MutedBlocks       uint64
}

// RenderScore renders a score into a 16-bit stereo WAV. Every block
// recomputes controls, so parameter changes apply without delay.
func RenderScore(w io.WriteSeeker, score *Score, opts Options, rate beep.SampleRate) (*RenderResult, error) {
	audio := newAudio(opts, float64(rate))
	audio.synth.SetNonRealtime(true)
	streamer := newScoreStreamer(audio, score, rate)
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, streamer, format); err != nil {
		return nil, err
	}
	result := &RenderResult{
		Frames:      streamer.frame,
		Peak:        streamer.peak,
		MutedBlocks: audio.synth.MutedBlocks(),
	}
	if freq, err := DominantFrequency(streamer.tap, float64(rate)); err == nil {
		result.DominantFrequency = freq
	}
	return result, nil
}
