package audio

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto"
	"github.com/jinjor/desktop-synth/src/synth"
)

const (
	sampleRate      = 48000
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	midiQueueSize   = 1024
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096
const secPerSample = 1.0 / sampleRate

// ----- Utility ----- //

func now() float64 {
	return float64(time.Now().UnixNano()) / 1000 / 1000 / 1000
}

// ----- MIDI Event ----- //

type midiEvent struct {
	data [3]byte
	size int
	at   float64 // arrival time in seconds
}

// ----- Options ----- //

// Options ...
type Options struct {
	PresetDir  string
	FilterKind synth.FilterKind
}

// ----- Audio ----- //

// Audio renders the synth for an oto player. Read belongs to the player
// goroutine and never takes the control mutex.
type Audio struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	midiCh     chan midiEvent
	synth      *synth.Synth

	control struct {
		sync.Mutex
		params  *params
		presets *presetManager
		preset  string
		learn   bool
	}

	left     []float64
	right    []float64
	events   []synth.Event
	lastRead float64
	peak     atomic.Uint64
}

var _ io.Reader = (*Audio)(nil)

// NewAudio opens the output device and starts processing commands.
func NewAudio(opts Options) (*Audio, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	audio := newAudio(opts, sampleRate)
	audio.otoContext = otoContext
	go processCommands(audio, audio.CommandCh)
	return audio, nil
}

func newAudio(opts Options, sampleRate float64) *Audio {
	s := synth.New(opts.FilterKind)
	s.AllocateResources(sampleRate, samplesPerCycle)
	a := &Audio{
		ctx:       context.Background(),
		CommandCh: make(chan []string, 256),
		midiCh:    make(chan midiEvent, midiQueueSize),
		synth:     s,
		left:      make([]float64, samplesPerCycle),
		right:     make([]float64, samplesPerCycle),
		events:    make([]synth.Event, 0, midiQueueSize),
		lastRead:  now(),
	}
	a.control.params = newParams()
	a.control.presets = newPresetManager(opts.PresetDir)
	s.SetControls(a.control.params.controls())
	return a
}

// Synth ...
func (a *Audio) Synth() *synth.Synth {
	return a.synth
}

// ApplyJSON replaces the whole control state.
func (a *Audio) ApplyJSON(data []byte) {
	a.control.Lock()
	defer a.control.Unlock()
	a.control.params.applyJSON(data)
	a.synth.SetControls(a.control.params.controls())
}

// ToJSON ...
func (a *Audio) ToJSON() []byte {
	a.control.Lock()
	defer a.control.Unlock()
	return a.control.params.toJSON()
}

func (a *Audio) Read(buf []byte) (int, error) {
	select {
	case <-a.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	timestamp := now()
	frames := len(buf) / bytesPerSample
	if frames == 0 {
		return 0, nil
	}
	a.collectEvents(frames)

	peak := 0.0
	events := a.events
	for pos := 0; pos < frames; pos += samplesPerCycle {
		n := frames - pos
		if n > samplesPerCycle {
			n = samplesPerCycle
		}
		// events for this chunk are a prefix since offsets are sorted
		k := 0
		for k < len(events) && events[k].Offset < pos+n {
			events[k].Offset -= pos
			k++
		}
		a.synth.ProcessBlock(a.left[:n], a.right[:n], events[:k])
		events = events[k:]
		writeBuffer(a.left[:n], buf[pos*bytesPerSample:], 0)
		writeBuffer(a.right[:n], buf[pos*bytesPerSample:], 1)
		peak = math.Max(peak, math.Max(Peak(a.left[:n]), Peak(a.right[:n])))
	}
	a.peak.Store(math.Float64bits(peak))
	a.lastRead = timestamp
	return frames * bytesPerSample, nil
}

// collectEvents drains the MIDI queue without blocking and maps each arrival
// time onto a frame of the coming buffer.
func (a *Audio) collectEvents(frames int) {
	a.events = a.events[:0]
loop:
	for len(a.events) < cap(a.events) {
		select {
		case e := <-a.midiCh:
			offset := int((e.at - a.lastRead) / secPerSample)
			if offset < 0 {
				offset = 0
			}
			if offset >= frames {
				offset = frames - 1
			}
			if event, ok := synth.NewEvent(offset, e.data[:e.size]); ok {
				a.events = append(a.events, event)
			}
		default:
			break loop
		}
	}
	synth.SortEvents(a.events)
}

func writeBuffer(out []float64, buf []byte, ch int) {
	for i, value := range out {
		const max = 32767
		if value > 1 {
			value = 1
		} else if value < -1 {
			value = -1
		}
		b := int16(value * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Peak returns the absolute peak of the last rendered buffer.
func (a *Audio) Peak() float64 {
	return math.Float64frombits(a.peak.Load())
}

// ActiveVoices ...
func (a *Audio) ActiveVoices() int {
	return a.synth.ActiveVoices()
}

// Close ...
func (a *Audio) Close() error {
	log.Println("Closing Audio...")
	close(a.CommandCh)
	if a.otoContext == nil {
		return nil
	}
	return a.otoContext.Close()
}

// Start ...
func (a *Audio) Start(ctx context.Context) error {
	p := a.otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	a.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, a, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// ----- MIDI ----- //

// AddMidiEvent routes a raw message from a MIDI input. Program changes select
// presets, CC 7 sets the output level and, while learning, the next CC
// becomes the resonance controller. Everything else goes to the synth.
func (a *Audio) AddMidiEvent(data []byte) {
	if len(data) == 0 {
		return
	}
	switch data[0] & 0xF0 {
	case 0xC0:
		if len(data) < 2 {
			return
		}
		a.control.Lock()
		defer a.control.Unlock()
		if err := a.applyPresetIndex(int(data[1])); err != nil {
			log.Printf("failed to change program: %v\n", err)
		}
		return
	case 0xB0:
		if len(data) < 3 {
			return
		}
		if a.handleControlChange(data[1], data[2]) {
			return
		}
	}
	a.addMidiEvent(data)
}

func (a *Audio) handleControlChange(cc, value byte) bool {
	a.control.Lock()
	defer a.control.Unlock()
	if a.control.learn {
		a.control.learn = false
		a.synth.SetResonanceCC(cc)
		log.Printf("learned resonance CC %d\n", cc)
		return true
	}
	if cc == 7 {
		level := -24 + 30*float64(value)/127
		a.control.params.setOutputLevel(level)
		a.synth.SetControls(a.control.params.controls())
		return true
	}
	return false
}

func (a *Audio) addMidiEvent(data []byte) {
	if len(data) > 3 {
		return
	}
	e := midiEvent{size: len(data), at: now()}
	copy(e.data[:], data)
	select {
	case a.midiCh <- e:
	default:
		log.Println("[WARN] MIDI queue is full")
	}
}

// ----- Report ----- //

type reportJSON struct {
	Voices      int     `json:"voices"`
	Peak        float64 `json:"peak"`
	MutedBlocks uint64  `json:"mutedBlocks"`
	Preset      string  `json:"preset"`
	Learning    bool    `json:"learning"`
}

// Report is a snapshot of the engine for the UI.
func (a *Audio) Report() json.RawMessage {
	a.control.Lock()
	preset := a.control.preset
	learning := a.control.learn
	a.control.Unlock()
	return toRawMessage(&reportJSON{
		Voices:      a.synth.ActiveVoices(),
		Peak:        a.Peak(),
		MutedBlocks: a.synth.MutedBlocks(),
		Preset:      preset,
		Learning:    learning,
	})
}
