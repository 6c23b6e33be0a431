package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// ----- Keyboard ----- //

// keyboardLayout maps two QWERTY rows onto semitones above the base note.
var keyboardLayout = map[rune]int{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6, 'g': 7,
	'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12, 'o': 13, 'l': 14, 'p': 15,
	';': 16, '\'': 17,
}

const (
	keyboardVelocity = 100
	minKeyboardBase  = 12
	maxKeyboardBase  = 108
)

// keyboard turns key presses into notes. Terminals report no key releases,
// so every note is released after hold unless the key repeats first.
type keyboard struct {
	mu       sync.Mutex
	send     func(data []byte)
	hold     time.Duration
	base     int
	timers   map[int]*time.Timer
	lastNote int
}

func newKeyboard(send func(data []byte), hold time.Duration) *keyboard {
	return &keyboard{
		send:     send,
		hold:     hold,
		base:     60,
		timers:   make(map[int]*time.Timer),
		lastNote: -1,
	}
}

func (k *keyboard) noteFor(r rune) (int, bool) {
	offset, ok := keyboardLayout[r]
	if !ok {
		return 0, false
	}
	note := k.base + offset
	if note > 127 {
		return 0, false
	}
	return note, true
}

// press handles one rune and reports whether it was used.
func (k *keyboard) press(r rune) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	switch r {
	case 'z':
		if k.base-12 >= minKeyboardBase {
			k.base -= 12
		}
		return true
	case 'x':
		if k.base+12 <= maxKeyboardBase {
			k.base += 12
		}
		return true
	}
	note, ok := k.noteFor(r)
	if !ok {
		return false
	}
	k.lastNote = note
	if timer, held := k.timers[note]; held {
		timer.Reset(k.hold)
		return true
	}
	k.send([]byte{0x90, byte(note), keyboardVelocity})
	k.timers[note] = time.AfterFunc(k.hold, func() {
		k.release(note)
	})
	return true
}

func (k *keyboard) release(note int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, held := k.timers[note]; !held {
		return
	}
	delete(k.timers, note)
	k.send([]byte{0x80, byte(note), 0})
}

func (k *keyboard) releaseAll() {
	k.mu.Lock()
	notes := make([]int, 0, len(k.timers))
	for note, timer := range k.timers {
		timer.Stop()
		notes = append(notes, note)
	}
	k.mu.Unlock()
	for _, note := range notes {
		k.release(note)
	}
}

func (k *keyboard) status() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return fmt.Sprintf("octave %d  held %d  last note %d", k.base/12-1, len(k.timers), k.lastNote)
}

func drawText(screen tcell.Screen, y int, text string, style tcell.Style) {
	for x, r := range text {
		screen.SetContent(x, y, r, nil, style)
	}
}

// RunKeyboard plays the synth from the terminal until Esc, Ctrl-C or ctx is
// done.
func RunKeyboard(ctx context.Context, audio *Audio, hold time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "failed to init screen")
	}
	defer screen.Fini()

	k := newKeyboard(audio.addMidiEvent, hold)
	defer k.releaseAll()

	stop := context.AfterFunc(ctx, func() {
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	title := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	draw := func() {
		screen.Clear()
		drawText(screen, 0, "desktop-synth", title)
		drawText(screen, 1, "a w s e d f t g y h u j k o l p ; '  play   z/x  octave   esc  quit", tcell.StyleDefault)
		drawText(screen, 3, k.status(), tcell.StyleDefault)
		drawText(screen, 4, fmt.Sprintf("voices %d  peak %.3f", audio.ActiveVoices(), audio.Peak()), tcell.StyleDefault)
		screen.Show()
	}
	draw()
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if ev.Key() == tcell.KeyRune {
				k.press(ev.Rune())
			}
		}
		draw()
	}
}
