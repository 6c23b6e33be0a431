package audio

import (
	"log"
	"strconv"

	"github.com/pkg/errors"
)

// ----- Commands ----- //

func processCommands(audio *Audio, commandCh <-chan []string) {
	for command := range commandCh {
		if err := audio.update(command); err != nil {
			log.Printf("command %v failed: %v\n", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

func parseMidiValue(s string, max int64) (byte, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number %q", s)
	}
	if v < 0 || v > max {
		return 0, errors.Errorf("%d is out of range (0 ~ %d)", v, max)
	}
	return byte(v), nil
}

func expectArgs(command []string, min int, max int) error {
	n := len(command) - 1
	if n < min || n > max {
		return errors.Errorf("%s takes %d to %d arguments, got %d", command[0], min, max, n)
	}
	return nil
}

// update runs one command line. Notes and controllers are queued for the
// audio goroutine; everything else changes the control state and publishes it.
func (a *Audio) update(command []string) error {
	if len(command) == 0 || command[0] == "" {
		return errors.New("empty command")
	}
	switch command[0] {
	case "note_on":
		if err := expectArgs(command, 1, 2); err != nil {
			return err
		}
		note, err := parseMidiValue(command[1], 127)
		if err != nil {
			return err
		}
		velocity := byte(100)
		if len(command) > 2 {
			if velocity, err = parseMidiValue(command[2], 127); err != nil {
				return err
			}
		}
		a.addMidiEvent([]byte{0x90, note, velocity})
		return nil
	case "note_off":
		if err := expectArgs(command, 1, 1); err != nil {
			return err
		}
		note, err := parseMidiValue(command[1], 127)
		if err != nil {
			return err
		}
		a.addMidiEvent([]byte{0x80, note, 0})
		return nil
	case "cc":
		if err := expectArgs(command, 2, 2); err != nil {
			return err
		}
		cc, err := parseMidiValue(command[1], 127)
		if err != nil {
			return err
		}
		value, err := parseMidiValue(command[2], 127)
		if err != nil {
			return err
		}
		a.AddMidiEvent([]byte{0xB0, cc, value})
		return nil
	case "bend":
		if err := expectArgs(command, 1, 1); err != nil {
			return err
		}
		v, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return errors.Wrapf(err, "invalid bend %q", command[1])
		}
		if v < 0 || v > 16383 {
			return errors.Errorf("bend %d is out of range (0 ~ 16383)", v)
		}
		a.addMidiEvent([]byte{0xE0, byte(v & 0x7F), byte(v >> 7)})
		return nil
	}

	a.control.Lock()
	defer a.control.Unlock()
	p := a.control.params
	switch command[0] {
	case "set":
		if err := expectArgs(command, 2, 2); err != nil {
			return err
		}
		if err := p.set(command[1], command[2]); err != nil {
			return err
		}
	case "layout":
		if err := expectArgs(command, 1, 1); err != nil {
			return err
		}
		if err := p.setLayout(command[1]); err != nil {
			return err
		}
	case "mono":
		p.setPolyMode(false)
	case "poly":
		p.setPolyMode(true)
	case "preset":
		if err := expectArgs(command, 1, 1); err != nil {
			return err
		}
		if index, err := strconv.Atoi(command[1]); err == nil {
			return a.applyPresetIndex(index)
		}
		return a.applyPreset(command[1])
	case "save":
		if err := expectArgs(command, 1, 1); err != nil {
			return err
		}
		if err := a.control.presets.save(command[1], p); err != nil {
			return err
		}
		a.control.preset = command[1]
		return nil
	case "learn":
		a.control.learn = true
		return nil
	case "reset":
		a.synth.RequestReset()
		return nil
	default:
		return errors.Errorf("unknown command %v", command[0])
	}
	a.synth.SetControls(p.controls())
	return nil
}

// applyPreset must be called with the control mutex held.
func (a *Audio) applyPreset(name string) error {
	if err := a.control.presets.applyToParams(name, a.control.params); err != nil {
		return err
	}
	a.control.preset = name
	a.synth.SetControls(a.control.params.controls())
	a.synth.RequestReset()
	log.Printf("preset: %s\n", name)
	return nil
}

// applyPresetIndex must be called with the control mutex held.
func (a *Audio) applyPresetIndex(index int) error {
	name, err := a.control.presets.nameAt(index)
	if err != nil {
		return err
	}
	return a.applyPreset(name)
}
