package audio

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
)

// matchPort picks a port by number or by a case-insensitive name fragment.
// An empty query picks the first port.
func matchPort(names []string, query string) int {
	if len(names) == 0 {
		return -1
	}
	if query == "" {
		return 0
	}
	if n, err := strconv.Atoi(query); err == nil {
		if n >= 0 && n < len(names) {
			return n
		}
		return -1
	}
	query = strings.ToLower(query)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), query) {
			return i
		}
	}
	return -1
}

func selectMidiIn(ins []midi.In, query string) (midi.In, error) {
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	index := matchPort(names, query)
	if index < 0 {
		return nil, errors.Errorf("MIDI IN %q not found in %v", query, names)
	}
	return ins[index], nil
}

// ListenToMidiIn delivers raw messages from the selected input until ctx is
// done. The channel is closed when listening stops.
func ListenToMidiIn(ctx context.Context, port string) <-chan []byte {
	ch := make(chan []byte, 65536)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			log.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			err := drv.Close()
			if err != nil {
				log.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			log.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		log.Printf("MIDI IN: %v\n", ins)

		in, err := selectMidiIn(ins, port)
		if err != nil {
			log.Printf("WARN: %v\n", err)
			return
		}
		if err := in.Open(); err != nil {
			log.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		log.Println("opened " + in.String())
		defer func() {
			err := in.Close()
			if err != nil {
				log.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		log.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := make([]byte, len(data))
			copy(msg, data)
			select {
			case ch <- msg:
			default:
			}
		}); err != nil {
			log.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			log.Println("stop listening MIDI IN...")
			err := in.StopListening()
			if err != nil {
				log.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}
