package audio

import (
	"bufio"
	"encoding/hex"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ----- Score ----- //

// ScoreEvent is a MIDI message at a point in time.
type ScoreEvent struct {
	Ms   float64
	Data []byte
}

// Score is a timed list of MIDI messages, read from lines of the form
// "<ms> <command> <args...>".
type Score struct {
	Events []ScoreEvent
	EndMs  float64
}

// scoreTail is rendered after the last event when no "end" line is given.
const scoreTail = 1000.0

// ParseScore reads a score. Blank lines and lines starting with '#' are
// skipped. Events are returned in time order; events at the same time keep
// their order in the file.
func ParseScore(r io.Reader) (*Score, error) {
	score := &Score{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	endMs := -1.0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		for i, f := range fields {
			unescaped, err := url.QueryUnescape(f)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			fields[i] = unescaped
		}
		if len(fields) < 2 {
			return nil, errors.Errorf("line %d: expected <ms> <command>", lineNo)
		}
		ms, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || ms < 0 {
			return nil, errors.Errorf("line %d: invalid time %q", lineNo, fields[0])
		}
		if fields[1] == "end" {
			endMs = ms
			continue
		}
		data, err := parseScoreCommand(fields[1:])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		score.Events = append(score.Events, ScoreEvent{Ms: ms, Data: data})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read score")
	}
	sort.SliceStable(score.Events, func(i, j int) bool {
		return score.Events[i].Ms < score.Events[j].Ms
	})
	score.EndMs = endMs
	if endMs < 0 {
		score.EndMs = scoreTail
		if n := len(score.Events); n > 0 {
			score.EndMs += score.Events[n-1].Ms
		}
	}
	return score, nil
}

func parseScoreCommand(command []string) ([]byte, error) {
	args := command[1:]
	arg := func(i int, max int64) (byte, error) {
		if i >= len(args) {
			return 0, errors.Errorf("%s: missing argument %d", command[0], i+1)
		}
		return parseMidiValue(args[i], max)
	}
	switch command[0] {
	case "note_on":
		note, err := arg(0, 127)
		if err != nil {
			return nil, err
		}
		velocity := byte(100)
		if len(args) > 1 {
			if velocity, err = arg(1, 127); err != nil {
				return nil, err
			}
		}
		return []byte{0x90, note, velocity}, nil
	case "note_off":
		note, err := arg(0, 127)
		if err != nil {
			return nil, err
		}
		return []byte{0x80, note, 0}, nil
	case "cc":
		cc, err := arg(0, 127)
		if err != nil {
			return nil, err
		}
		value, err := arg(1, 127)
		if err != nil {
			return nil, err
		}
		return []byte{0xB0, cc, value}, nil
	case "bend":
		if len(args) < 1 {
			return nil, errors.New("bend: missing argument 1")
		}
		v, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil || v < 0 || v > 16383 {
			return nil, errors.Errorf("bend: invalid value %q", args[0])
		}
		return []byte{0xE0, byte(v & 0x7F), byte(v >> 7)}, nil
	case "program":
		program, err := arg(0, 127)
		if err != nil {
			return nil, err
		}
		return []byte{0xC0, program}, nil
	case "raw":
		data, err := hex.DecodeString(strings.Join(args, ""))
		if err != nil {
			return nil, errors.Wrap(err, "raw: invalid hex")
		}
		if len(data) == 0 || len(data) > 3 || data[0] < 0x80 {
			return nil, errors.Errorf("raw: %x is not a channel message", data)
		}
		return data, nil
	}
	return nil, errors.Errorf("unknown score command %q", command[0])
}
