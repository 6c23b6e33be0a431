package audio

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseScore(t *testing.T) {
	text := `
# a short phrase
0 program 3
0 note_on 60 90
250 note_off 60
100 cc 74 127
100 bend 8192
120 note_on 64
300 raw 90 40 00
900 end
`
	score, err := ParseScore(strings.NewReader(text))
	expectNoError(t, err)
	expectEqual(t, score.EndMs, 900.0)
	expectEqual(t, len(score.Events), 7)
	expected := []ScoreEvent{
		{0, []byte{0xC0, 3}},
		{0, []byte{0x90, 60, 90}},
		{100, []byte{0xB0, 74, 127}},
		{100, []byte{0xE0, 0, 64}},
		{120, []byte{0x90, 64, 100}},
		{250, []byte{0x80, 60, 0}},
		{300, []byte{0x90, 0x40, 0}},
	}
	for i, e := range expected {
		expectEqual(t, score.Events[i].Ms, e.Ms)
		if !bytes.Equal(score.Events[i].Data, e.Data) {
			t.Errorf("event %d: expected %x, but got: %x", i, e.Data, score.Events[i].Data)
		}
	}
}

func TestParseScoreDefaultEnd(t *testing.T) {
	score, err := ParseScore(strings.NewReader("500 note_on 60\n"))
	expectNoError(t, err)
	expectEqual(t, score.EndMs, 500+scoreTail)

	score, err = ParseScore(strings.NewReader(""))
	expectNoError(t, err)
	expectEqual(t, score.EndMs, scoreTail)
}

func TestParseScoreErrors(t *testing.T) {
	for _, text := range []string{
		"note_on 60",
		"-1 note_on 60",
		"x note_on 60",
		"0 note_on",
		"0 note_on 128",
		"0 cc 1",
		"0 bend -1",
		"0 program",
		"0 raw zz",
		"0 raw f0 01 02 03 f7",
		"0 raw 40",
		"0 chord 60",
		"0 note_on %zz",
	} {
		if _, err := ParseScore(strings.NewReader(text)); err == nil {
			t.Errorf("expected an error for %q", text)
		}
	}
}
