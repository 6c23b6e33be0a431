package audio

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopxl/beep"
)

func renderText(t *testing.T, text string) (*RenderResult, string) {
	t.Helper()
	score, err := ParseScore(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	result, err := RenderScore(f, score, Options{}, beep.SampleRate(sampleRate))
	if err != nil {
		t.Fatal(err)
	}
	return result, path
}

func TestRenderScore(t *testing.T) {
	result, path := renderText(t, "0 note_on 69 100\n600 note_off 69\n700 end\n")
	expectEqual(t, result.Frames, 33600)
	expectEqual(t, result.MutedBlocks, uint64(0))
	if result.Peak <= 0 || result.Peak > 2 {
		t.Errorf("unexpected peak %v", result.Peak)
	}
	if math.Abs(result.DominantFrequency-440) > 10 {
		t.Errorf("expected about 440Hz, but got: %v", result.DominantFrequency)
	}
	info, err := os.Stat(path)
	expectNoError(t, err)
	expectEqual(t, info.Size(), int64(44+33600*4))
}

func TestRenderScoreSilence(t *testing.T) {
	result, _ := renderText(t, "100 end\n")
	expectEqual(t, result.Frames, 4800)
	expectEqual(t, result.Peak, 0.0)
}

func TestRenderScoreWithControlEvents(t *testing.T) {
	result, _ := renderText(t, "0 program 1\n0 cc 7 0\n10 note_on 60\n300 end\n")
	expectEqual(t, result.Frames, 14400)
	if result.Peak <= 0 {
		t.Error("expected sound after the program change")
	}
}

func TestScoreStreamerSplitsAtProgramChange(t *testing.T) {
	score, err := ParseScore(strings.NewReader("0 note_on 60\n5 program 2\n20 end\n"))
	expectNoError(t, err)
	audio := newTestAudio()
	audio.synth.SetNonRealtime(true)
	s := newScoreStreamer(audio, score, beep.SampleRate(sampleRate))
	samples := make([][2]float64, 2000)
	n, ok := s.Stream(samples)
	expectEqual(t, ok, true)
	expectEqual(t, n, 960)
	expectEqual(t, audio.control.preset, factoryPresets[2].name)
	expectEqual(t, audio.control.params.synth, factoryPresets[2].values.params())
	n, ok = s.Stream(samples)
	expectEqual(t, n, 0)
	expectEqual(t, ok, false)
	expectEqual(t, s.Err(), nil)
}
