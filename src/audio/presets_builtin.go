package audio

import "github.com/jinjor/desktop-synth/src/synth"

// ----- Factory Presets ----- //

// presetRow holds values in this order: oscMix, oscTune, oscFine, glideMode,
// glideRate, glideBend, filterFreq, filterReso, filterEnv, filterLFO,
// filterVelocity, filterAttack, filterDecay, filterSustain, filterRelease,
// envAttack, envDecay, envSustain, envRelease, lfoRate, vibrato, noise,
// octave, tuning, outputLevel, polyMode.
type presetRow [26]float64

func (r presetRow) params() synth.Params {
	return synth.Params{
		OscMix:         r[0],
		OscTune:        r[1],
		OscFine:        r[2],
		GlideMode:      synth.GlideMode(r[3]),
		GlideRate:      r[4],
		GlideBend:      r[5],
		FilterFreq:     r[6],
		FilterReso:     r[7],
		FilterEnv:      r[8],
		FilterLFO:      r[9],
		FilterVelocity: r[10],
		FilterAttack:   r[11],
		FilterDecay:    r[12],
		FilterSustain:  r[13],
		FilterRelease:  r[14],
		EnvAttack:      r[15],
		EnvDecay:       r[16],
		EnvSustain:     r[17],
		EnvRelease:     r[18],
		LFORate:        r[19],
		Vibrato:        r[20],
		Noise:          r[21],
		Octave:         r[22],
		Tuning:         r[23],
		OutputLevel:    r[24],
		PolyMode:       r[25] != 0,
	}
}

var factoryPresets = []struct {
	name   string
	values presetRow
}{
	{"Init", presetRow{0, -12, 0, 0, 35, 0, 100, 15, 50, 0, 0, 0, 30, 0, 25, 0, 50, 100, 30, 0.81, 0, 0, 0, 0, 0, 1}},
	{"5th Sweep Pad", presetRow{100, -7, -6.3, 1, 32, 0, 90, 60, -76, 0, 0, 90, 89, 90, 73, 0, 50, 100, 71, 0.81, 30, 0, 0, 0, 0, 1}},
	{"Echo Pad [SA]", presetRow{88, 0, 0, 0, 49, 0, 46, 76, 38, 10, 38, 100, 86, 76, 57, 30, 80, 68, 66, 0.79, -74, 25, 0, 0, 0, 1}},
	{"Space Chimes [SA]", presetRow{88, 0, 0, 0, 49, 0, 49, 82, 32, 8, 78, 85, 69, 76, 47, 12, 22, 55, 66, 0.89, -32, 0, 2, 0, 0, 1}},
	{"Solid Backing", presetRow{100, -12, -18.7, 0, 35, 0, 30, 25, 40, 0, 26, 0, 35, 0, 25, 0, 50, 100, 30, 0.81, 0, 50, 0, 0, 0, 1}},
	{"Velocity Backing [SA]", presetRow{41, 0, 9.7, 0, 8, -1.68, 49, 1, -32, 0, 86, 61, 87, 100, 93, 11, 48, 98, 32, 0.81, 0, 0, 0, 0, 0, 1}},
	{"Rubber Backing [ZF]", presetRow{29, 12, -5.6, 0, 18, 5.06, 35, 15, 54, 14, 8, 0, 42, 13, 21, 0, 56, 0, 32, 0.2, 16, 22, 0, 0, 0, 1}},
	{"808 State Lead", presetRow{100, 7, -7.1, 2, 34, 12.35, 65, 63, 50, 16, 0, 0, 30, 0, 25, 17, 50, 100, 3, 0.81, 0, 0, 1, 0, 0, 1}},
	{"Mono Glide", presetRow{0, -12, 0, 2, 46, 0, 51, 0, 0, 0, -100, 0, 30, 0, 25, 37, 50, 100, 38, 0.81, 24, 0, 0, 0, 0, 0}},
	{"Detuned Techno Lead", presetRow{84, 0, -17.2, 2, 41, -0.15, 54, 1, 16, 21, 34, 0, 9, 100, 25, 20, 85, 100, 30, 0.83, -82, 40, 0, 0, 0, 1}},
	{"Hard Lead [SA]", presetRow{71, 12, 0, 0, 24, 36, 56, 52, 38, 19, 40, 100, 14, 65, 95, 7, 91, 100, 15, 0.84, -34, 0, 0, 0, 0, 1}},
	{"Bubble", presetRow{0, -12, -0.2, 0, 71, 0, 23, 77, 60, 32, 26, 40, 18, 66, 14, 0, 38, 65, 16, 0.48, 0, 0, 1, 0, 0, 1}},
	{"Monosynth", presetRow{62, -12, 0, 1, 35, 0.02, 64, 39, 2, 65, -100, 7, 52, 24, 84, 13, 30, 76, 21, 0.58, -40, 0, -1, 0, 0, 0}},
	{"Moogcury Lite", presetRow{81, 24, -9.8, 1, 15, -0.97, 39, 17, 38, 40, 24, 0, 47, 19, 37, 0, 50, 20, 33, 0.38, 6, 0, -2, 0, 0, 0}},
	{"Gangsta Whine", presetRow{0, 0, 0, 2, 44, 0, 41, 46, 0, 0, -100, 0, 0, 100, 25, 15, 50, 100, 32, 0.81, -2, 0, 2, 0, 0, 0}},
	{"Higher Synth [ZF]", presetRow{48, 0, -8.8, 0, 0, 0, 50, 47, 46, 30, 60, 0, 10, 0, 7, 0, 42, 0, 22, 0.21, 18, 16, 2, 0, 0, 1}},
	{"303 Saw Bass", presetRow{0, 0, 0, 1, 49, 0, 55, 75, 38, 35, 0, 0, 56, 0, 56, 0, 80, 100, 24, 0.26, -2, 0, -2, 0, 0, 0}},
	{"303 Square Bass", presetRow{75, 0, 0, 1, 49, 0, 55, 75, 38, 35, 0, 14, 49, 0, 39, 0, 80, 100, 24, 0.26, -2, 0, -2, 0, 0, 0}},
	{"Analog Bass", presetRow{100, -12, -10.9, 1, 19, 0, 30, 51, 70, 9, -100, 0, 88, 0, 21, 0, 50, 100, 46, 0.81, 0, 0, -1, 0, 0, 0}},
	{"Analog Bass 2", presetRow{100, -12, -10.9, 0, 19, 13.44, 48, 43, 88, 0, 60, 0, 0, 0, 0, 0, 61, 100, 32, 0.81, 0, 0, -1, 0, 0, 0}},
	{"Low Pulses", presetRow{97, -12, -3.3, 0, 35, 0, 80, 40, 4, 0, 0, 0, 77, 0, 25, 0, 50, 100, 30, 0.81, -68, 0, -2, 0, 0, 1}},
	{"Sine Infra-Bass", presetRow{0, -12, 0, 0, 35, 0, 33, 76, 6, 0, 0, 0, 30, 0, 25, 0, 55, 25, 30, 0.81, 4, 0, -2, 0, 0, 0}},
	{"Wobble Bass [SA]", presetRow{100, -12, -8.8, 0, 82, 0.21, 72, 47, -32, 34, 64, 20, 69, 100, 15, 9, 50, 100, 7, 0.81, -8, 0, -1, 0, 0, 0}},
	{"Squelch Bass", presetRow{100, -12, -8.8, 0, 35, 0, 67, 70, -48, 0, 0, 48, 69, 100, 15, 0, 50, 100, 7, 0.81, -8, 0, -1, 0, 0, 0}},
	{"Rubber Bass [ZF]", presetRow{49, -12, 1.6, 1, 35, 0, 36, 15, 50, 20, 0, 0, 38, 0, 25, 0, 60, 100, 22, 0.19, 0, 0, -2, 0, 0, 0}},
	{"Soft Pick Bass", presetRow{37, 0, 7.8, 0, 22, 0, 33, 47, 42, 16, 18, 0, 0, 0, 25, 4, 58, 0, 22, 0.15, -12, 33, -2, 0, 0, 0}},
	{"Fretless Bass", presetRow{50, 0, -14.4, 1, 34, 0, 51, 0, 16, 0, 34, 0, 9, 0, 25, 20, 85, 0, 30, 0.81, 40, 0, -2, 0, 0, 0}},
	{"Whistler", presetRow{23, 0, -0.7, 0, 35, 0, 33, 100, 0, 0, 0, 0, 29, 0, 25, 68, 39, 58, 36, 0.81, 28, 38, 2, 0, 0, 1}},
	{"Very Soft Pad", presetRow{39, 0, -4.9, 2, 12, 0, 35, 78, 0, 0, 0, 0, 30, 0, 25, 35, 50, 80, 70, 0.81, 0, 0, 0, 0, 0, 1}},
	{"Pizzicato", presetRow{0, -12, 0, 0, 35, 0, 23, 20, 50, 0, 0, 0, 22, 0, 25, 0, 47, 0, 30, 0.81, 0, 80, 0, 0, 0, 1}},
	{"Synth Strings", presetRow{100, 0, -7.1, 0, 0, -0.97, 42, 26, 50, 14, 38, 0, 67, 55, 97, 82, 70, 100, 42, 0.84, 34, 30, 0, 0, 0, 1}},
	{"Synth Strings 2", presetRow{75, 0, -3.8, 0, 49, 0, 55, 16, 38, 8, -60, 76, 29, 76, 100, 46, 80, 100, 39, 0.79, -46, 0, 1, 0, 0, 1}},
	{"Leslie Organ", presetRow{0, 0, 0, 0, 13, -0.38, 38, 74, 8, 20, -100, 0, 55, 52, 31, 0, 17, 73, 28, 0.87, -52, 0, -1, 0, 0, 1}},
	{"Click Organ", presetRow{50, 12, 0, 0, 35, 0, 44, 50, 30, 16, -100, 0, 0, 18, 0, 0, 75, 80, 0, 0.81, -2, 0, 0, 0, 0, 1}},
	{"Hard Organ", presetRow{89, 19, -0.9, 0, 35, 0, 51, 62, 8, 0, -100, 0, 37, 0, 100, 4, 8, 72, 4, 0.77, -2, 0, 0, 0, 0, 1}},
	{"Bass Clarinet", presetRow{100, 0, 0, 1, 0, 0, 51, 10, 0, 11, 0, 0, 0, 0, 25, 35, 65, 65, 32, 0.79, -2, 20, -1, 0, 0, 1}},
	{"Trumpet", presetRow{0, 0, 0, 1, 6, 0, 57, 0, -36, 15, 0, 21, 15, 0, 25, 24, 60, 80, 10, 0.75, 10, 25, 1, 0, 0, 0}},
	{"Soft Horn", presetRow{12, 19, 1.9, 0, 35, 0, 50, 21, -42, 12, 20, 0, 35, 36, 25, 8, 50, 100, 27, 0.83, 2, 10, -1, 0, 0, 1}},
	{"Brass Section", presetRow{43, 12, -7.9, 0, 28, -0.79, 50, 0, 18, 0, 0, 24, 16, 91, 8, 17, 50, 80, 45, 0.81, 0, 0, 0, 0, 0, 1}},
	{"Synth Brass", presetRow{40, 0, -6.3, 0, 30, -3.07, 39, 15, 50, 0, 0, 39, 30, 82, 25, 33, 74, 76, 41, 0.81, -6, 23, 0, 0, 0, 1}},
	{"Detuned Syn Brass [ZF]", presetRow{68, 0, 31.8, 0, 31, 0.5, 26, 7, 70, 0, 32, 0, 83, 0, 5, 0, 75, 54, 32, 0.76, -26, 29, 0, 0, 0, 1}},
	{"Power PWM", presetRow{100, -12, -8.8, 0, 35, 0, 82, 13, 50, 0, -100, 24, 30, 88, 34, 0, 50, 100, 48, 0.71, -26, 0, -1, 0, 0, 1}},
	{"Water Velocity [SA]", presetRow{76, 0, -1.4, 0, 49, 0, 87, 67, 100, 32, -82, 95, 56, 72, 100, 4, 76, 11, 46, 0.88, 44, 0, -1, 0, 0, 1}},
	{"Ghost [SA]", presetRow{75, 0, -7.1, 2, 16, 0, 38, 58, 50, 16, 62, 0, 30, 40, 31, 37, 50, 100, 54, 0.85, 66, 43, 0, 0, 0, 1}},
	{"Soft E.Piano", presetRow{31, 0, -0.2, 0, 35, 0, 34, 26, 6, 0, 26, 0, 22, 0, 39, 0, 80, 0, 44, 0.81, 2, 0, 0, 0, 0, 1}},
	{"Thumb Piano", presetRow{72, 15, 50, 0, 35, 0, 37, 47, 8, 0, 0, 0, 45, 0, 39, 0, 39, 0, 48, 0.81, 20, 0, 1, 0, 0, 1}},
	{"Steel Drums [ZF]", presetRow{81, 12, -12, 0, 18, 2.3, 40, 30, 8, 17, -20, 0, 42, 23, 47, 12, 48, 0, 49, 0.53, -28, 34, 0, 0, 0, 1}},
	{"Car Horn", presetRow{57, -1, -2.8, 0, 35, 0, 46, 0, 36, 0, 0, 46, 30, 100, 23, 30, 50, 100, 31, 1, -24, 0, 0, 0, 0, 1}},
	{"Helicopter", presetRow{0, -12, 0, 0, 35, 0, 8, 36, 38, 100, 0, 100, 100, 0, 100, 96, 50, 100, 92, 0.97, 0, 100, -2, 0, 0, 1}},
	{"Arctic Wind", presetRow{0, -12, 0, 0, 35, 0, 16, 85, 0, 28, 0, 37, 30, 0, 25, 89, 50, 100, 89, 0.24, 0, 100, 2, 0, 0, 1}},
	{"Thip", presetRow{100, -7, 0, 0, 35, 0, 0, 100, 94, 0, 0, 2, 20, 0, 20, 0, 46, 0, 30, 0.81, 0, 78, 0, 0, 0, 1}},
	{"Synth Tom", presetRow{0, -12, 0, 0, 76, 24.53, 30, 33, 52, 0, 36, 0, 59, 0, 59, 10, 50, 0, 50, 0.81, 0, 70, -2, 0, 0, 1}},
	{"Squelchy Frog", presetRow{50, -5, -7.9, 2, 77, -36, 40, 65, 90, 0, 0, 33, 50, 0, 25, 0, 70, 65, 18, 0.32, 100, 0, -2, 0, 0, 1}},
}
