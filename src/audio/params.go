package audio

import (
	"encoding/json"
	"log"
	"strconv"

	"github.com/jinjor/desktop-synth/src/synth"
	"github.com/pkg/errors"
)

const (
	layoutParams = "params"
	layoutMacro  = "macro"
)

// ----- Params ----- //

// params is the control-side copy of everything the synth is told. It is
// owned by the command goroutine.
type params struct {
	layout string
	synth  synth.Params
	macro  synth.MacroParams
}

func newParams() *params {
	return &params{
		layout: layoutParams,
		synth:  synth.DefaultParams(),
		macro:  synth.DefaultMacroParams(),
	}
}

func (p *params) controls() synth.Controls {
	if p.layout == layoutMacro {
		return p.macro
	}
	return p.synth
}

func (p *params) setPolyMode(poly bool) {
	p.synth.PolyMode = poly
	p.macro.PolyMode = 0
	if poly {
		p.macro.PolyMode = 1
	}
}

// setOutputLevel is shared by both layouts.
func (p *params) setOutputLevel(db float64) {
	p.synth.OutputLevel = db
	p.macro.OutputLevel = db
}

func (p *params) setLayout(layout string) error {
	switch layout {
	case layoutParams, layoutMacro:
		p.layout = layout
		return nil
	}
	return errors.Errorf("unknown layout %q", layout)
}

func (p *params) set(key string, value string) error {
	if p.layout == layoutMacro {
		return setMacroParam(&p.macro, key, value)
	}
	return setSynthParam(&p.synth, key, value)
}

// ----- JSON ----- //

type paramsJSON struct {
	Poly           string  `json:"poly"`
	OscMix         float64 `json:"oscMix"`
	OscTune        float64 `json:"oscTune"`
	OscFine        float64 `json:"oscFine"`
	GlideMode      string  `json:"glideMode"`
	GlideRate      float64 `json:"glideRate"`
	GlideBend      float64 `json:"glideBend"`
	FilterFreq     float64 `json:"filterFreq"`
	FilterReso     float64 `json:"filterReso"`
	FilterEnv      float64 `json:"filterEnv"`
	FilterLFO      float64 `json:"filterLFO"`
	FilterVelocity float64 `json:"filterVelocity"`
	FilterAttack   float64 `json:"filterAttack"`
	FilterDecay    float64 `json:"filterDecay"`
	FilterSustain  float64 `json:"filterSustain"`
	FilterRelease  float64 `json:"filterRelease"`
	EnvAttack      float64 `json:"envAttack"`
	EnvDecay       float64 `json:"envDecay"`
	EnvSustain     float64 `json:"envSustain"`
	EnvRelease     float64 `json:"envRelease"`
	LFORate        float64 `json:"lfoRate"`
	Vibrato        float64 `json:"vibrato"`
	Noise          float64 `json:"noise"`
	Octave         float64 `json:"octave"`
	Tuning         float64 `json:"tuning"`
	OutputLevel    float64 `json:"outputLevel"`
}

func applySynthParamsJSON(p *synth.Params, data json.RawMessage) error {
	j := paramsJSON{}
	if err := json.Unmarshal(data, &j); err != nil {
		return errors.Wrap(err, "failed to apply JSON to params")
	}
	glideMode, err := parseGlideMode(j.GlideMode)
	if err != nil {
		return err
	}
	*p = synth.Params{
		PolyMode:       j.Poly != "mono",
		OscMix:         j.OscMix,
		OscTune:        j.OscTune,
		OscFine:        j.OscFine,
		GlideMode:      glideMode,
		GlideRate:      j.GlideRate,
		GlideBend:      j.GlideBend,
		FilterFreq:     j.FilterFreq,
		FilterReso:     j.FilterReso,
		FilterEnv:      j.FilterEnv,
		FilterLFO:      j.FilterLFO,
		FilterVelocity: j.FilterVelocity,
		FilterAttack:   j.FilterAttack,
		FilterDecay:    j.FilterDecay,
		FilterSustain:  j.FilterSustain,
		FilterRelease:  j.FilterRelease,
		EnvAttack:      j.EnvAttack,
		EnvDecay:       j.EnvDecay,
		EnvSustain:     j.EnvSustain,
		EnvRelease:     j.EnvRelease,
		LFORate:        j.LFORate,
		Vibrato:        j.Vibrato,
		Noise:          j.Noise,
		Octave:         j.Octave,
		Tuning:         j.Tuning,
		OutputLevel:    j.OutputLevel,
	}
	return nil
}

func synthParamsToJSON(p *synth.Params) json.RawMessage {
	poly := "mono"
	if p.PolyMode {
		poly = "poly"
	}
	return toRawMessage(&paramsJSON{
		Poly:           poly,
		OscMix:         p.OscMix,
		OscTune:        p.OscTune,
		OscFine:        p.OscFine,
		GlideMode:      p.GlideMode.String(),
		GlideRate:      p.GlideRate,
		GlideBend:      p.GlideBend,
		FilterFreq:     p.FilterFreq,
		FilterReso:     p.FilterReso,
		FilterEnv:      p.FilterEnv,
		FilterLFO:      p.FilterLFO,
		FilterVelocity: p.FilterVelocity,
		FilterAttack:   p.FilterAttack,
		FilterDecay:    p.FilterDecay,
		FilterSustain:  p.FilterSustain,
		FilterRelease:  p.FilterRelease,
		EnvAttack:      p.EnvAttack,
		EnvDecay:       p.EnvDecay,
		EnvSustain:     p.EnvSustain,
		EnvRelease:     p.EnvRelease,
		LFORate:        p.LFORate,
		Vibrato:        p.Vibrato,
		Noise:          p.Noise,
		Octave:         p.Octave,
		Tuning:         p.Tuning,
		OutputLevel:    p.OutputLevel,
	})
}

type macroJSON struct {
	Poly        string  `json:"poly"`
	GlideMode   string  `json:"glideMode"`
	PitchMode   int     `json:"pitchMode"`
	Type        float64 `json:"type"`
	Tone        float64 `json:"tone"`
	Shape       float64 `json:"shape"`
	Style       float64 `json:"style"`
	OutputLevel float64 `json:"outputLevel"`
}

type stateJSON struct {
	Layout string          `json:"layout"`
	Params json.RawMessage `json:"params"`
	Macro  json.RawMessage `json:"macro"`
}

func (p *params) applyJSON(data json.RawMessage) {
	var j stateJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to state:", err)
		return
	}
	if err := p.setLayout(j.Layout); err != nil {
		log.Println(err)
	}
	if len(j.Params) > 0 {
		if err := applySynthParamsJSON(&p.synth, j.Params); err != nil {
			log.Println(err)
		}
	}
	if len(j.Macro) > 0 {
		var m macroJSON
		if err := json.Unmarshal(j.Macro, &m); err != nil {
			log.Println("failed to apply JSON to macro:", err)
			return
		}
		glideMode, err := parseGlideMode(m.GlideMode)
		if err != nil {
			log.Println(err)
		}
		p.macro = synth.MacroParams{
			GlideMode:   glideMode,
			PitchMode:   m.PitchMode,
			Type:        m.Type,
			Tone:        m.Tone,
			Shape:       m.Shape,
			Style:       m.Style,
			OutputLevel: m.OutputLevel,
		}
		if m.Poly != "mono" {
			p.macro.PolyMode = 1
		}
	}
}

func (p *params) toJSON() json.RawMessage {
	poly := "mono"
	if p.macro.PolyMode != 0 {
		poly = "poly"
	}
	return toRawMessage(&stateJSON{
		Layout: p.layout,
		Params: synthParamsToJSON(&p.synth),
		Macro: toRawMessage(&macroJSON{
			Poly:        poly,
			GlideMode:   p.macro.GlideMode.String(),
			PitchMode:   p.macro.PitchMode,
			Type:        p.macro.Type,
			Tone:        p.macro.Tone,
			Shape:       p.macro.Shape,
			Style:       p.macro.Style,
			OutputLevel: p.macro.OutputLevel,
		}),
	})
}

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- Setters ----- //

func parseGlideMode(value string) (synth.GlideMode, error) {
	switch value {
	case "off", "":
		return synth.GlideOff, nil
	case "legato":
		return synth.GlideLegato, nil
	case "always":
		return synth.GlideAlways, nil
	}
	return synth.GlideOff, errors.Errorf("unknown glide mode %q", value)
}

func synthParamField(p *synth.Params, key string) *float64 {
	switch key {
	case "oscMix":
		return &p.OscMix
	case "oscTune":
		return &p.OscTune
	case "oscFine":
		return &p.OscFine
	case "glideRate":
		return &p.GlideRate
	case "glideBend":
		return &p.GlideBend
	case "filterFreq":
		return &p.FilterFreq
	case "filterReso":
		return &p.FilterReso
	case "filterEnv":
		return &p.FilterEnv
	case "filterLFO":
		return &p.FilterLFO
	case "filterVelocity":
		return &p.FilterVelocity
	case "filterAttack":
		return &p.FilterAttack
	case "filterDecay":
		return &p.FilterDecay
	case "filterSustain":
		return &p.FilterSustain
	case "filterRelease":
		return &p.FilterRelease
	case "envAttack":
		return &p.EnvAttack
	case "envDecay":
		return &p.EnvDecay
	case "envSustain":
		return &p.EnvSustain
	case "envRelease":
		return &p.EnvRelease
	case "lfoRate":
		return &p.LFORate
	case "vibrato":
		return &p.Vibrato
	case "noise":
		return &p.Noise
	case "octave":
		return &p.Octave
	case "tuning":
		return &p.Tuning
	case "outputLevel":
		return &p.OutputLevel
	}
	return nil
}

func setSynthParam(p *synth.Params, key string, value string) error {
	switch key {
	case "glideMode":
		mode, err := parseGlideMode(value)
		if err != nil {
			return err
		}
		p.GlideMode = mode
		return nil
	case "polyMode":
		poly, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
		p.PolyMode = poly
		return nil
	}
	field := synthParamField(p, key)
	if field == nil {
		return errors.Errorf("unknown param %q", key)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}
	*field = v
	return nil
}

func setMacroParam(m *synth.MacroParams, key string, value string) error {
	switch key {
	case "glideMode":
		mode, err := parseGlideMode(value)
		if err != nil {
			return err
		}
		m.GlideMode = mode
		return nil
	case "pitchMode", "polyMode":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid value for %s", key)
		}
		if key == "pitchMode" {
			m.PitchMode = int(v)
		} else {
			m.PolyMode = int(v)
		}
		return nil
	}
	var field *float64
	switch key {
	case "type":
		field = &m.Type
	case "tone":
		field = &m.Tone
	case "shape":
		field = &m.Shape
	case "style":
		field = &m.Style
	case "outputLevel":
		field = &m.OutputLevel
	default:
		return errors.Errorf("unknown macro param %q", key)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}
	*field = v
	return nil
}
