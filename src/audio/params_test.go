package audio

import (
	"encoding/json"
	"testing"

	"github.com/jinjor/desktop-synth/src/synth"
)

func TestParamsJSON(t *testing.T) {
	p := newParams()
	expectNoError(t, p.set("filterReso", "70"))
	expectNoError(t, p.set("glideMode", "always"))
	p.setPolyMode(false)
	expectNoError(t, p.setLayout(layoutMacro))
	expectNoError(t, p.set("shape", "33"))
	expectNoError(t, p.set("pitchMode", "1"))

	q := newParams()
	q.applyJSON(p.toJSON())
	expectEqual(t, q.layout, layoutMacro)
	expectEqual(t, q.synth, p.synth)
	expectEqual(t, q.macro, p.macro)
}

func TestParamsJSONKeys(t *testing.T) {
	p := newParams()
	var doc map[string]json.RawMessage
	expectNoError(t, json.Unmarshal(p.toJSON(), &doc))
	var fields map[string]interface{}
	expectNoError(t, json.Unmarshal(doc["params"], &fields))
	expectEqual(t, fields["poly"], "poly")
	expectEqual(t, fields["glideMode"], "off")
	expectEqual(t, fields["filterFreq"], 100.0)
	expectEqual(t, fields["lfoRate"], 0.81)
}

func TestApplyBrokenJSON(t *testing.T) {
	p := newParams()
	p.applyJSON(json.RawMessage(`{"layout":`))
	expectEqual(t, p.synth, synth.DefaultParams())
	p.applyJSON(json.RawMessage(`{"layout":"params","params":{"glideMode":"sideways"}}`))
	expectEqual(t, p.synth, synth.DefaultParams())
}

func TestSetParam(t *testing.T) {
	p := synth.DefaultParams()
	expectNoError(t, setSynthParam(&p, "envAttack", "12.5"))
	expectEqual(t, p.EnvAttack, 12.5)
	expectNoError(t, setSynthParam(&p, "polyMode", "false"))
	expectEqual(t, p.PolyMode, false)
	expectError(t, setSynthParam(&p, "polyMode", "maybe"))
	expectError(t, setSynthParam(&p, "glideMode", "sideways"))
	expectError(t, setSynthParam(&p, "envAttack", ""))

	m := synth.DefaultMacroParams()
	expectNoError(t, setMacroParam(&m, "type", "0.5"))
	expectEqual(t, m.Type, 0.5)
	expectNoError(t, setMacroParam(&m, "polyMode", "0"))
	expectEqual(t, m.PolyMode, 0)
	expectError(t, setMacroParam(&m, "pitchMode", "1.5"))
	expectError(t, setMacroParam(&m, "oscMix", "1"))
}
