package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFactoryPresets(t *testing.T) {
	names := FactoryPresetNames()
	expectEqual(t, len(names), len(factoryPresets))
	expectEqual(t, names[0], "Init")
	seen := make(map[string]bool)
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate preset name %q", name)
		}
		seen[name] = true
	}
	_, err := FactoryPresetJSON(len(names))
	expectError(t, err)
	_, err = FactoryParams(-1)
	expectError(t, err)
	p, err := FactoryParams(0)
	expectNoError(t, err)
	expectEqual(t, p.PolyMode, true)
}

func TestPresetManagerWithoutDir(t *testing.T) {
	pm := newPresetManager("")
	list, err := pm.getList()
	expectNoError(t, err)
	expectEqual(t, len(list), len(factoryPresets))
	name, err := pm.nameAt(1)
	expectNoError(t, err)
	expectEqual(t, name, factoryPresets[1].name)
	_, err = pm.nameAt(len(list))
	expectError(t, err)
	expectError(t, pm.save("mine", newParams()))
}

func TestPresetManagerWithDir(t *testing.T) {
	dir := t.TempDir()
	data, err := FactoryPresetJSON(4)
	expectNoError(t, err)
	expectNoError(t, SavePreset(dir, "fourth", data))
	expectNoError(t, SavePresetList(dir, []string{"fourth"}))

	pm := newPresetManager(dir)
	list, err := pm.getList()
	expectNoError(t, err)
	expectEqual(t, len(list), 1)
	expectEqual(t, list[0].name, "fourth")

	p := newParams()
	expectNoError(t, pm.applyToParams("fourth", p))
	expectEqual(t, p.synth, factoryPresets[4].values.params())

	// names missing from the directory fall back to the built-in bank
	expectNoError(t, pm.applyToParams("Init", p))
	expectEqual(t, p.synth, factoryPresets[0].values.params())

	expectNoError(t, p.set("filterFreq", "12"))
	expectNoError(t, pm.save("mine", p))
	expectNoError(t, pm.save("mine", p))
	list, err = pm.getList()
	expectNoError(t, err)
	expectEqual(t, len(list), 2)

	reloaded := newPresetManager(dir)
	name, err := reloaded.nameAt(1)
	expectNoError(t, err)
	expectEqual(t, name, "mine")
	q := newParams()
	expectNoError(t, reloaded.applyToParams("mine", q))
	expectEqual(t, q.synth.FilterFreq, 12.0)
}

func TestPresetManagerBrokenList(t *testing.T) {
	dir := t.TempDir()
	expectNoError(t, os.WriteFile(filepath.Join(dir, "_list.json"), []byte("{"), 0644))
	pm := newPresetManager(dir)
	_, err := pm.getList()
	expectError(t, err)
}
