package audio

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jinjor/desktop-synth/src/synth"
	"github.com/pkg/errors"
)

type presetMetaJSON struct {
	Name string `json:"name"`
}
type presetMetaListJSON struct {
	Items []presetMetaJSON `json:"items"`
}
type presetMeta struct {
	name string
}
type presetData struct {
	list []*presetMeta
}

// presetManager reads presets from dir/_list.json and dir/<name>.json. With
// no directory, or a directory without a list, the built-in bank is used.
type presetManager struct {
	dir  string
	data *presetData
}

func newPresetManager(dir string) *presetManager {
	return &presetManager{
		dir: dir,
	}
}

func (pm *presetManager) getList() ([]*presetMeta, error) {
	if pm.data == nil {
		if err := pm.loadData(); err != nil {
			return nil, err
		}
	}
	return pm.data.list, nil
}

func (pm *presetManager) applyToParams(name string, target *params) error {
	if pm.dir != "" {
		bytes, err := os.ReadFile(filepath.Join(pm.dir, name+".json"))
		if err == nil {
			target.applyJSON(bytes)
			return nil
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to read preset %q", name)
		}
	}
	for _, p := range factoryPresets {
		if p.name == name {
			applyFactoryPreset(p.values, target)
			return nil
		}
	}
	return errors.Errorf("preset %q not found", name)
}

func (pm *presetManager) nameAt(index int) (string, error) {
	list, err := pm.getList()
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(list) {
		return "", errors.Errorf("preset index %d out of range (0 ~ %d)", index, len(list)-1)
	}
	return list[index].name, nil
}

func (pm *presetManager) loadData() error {
	list := make([]*presetMeta, 0, 128)
	if pm.dir != "" {
		bytes, err := os.ReadFile(filepath.Join(pm.dir, "_list.json"))
		if err == nil {
			metaListJSON := &presetMetaListJSON{}
			if err := json.Unmarshal(bytes, metaListJSON); err != nil {
				return errors.Wrap(err, "failed to parse preset list")
			}
			for _, item := range metaListJSON.Items {
				list = append(list, &presetMeta{name: item.Name})
			}
			pm.data = &presetData{list: list}
			return nil
		}
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "failed to read preset list")
		}
	}
	for _, p := range factoryPresets {
		list = append(list, &presetMeta{name: p.name})
	}
	pm.data = &presetData{list: list}
	return nil
}

func (pm *presetManager) save(name string, p *params) error {
	if pm.dir == "" {
		return errors.New("no preset directory")
	}
	if err := SavePreset(pm.dir, name, p.toJSON()); err != nil {
		return err
	}
	list, err := pm.getList()
	if err != nil {
		return err
	}
	for _, meta := range list {
		if meta.name == name {
			return nil
		}
	}
	pm.data.list = append(pm.data.list, &presetMeta{name: name})
	names := make([]string, len(pm.data.list))
	for i, meta := range pm.data.list {
		names[i] = meta.name
	}
	return SavePresetList(pm.dir, names)
}

func applyFactoryPreset(values presetRow, target *params) {
	target.layout = layoutParams
	target.synth = values.params()
	target.setPolyMode(target.synth.PolyMode)
	target.macro.OutputLevel = target.synth.OutputLevel
}

// ----- Files ----- //

// SavePreset writes one preset document.
func SavePreset(dir string, name string, data json.RawMessage) error {
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// SavePresetList writes dir/_list.json.
func SavePresetList(dir string, names []string) error {
	list := presetMetaListJSON{Items: make([]presetMetaJSON, len(names))}
	for i, name := range names {
		list.Items[i].Name = name
	}
	path := filepath.Join(dir, "_list.json")
	if err := os.WriteFile(path, toRawMessage(&list), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// FactoryPresetNames lists the built-in bank in program order.
func FactoryPresetNames() []string {
	names := make([]string, len(factoryPresets))
	for i, p := range factoryPresets {
		names[i] = p.name
	}
	return names
}

// FactoryPresetJSON renders a built-in preset as a preset document.
func FactoryPresetJSON(index int) (json.RawMessage, error) {
	if index < 0 || index >= len(factoryPresets) {
		return nil, errors.Errorf("no factory preset %d", index)
	}
	p := newParams()
	applyFactoryPreset(factoryPresets[index].values, p)
	return p.toJSON(), nil
}

// FactoryParams returns the params of a built-in preset.
func FactoryParams(index int) (synth.Params, error) {
	if index < 0 || index >= len(factoryPresets) {
		return synth.Params{}, errors.Errorf("no factory preset %d", index)
	}
	return factoryPresets[index].values.params(), nil
}
