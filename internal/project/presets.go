package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/SpriteCut/internal/engine"
	"github.com/piwi3910/SpriteCut/internal/model"
)

// Preset is a named set of pack settings, compared alongside the built-in
// scenarios.
type Preset struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Settings    model.PackSettings `json:"settings"`
}

// DefaultPresetsPath returns the default file path for saved presets.
func DefaultPresetsPath() string {
	return filepath.Join(DefaultConfigDir(), "presets.json")
}

// SavePresets saves presets to a JSON file.
func SavePresets(path string, presets []Preset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(presets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadPresets loads presets from a JSON file.
// Returns an empty slice if the file does not exist.
func LoadPresets(path string) ([]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Preset{}, nil
		}
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	// Settings a preset leaves out keep their default values.
	presets := make([]Preset, 0, len(raw))
	for i, r := range raw {
		p := Preset{Settings: model.DefaultSettings()}
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
		p.Settings = p.Settings.Clamped()
		presets = append(presets, p)
	}
	return presets, nil
}

// FindPreset returns the preset called name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetScenarios turns presets into comparison scenarios. The surface
// size always comes from base so every scenario packs the same area.
func PresetScenarios(base model.PackSettings, presets []Preset) []engine.ComparisonScenario {
	scenarios := make([]engine.ComparisonScenario, 0, len(presets))
	for _, p := range presets {
		s := p.Settings
		s.Width, s.Height = base.Width, base.Height
		scenarios = append(scenarios, engine.ComparisonScenario{Name: p.Name, Settings: s})
	}
	return scenarios
}
