package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SpriteCut/internal/model"
)

func testPresets() []Preset {
	eager := model.DefaultSettings()
	eager.MinCutArea = 500

	boxes := model.DefaultSettings()
	boxes.DisableCuts = true
	boxes.Padding = 4

	return []Preset{
		{Name: "eager", Description: "Cut small corners", Settings: eager},
		{Name: "boxes", Settings: boxes},
	}
}

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "presets.json")
	presets := testPresets()

	if err := SavePresets(path, presets); err != nil {
		t.Fatalf("SavePresets failed: %v", err)
	}

	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded))
	}
	for i := range presets {
		if loaded[i] != presets[i] {
			t.Errorf("preset %d: expected %+v, got %+v", i, presets[i], loaded[i])
		}
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if presets == nil || len(presets) != 0 {
		t.Errorf("expected empty slice, got %v", presets)
	}
}

func TestLoadPresetsRejectsUnnamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte(`[{"settings": {"width": 256}}]`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadPresets(path); err == nil {
		t.Fatal("expected error for unnamed preset")
	}
}

func TestLoadPresetsPartialSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	data := `[{"name": "eager", "settings": {"min_cut_area": 1000}}, {"name": "tight", "settings": {"padding": 0}}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(presets))
	}

	want := model.DefaultSettings()
	want.MinCutArea = 1000
	if presets[0].Settings != want {
		t.Errorf("expected defaults with min_cut_area 1000, got %+v", presets[0].Settings)
	}
	if presets[1].Settings.Padding != model.DefaultPadding {
		t.Errorf("expected padding raised to %d, got %d", model.DefaultPadding, presets[1].Settings.Padding)
	}
	if presets[1].Settings.MinCutArea != model.DefaultMinCutArea {
		t.Errorf("expected default min cut area, got %d", presets[1].Settings.MinCutArea)
	}
}

func TestFindPreset(t *testing.T) {
	presets := testPresets()

	p, ok := FindPreset(presets, "boxes")
	if !ok || !p.Settings.DisableCuts {
		t.Errorf("expected boxes preset, got %+v (found=%v)", p, ok)
	}
	if _, ok := FindPreset(presets, "missing"); ok {
		t.Error("expected missing preset not to be found")
	}
}

func TestPresetScenarios(t *testing.T) {
	base := model.DefaultSettings()
	base.Width, base.Height = 300, 200

	scenarios := PresetScenarios(base, testPresets())
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(scenarios))
	}
	if scenarios[0].Name != "eager" || scenarios[0].Settings.MinCutArea != 500 {
		t.Errorf("unexpected scenario %+v", scenarios[0])
	}
	for _, s := range scenarios {
		if s.Settings.Width != 300 || s.Settings.Height != 200 {
			t.Errorf("%s: expected base surface size, got %dx%d", s.Name, s.Settings.Width, s.Settings.Height)
		}
	}
}
