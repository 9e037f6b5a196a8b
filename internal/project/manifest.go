package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/SpriteCut/internal/model"
)

// ManifestVersion is written into every new manifest.
const ManifestVersion = "1.0.0"

// UVRect is a normalized texture rectangle; Max is exclusive.
type UVRect struct {
	U0 float64 `json:"u0"`
	V0 float64 `json:"v0"`
	U1 float64 `json:"u1"`
	V1 float64 `json:"v1"`
}

// ManifestSprite describes one placed sprite in the atlas.
type ManifestSprite struct {
	ID      string        `json:"id"`
	Path    string        `json:"path"`
	X       int           `json:"x"`
	Y       int           `json:"y"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Mask    uint8         `json:"mask"`
	Polygon model.Polygon `json:"polygon"` // Surface coordinates
	UV      UVRect        `json:"uv"`
}

// Manifest is the machine-readable description of a packed atlas.
type Manifest struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	RunID     string           `json:"run_id"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Sprites   []ManifestSprite `json:"sprites"`
	Unplaced  []string         `json:"unplaced"`
}

// NewManifest describes result. paths is indexed by Sprite.Source.
func NewManifest(result model.PackResult, paths []string) Manifest {
	m := Manifest{
		Version:   ManifestVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		RunID:     uuid.New().String(),
		Width:     result.Width,
		Height:    result.Height,
		Sprites:   []ManifestSprite{},
		Unplaced:  []string{},
	}

	for _, s := range result.Sprites {
		path := ""
		if s.Source >= 0 && s.Source < len(paths) {
			path = paths[s.Source]
		}
		if !s.Fitted {
			m.Unplaced = append(m.Unplaced, path)
			continue
		}
		outline := s.Outline()
		m.Sprites = append(m.Sprites, ManifestSprite{
			ID:      s.ID,
			Path:    path,
			X:       s.X,
			Y:       s.Y,
			Width:   s.Width,
			Height:  s.Height,
			Mask:    uint8(s.Mask),
			Polygon: outline,
			UV:      uvRect(outline, result.Width, result.Height),
		})
	}
	return m
}

// uvRect covers every pixel of the outline.
func uvRect(outline model.Polygon, w, h int) UVRect {
	if w <= 0 || h <= 0 {
		return UVRect{}
	}
	lo, hi := outline.BoundingBox()
	fw, fh := float64(w), float64(h)
	return UVRect{
		U0: float64(lo.X) / fw,
		V0: float64(lo.Y) / fh,
		U1: float64(hi.X+1) / fw,
		V1: float64(hi.Y+1) / fh,
	}
}

// SaveManifest writes m to path as indented JSON.
func SaveManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}

// LoadManifest reads a manifest written by SaveManifest.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest file: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest file: %w", err)
	}
	if m.Version == "" {
		return Manifest{}, fmt.Errorf("invalid manifest file: missing version field")
	}
	if m.Sprites == nil {
		m.Sprites = []ManifestSprite{}
	}
	if m.Unplaced == nil {
		m.Unplaced = []string{}
	}
	return m, nil
}
