package model

// Surface size limits enforced at the command and config boundary.
const (
	MinSurfaceSize = 128
	MaxSurfaceSize = 4096
)

// DefaultMinCutArea is the smallest triangle area worth cutting off a corner.
const DefaultMinCutArea = 3500

// DefaultPadding is added to the right and bottom of every polygon so that
// neighbours never bleed into each other when composited.
const DefaultPadding = 2

// PackSettings holds extractor and packer configuration.
type PackSettings struct {
	Width  int `toml:"width" json:"width"`   // Target surface width in pixels
	Height int `toml:"height" json:"height"` // Target surface height in pixels

	MinCutArea  int  `toml:"min_cut_area" json:"min_cut_area"` // Cut a corner only above this area
	DisableCuts bool `toml:"disable_cuts" json:"disable_cuts"` // Pack plain rectangles
	Padding     int  `toml:"padding" json:"padding"`           // Margin added after extraction

	DebugLines bool `toml:"debug_lines" json:"debug_lines"` // Overlay cut polygons on the output
}

// DefaultSettings returns a 1024x1024 surface with standard cutting.
func DefaultSettings() PackSettings {
	return PackSettings{
		Width:      1024,
		Height:     1024,
		MinCutArea: DefaultMinCutArea,
		Padding:    DefaultPadding,
	}
}

// ClampSurface limits a requested surface dimension to the supported range.
func ClampSurface(v int) int {
	if v < MinSurfaceSize {
		return MinSurfaceSize
	}
	if v > MaxSurfaceSize {
		return MaxSurfaceSize
	}
	return v
}

// Clamped returns a copy with the surface size clamped to the supported
// range and the padding raised to at least DefaultPadding.
func (s PackSettings) Clamped() PackSettings {
	s.Width = ClampSurface(s.Width)
	s.Height = ClampSurface(s.Height)
	if s.Padding < DefaultPadding {
		s.Padding = DefaultPadding
	}
	if s.MinCutArea < 0 {
		s.MinCutArea = 0
	}
	return s
}
