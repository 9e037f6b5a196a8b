package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/SpriteCut/internal/model"
)

// DXF layer names.
const (
	SurfaceLayer = "surface"
	SpriteLayer  = "sprites"
)

// ExportDXF writes the surface border and one closed LWPOLYLINE per placed
// sprite polygon. The y axis is flipped so the drawing reads the same way
// up as the atlas image.
func ExportDXF(path string, result model.PackResult) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(SurfaceLayer, color.Blue, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", SurfaceLayer, err)
	}
	w, h := float64(result.Width), float64(result.Height)
	if _, err := d.LwPolyline(true,
		[]float64{0, 0},
		[]float64{w, 0},
		[]float64{w, h},
		[]float64{0, h},
	); err != nil {
		return fmt.Errorf("failed to draw surface: %w", err)
	}

	if _, err := d.AddLayer(SpriteLayer, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", SpriteLayer, err)
	}
	for _, s := range result.Sprites {
		if !s.Fitted {
			continue
		}
		outline := s.Outline()
		vertices := make([][]float64, len(outline))
		for i, v := range outline {
			vertices[i] = []float64{float64(v.X), h - float64(v.Y)}
		}
		if _, err := d.LwPolyline(true, vertices...); err != nil {
			return fmt.Errorf("failed to draw sprite %s: %w", s.ID, err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
