package export

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/piwi3910/SpriteCut/internal/codec"
	"github.com/piwi3910/SpriteCut/internal/geom"
	"github.com/piwi3910/SpriteCut/internal/model"
)

// ComposeAtlas draws every fitted sprite onto a transparent surface. Only
// source pixels inside the sprite polygon are copied. sources is indexed
// by Sprite.Source. With debug set, the outline of every sprite with at
// least one cut corner is drawn in codec.DebugColor.
func ComposeAtlas(result model.PackResult, sources []image.Image, debug bool) (*image.NRGBA, error) {
	out := image.NewNRGBA(image.Rect(0, 0, result.Width, result.Height))

	for _, s := range result.Sprites {
		if !s.Fitted {
			continue
		}
		if s.Source < 0 || s.Source >= len(sources) || sources[s.Source] == nil {
			return nil, fmt.Errorf("no source raster for sprite %s (source %d)", s.ID, s.Source)
		}
		blit(out, sources[s.Source], s)

		if debug && len(s.Vertices) > 4 {
			outline := s.Outline()
			n := len(outline)
			for j := 0; j < n; j++ {
				p0, p1 := outline[j], outline[(j+1)%n]
				codec.DrawLine(out, p0.X, p0.Y, p1.X, p1.Y, codec.DebugColor)
			}
		}
	}
	return out, nil
}

// blit copies the pixels of src that lie inside s onto dst at s's position.
func blit(dst *image.NRGBA, src image.Image, s model.Sprite) {
	n := codec.ToNRGBA(src)
	b := n.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if !s.Contains(geom.Pt(x, y)) {
				continue
			}
			dx, dy := s.X+x, s.Y+y
			if !(image.Point{X: dx, Y: dy}).In(dst.Rect) {
				continue
			}
			dst.SetNRGBA(dx, dy, n.NRGBAAt(x, y))
		}
	}
}

// WriteUnplacedLog writes one line per unfitted sprite naming its source
// path and original pixel size.
func WriteUnplacedLog(w io.Writer, result model.PackResult, paths []string) error {
	for _, idx := range result.Unplaced {
		s := result.Sprites[idx]
		name := fmt.Sprintf("#%d", s.Source)
		if s.Source >= 0 && s.Source < len(paths) {
			name = paths[s.Source]
		}
		if _, err := fmt.Fprintf(w, "File %s with size(%d, %d) not packed!\n", name, s.SourceWidth, s.SourceHeight); err != nil {
			return fmt.Errorf("failed to write log: %w", err)
		}
	}
	return nil
}

// WriteUnplacedLogFile is WriteUnplacedLog to a new file at path. The
// file is created even when every sprite was placed, along with any
// missing parent directories.
func WriteUnplacedLogFile(path string, result model.PackResult, paths []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	if err := WriteUnplacedLog(f, result, paths); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
