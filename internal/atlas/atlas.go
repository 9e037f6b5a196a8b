// Package atlas drives a complete packing run: it decodes the sprite
// rasters, extracts their bounding polygons, packs them and writes the
// requested outputs.
package atlas

import (
	"fmt"
	"image"

	"github.com/piwi3910/SpriteCut/internal/bounding"
	"github.com/piwi3910/SpriteCut/internal/codec"
	"github.com/piwi3910/SpriteCut/internal/engine"
	"github.com/piwi3910/SpriteCut/internal/export"
	"github.com/piwi3910/SpriteCut/internal/model"
	"github.com/piwi3910/SpriteCut/internal/project"
)

// Result is the outcome of Build. Sources and Paths are indexed by
// Sprite.Source.
type Result struct {
	Settings model.PackSettings
	Pack     model.PackResult
	Paths    []string
	Sources  []*image.NRGBA
}

// Load decodes every path. The first unreadable file aborts the load with
// an error matching codec.ErrUnreadableSource.
func Load(paths []string) ([]*image.NRGBA, error) {
	sources := make([]*image.NRGBA, len(paths))
	for i, p := range paths {
		img, err := codec.Decode(p)
		if err != nil {
			return nil, fmt.Errorf("failed to load sprite %d: %w", i, err)
		}
		sources[i] = img
	}
	return sources, nil
}

// Extract computes the bounding polygon of every source for settings.
func Extract(sources []*image.NRGBA, settings model.PackSettings) []model.Sprite {
	opts := bounding.OptionsFrom(settings)
	log := Logger()

	sprites := make([]model.Sprite, len(sources))
	for i, img := range sources {
		sprites[i] = bounding.SpriteFromImage(i, img, opts)
		log.Debug("extracted sprite",
			"source", i,
			"vertices", len(sprites[i].Vertices),
			"cuts", sprites[i].Mask.Count())
	}
	return sprites
}

// Build loads, extracts and packs the sprites at paths.
func Build(paths []string, settings model.PackSettings) (Result, error) {
	sources, err := Load(paths)
	if err != nil {
		return Result{}, err
	}
	return Pack(paths, sources, settings), nil
}

// Pack extracts and packs already decoded sources.
func Pack(paths []string, sources []*image.NRGBA, settings model.PackSettings) Result {
	log := Logger()

	result := engine.New(settings).Pack(Extract(sources, settings))
	for _, s := range result.Sprites {
		if s.Fitted {
			log.Debug("placed sprite", "id", s.ID, "source", s.Source, "x", s.X, "y", s.Y)
		}
	}
	for _, idx := range result.Unplaced {
		s := result.Sprites[idx]
		log.Warn("sprite not packed", "source", s.Source, "width", s.SourceWidth, "height", s.SourceHeight)
	}
	log.Info("packed atlas",
		"sprites", len(result.Sprites),
		"fitted", result.FittedCount(),
		"unplaced", len(result.Unplaced),
		"efficiency", fmt.Sprintf("%.1f%%", result.Efficiency()))

	return Result{
		Settings: settings,
		Pack:     result,
		Paths:    paths,
		Sources:  sources,
	}
}

// Reshape returns the extractor hook for scenario comparison.
func (r Result) Reshape() engine.Reshape {
	return func(settings model.PackSettings) []model.Sprite {
		return Extract(r.Sources, settings)
	}
}

// Compare packs the same sources under every scenario.
func (r Result) Compare(scenarios []engine.ComparisonScenario) []engine.ComparisonResult {
	return engine.CompareScenarios(scenarios, r.Reshape())
}

// Optimize repacks the sources with the packing order search and keeps
// the searched atlas.
func (r Result) Optimize(config engine.GeneticConfig, seed int64) Result {
	before := r.Pack.FittedCount()
	r.Pack = engine.OptimizeOrder(r.Settings, Extract(r.Sources, r.Settings), config, seed)
	Logger().Info("optimized packing order",
		"fitted_before", before,
		"fitted_after", r.Pack.FittedCount())
	return r
}

// Images returns the sources as generic images.
func (r Result) Images() []image.Image {
	imgs := make([]image.Image, len(r.Sources))
	for i, s := range r.Sources {
		imgs[i] = s
	}
	return imgs
}

// Write produces the atlas image and the unplaced log, plus every optional
// output named in out.
func Write(r Result, out project.OutputConfig) error {
	log := Logger()

	img, err := export.ComposeAtlas(r.Pack, r.Images(), r.Settings.DebugLines)
	if err != nil {
		return fmt.Errorf("failed to compose atlas: %w", err)
	}
	if err := codec.Encode(out.Atlas, img); err != nil {
		return err
	}
	log.Info("wrote atlas", "path", out.Atlas)

	if err := export.WriteUnplacedLogFile(out.Log, r.Pack, r.Paths); err != nil {
		return err
	}

	if out.Manifest != "" {
		if err := project.SaveManifest(out.Manifest, project.NewManifest(r.Pack, r.Paths)); err != nil {
			return err
		}
		log.Info("wrote manifest", "path", out.Manifest)
	}
	if out.Report != "" {
		if err := export.ExportPDF(out.Report, r.Pack, r.Paths, r.Settings); err != nil {
			return err
		}
		log.Info("wrote report", "path", out.Report)
	}
	if out.Workbook != "" {
		if err := export.ExportWorkbook(out.Workbook, r.Pack, r.Paths); err != nil {
			return err
		}
		log.Info("wrote workbook", "path", out.Workbook)
	}
	if out.DXF != "" {
		if err := export.ExportDXF(out.DXF, r.Pack); err != nil {
			return err
		}
		log.Info("wrote outlines", "path", out.DXF)
	}
	return nil
}
