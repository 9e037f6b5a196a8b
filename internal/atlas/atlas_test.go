package atlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SpriteCut/internal/codec"
	"github.com/piwi3910/SpriteCut/internal/engine"
	"github.com/piwi3910/SpriteCut/internal/model"
	"github.com/piwi3910/SpriteCut/internal/project"
)

var opaque = color.NRGBA{R: 10, G: 200, B: 30, A: 255}

func writeSprite(t *testing.T, dir, name string, w, h int, keep func(x, y int) bool) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if keep(x, y) {
				img.SetNRGBA(x, y, opaque)
			}
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, codec.Encode(path, img))
	return path
}

func all(int, int) bool { return true }

func testSettings(w, h int) model.PackSettings {
	s := model.DefaultSettings()
	s.Width, s.Height = w, h
	return s
}

func TestBuild_PacksSquares(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSprite(t, dir, "a.png", 50, 50, all),
		writeSprite(t, dir, "b.png", 50, 50, all),
	}

	r, err := Build(paths, testSettings(128, 128))
	require.NoError(t, err)

	require.Len(t, r.Pack.Sprites, 2)
	assert.Empty(t, r.Pack.Unplaced)
	assert.Equal(t, 0, r.Pack.Sprites[0].X)
	assert.Equal(t, 0, r.Pack.Sprites[0].Y)
	assert.Equal(t, 0, r.Pack.Sprites[1].X)
	assert.Equal(t, 51, r.Pack.Sprites[1].Y)
	assert.Equal(t, paths, r.Paths)
	assert.Len(t, r.Sources, 2)
}

func TestBuild_UnreadableSourceStops(t *testing.T) {
	dir := t.TempDir()
	good := writeSprite(t, dir, "a.png", 10, 10, all)
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0644))

	_, err := Build([]string{good, bad}, testSettings(128, 128))
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrUnreadableSource))
	assert.Contains(t, err.Error(), "sprite 1")
}

func TestBuild_BlankAndOversizedSprites(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSprite(t, dir, "blank.png", 20, 20, func(int, int) bool { return false }),
		writeSprite(t, dir, "wide.png", 200, 10, all),
		writeSprite(t, dir, "ok.png", 20, 20, all),
	}

	r, err := Build(paths, testSettings(128, 128))
	require.NoError(t, err)
	assert.Len(t, r.Pack.Unplaced, 2)
	assert.Equal(t, 1, r.Pack.FittedCount())
}

func TestExtract_CutsTriangle(t *testing.T) {
	dir := t.TempDir()
	path := writeSprite(t, dir, "tri.png", 200, 200, func(x, y int) bool { return x+y >= 100 })
	sources, err := Load([]string{path})
	require.NoError(t, err)

	sprites := Extract(sources, model.DefaultSettings())
	require.Len(t, sprites, 1)
	assert.True(t, sprites[0].Mask.Has(model.TopLeft))
	assert.Len(t, sprites[0].Vertices, 5)

	rects := model.DefaultSettings()
	rects.DisableCuts = true
	sprites = Extract(sources, rects)
	assert.Len(t, sprites[0].Vertices, 4)
}

func TestResult_Compare(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSprite(t, dir, "a.png", 40, 40, all),
		writeSprite(t, dir, "b.png", 40, 40, all),
	}
	base := testSettings(128, 128)
	r, err := Build(paths, base)
	require.NoError(t, err)

	results := r.Compare(engine.BuildDefaultScenarios(base))
	require.Len(t, results, 4)
	for _, cr := range results {
		assert.Equal(t, 2, cr.FittedCount, cr.Scenario.Name)
	}
}

func TestResult_Optimize(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, size := range []int{30, 60, 20, 45, 50} {
		paths = append(paths, writeSprite(t, dir, fmt.Sprintf("s%d.png", i), size, 70-size, all))
	}
	r, err := Build(paths, testSettings(128, 128))
	require.NoError(t, err)

	cfg := engine.DefaultGeneticConfig()
	cfg.PopulationSize, cfg.Generations = 8, 5
	opt := r.Optimize(cfg, 7)

	assert.GreaterOrEqual(t, opt.Pack.FittedCount(), r.Pack.FittedCount())
	assert.Len(t, opt.Pack.Sprites, len(paths))
	assert.Equal(t, r.Paths, opt.Paths)
}

func TestWrite_AllOutputs(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeSprite(t, dir, "tri.png", 100, 100, func(x, y int) bool { return x+y >= 80 }),
		writeSprite(t, dir, "wide.png", 300, 10, all),
	}
	settings := testSettings(128, 128)
	settings.DebugLines = true

	r, err := Build(paths, settings)
	require.NoError(t, err)

	out := project.OutputConfig{
		Atlas:    filepath.Join(dir, "out", "output.png"),
		Log:      filepath.Join(dir, "log.txt"),
		Manifest: filepath.Join(dir, "atlas.json"),
		Report:   filepath.Join(dir, "atlas.pdf"),
		Workbook: filepath.Join(dir, "atlas.xlsx"),
		DXF:      filepath.Join(dir, "atlas.dxf"),
	}
	require.NoError(t, Write(r, out))

	img, err := codec.Decode(out.Atlas)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 128), img.Bounds())
	assert.Equal(t, opaque, img.NRGBAAt(50, 50))
	assert.Equal(t, codec.DebugColor, img.NRGBAAt(99, 99), "debug outline")
	assert.Equal(t, color.NRGBA{}, img.NRGBAAt(5, 5), "cut corner stays transparent")

	logData, err := os.ReadFile(out.Log)
	require.NoError(t, err)
	assert.Equal(t, "File "+paths[1]+" with size(300, 10) not packed!\n", string(logData))

	m, err := project.LoadManifest(out.Manifest)
	require.NoError(t, err)
	assert.Len(t, m.Sprites, 1)
	assert.Equal(t, []string{paths[1]}, m.Unplaced)

	for _, p := range []string{out.Report, out.Workbook, out.DXF} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0), p)
	}
}

func TestWrite_SkipsOptionalOutputs(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeSprite(t, dir, "a.png", 10, 10, all)}
	r, err := Build(paths, testSettings(128, 128))
	require.NoError(t, err)

	out := project.OutputConfig{
		Atlas: filepath.Join(dir, "output.png"),
		Log:   filepath.Join(dir, "log.txt"),
	}
	require.NoError(t, Write(r, out))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	dir := t.TempDir()
	paths := []string{
		writeSprite(t, dir, "a.png", 10, 10, all),
		writeSprite(t, dir, "wide.png", 300, 10, all),
	}
	_, err := Build(paths, testSettings(128, 128))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "packed atlas")
	assert.Contains(t, out, "sprite not packed")
	assert.Equal(t, 2, strings.Count(out, "extracted sprite"))

	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}
