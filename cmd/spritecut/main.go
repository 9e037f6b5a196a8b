// SpriteCut: Polygon Sprite Packer
//
// Packs PNG sprites into one texture atlas. Each sprite is reduced to a
// bounding polygon with up to four diagonally cut corners, so sprites can
// nest into each other's empty corners.
//
// Build:
//   go build -o spritecut ./cmd/spritecut
//
// Usage:
//   spritecut sprites.txt 1024 1024
//   spritecut -report atlas.pdf -manifest atlas.json sprites.csv 2048 2048 debug

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/piwi3910/SpriteCut/internal/atlas"
	"github.com/piwi3910/SpriteCut/internal/codec"
	"github.com/piwi3910/SpriteCut/internal/engine"
	"github.com/piwi3910/SpriteCut/internal/imageops"
	"github.com/piwi3910/SpriteCut/internal/importer"
	"github.com/piwi3910/SpriteCut/internal/project"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "scale":
			return runScale(args[1:], stderr)
		case "clearbg":
			return runClearBackground(args[1:], stderr)
		case "outlines":
			return runOutlines(args[1:], stdout, stderr)
		}
	}

	opt, err := parseCLIOpts(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opt.verbose {
		atlas.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	log := atlas.Logger()

	cfg, err := project.LoadConfig(opt.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	presets, err := project.LoadPresets(opt.presetsPath)
	if err != nil {
		fmt.Fprintf(stderr, "Couldn't load presets: %v\n", err)
		return 1
	}
	if opt.preset != "" {
		p, ok := project.FindPreset(presets, opt.preset)
		if !ok {
			fmt.Fprintf(stderr, "Error: unknown preset %q\n", opt.preset)
			return 1
		}
		cfg.Pack = p.Settings
	}
	cfg = opt.apply(cfg)

	list := importer.ImportList(opt.listFile)
	for _, w := range list.Warnings {
		log.Warn(w)
	}
	if len(list.Errors) > 0 {
		for _, e := range list.Errors {
			fmt.Fprintf(stderr, "Error: %s\n", e)
		}
		return 1
	}

	result, err := atlas.Build(list.Paths, cfg.Pack)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opt.optimize {
		result = result.Optimize(engine.DefaultGeneticConfig(), 1)
	}

	if opt.compare {
		scenarios := append(engine.BuildDefaultScenarios(cfg.Pack), project.PresetScenarios(cfg.Pack, presets)...)
		printComparison(stdout, result.Compare(scenarios))
	}

	if err := atlas.Write(result, cfg.Output); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Packed %d of %d sprites into %s (%dx%d, %.1f%% used)\n",
		result.Pack.FittedCount(), len(result.Pack.Sprites), cfg.Output.Atlas,
		cfg.Pack.Width, cfg.Pack.Height, result.Pack.Efficiency())
	if n := len(result.Pack.Unplaced); n > 0 {
		fmt.Fprintf(stdout, "%d sprites not packed, see %s\n", n, cfg.Output.Log)
	}
	return 0
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	fmt.Fprintf(w, "%-28s %8s %8s %8s %8s\n", "Scenario", "Fitted", "Unplaced", "Boxes%", "Fill%")
	for _, r := range results {
		fmt.Fprintf(w, "%-28s %8d %8d %8.1f %8.1f\n",
			r.Scenario.Name, r.FittedCount, r.UnplacedCount, r.Efficiency, r.PolygonFill)
	}
}

func runScale(args []string, stderr io.Writer) int {
	if len(args) != 2 && len(args) != 4 {
		fmt.Fprintln(stderr, "Usage:\n    spritecut scale in.png out.png [width height]")
		return 2
	}
	w, h := 0, 0
	if len(args) == 4 {
		var err error
		if w, err = strconv.Atoi(args[2]); err != nil {
			fmt.Fprintf(stderr, "Error: invalid width %q\n", args[2])
			return 2
		}
		if h, err = strconv.Atoi(args[3]); err != nil {
			fmt.Fprintf(stderr, "Error: invalid height %q\n", args[3])
			return 2
		}
	}

	src, err := codec.Decode(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := codec.Encode(args[1], imageops.Scale(src, w, h)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runClearBackground(args []string, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "Usage:\n    spritecut clearbg in.png out.png")
		return 2
	}
	src, err := codec.Decode(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if err := codec.Encode(args[1], imageops.ClearBackground(src)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runOutlines lists the polygons of a DXF outline drawing.
func runOutlines(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage:\n    spritecut outlines atlas.dxf")
		return 2
	}
	result := importer.ImportOutlines(args[0])
	for _, e := range result.Errors {
		fmt.Fprintf(stderr, "Error: %s\n", e)
	}
	if len(result.Errors) > 0 {
		return 1
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "Warning: %s\n", w)
	}
	for i, o := range result.Outlines {
		lo, hi := o.BoundingBox()
		fmt.Fprintf(stdout, "%3d: %d vertices, box %v-%v, area %.1f\n",
			i, len(o), lo, hi, float64(o.DoubleArea())/2)
	}
	return 0
}
