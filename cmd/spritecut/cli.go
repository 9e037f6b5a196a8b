package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/piwi3910/SpriteCut/internal/model"
	"github.com/piwi3910/SpriteCut/internal/project"
)

// cliOpts holds the parsed command line of a packing run.
type cliOpts struct {
	configPath  string
	presetsPath string
	preset      string

	out      string
	logPath  string
	manifest string
	report   string
	workbook string
	dxf      string

	minCutArea int
	rects      bool
	compare    bool
	optimize   bool
	verbose    bool
	debug      bool

	listFile      string
	width, height int
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "    spritecut [flags] ListFile OutFileWidth OutFileHeight {DrawDebugLines}")
	fmt.Fprintln(w, "    spritecut scale in.png out.png [width height]")
	fmt.Fprintln(w, "    spritecut clearbg in.png out.png")
	fmt.Fprintln(w, "    spritecut outlines atlas.dxf")
	fmt.Fprintln(w, "List file should contain paths to PNG files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func parseCLIOpts(args []string, stderr io.Writer) (cliOpts, error) {
	var opt cliOpts
	fs := flag.NewFlagSet("spritecut", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opt.configPath, "config", project.ConfigFile, "TOML configuration file")
	fs.StringVar(&opt.presetsPath, "presets", project.DefaultPresetsPath(), "JSON file of named setting presets")
	fs.StringVar(&opt.preset, "preset", "", "Pack with the named preset")
	fs.StringVar(&opt.out, "out", "", "Atlas PNG path (default from config, output.png)")
	fs.StringVar(&opt.logPath, "log", "", "Unplaced sprite log path (default from config, log.txt)")
	fs.StringVar(&opt.manifest, "manifest", "", "Write a JSON manifest")
	fs.StringVar(&opt.report, "report", "", "Write a PDF layout report")
	fs.StringVar(&opt.workbook, "workbook", "", "Write an XLSX placement workbook")
	fs.StringVar(&opt.dxf, "dxf", "", "Write sprite outlines as DXF")
	fs.IntVar(&opt.minCutArea, "min-cut-area", -1, "Cut a corner only above this area")
	fs.BoolVar(&opt.rects, "rects", false, "Pack plain rectangles without corner cuts")
	fs.BoolVar(&opt.compare, "compare", false, "Compare packing with alternative settings")
	fs.BoolVar(&opt.optimize, "optimize", false, "Search packing orders for a fuller atlas")
	fs.BoolVar(&opt.verbose, "v", false, "Print debugging output to stderr")
	fs.BoolVar(&opt.debug, "debug", false, "Draw the cut polygons onto the atlas")

	if err := fs.Parse(args); err != nil {
		usage(stderr, fs)
		return opt, err
	}

	rest := fs.Args()
	if len(rest) != 3 && len(rest) != 4 {
		usage(stderr, fs)
		return opt, fmt.Errorf("expected 3 or 4 arguments, got %d", len(rest))
	}
	opt.listFile = rest[0]

	var err error
	if opt.width, err = strconv.Atoi(rest[1]); err != nil {
		return opt, fmt.Errorf("invalid width %q", rest[1])
	}
	if opt.height, err = strconv.Atoi(rest[2]); err != nil {
		return opt, fmt.Errorf("invalid height %q", rest[2])
	}
	opt.width = model.ClampSurface(opt.width)
	opt.height = model.ClampSurface(opt.height)

	// Any fourth argument turns on the debug overlay.
	if len(rest) == 4 {
		opt.debug = true
	}
	return opt, nil
}

// apply merges the command line over the loaded configuration.
func (opt cliOpts) apply(cfg project.Config) project.Config {
	cfg.Pack.Width = opt.width
	cfg.Pack.Height = opt.height
	if opt.minCutArea >= 0 {
		cfg.Pack.MinCutArea = opt.minCutArea
	}
	if opt.rects {
		cfg.Pack.DisableCuts = true
	}
	if opt.debug {
		cfg.Pack.DebugLines = true
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Output.Atlas, opt.out)
	set(&cfg.Output.Log, opt.logPath)
	set(&cfg.Output.Manifest, opt.manifest)
	set(&cfg.Output.Report, opt.report)
	set(&cfg.Output.Workbook, opt.workbook)
	set(&cfg.Output.DXF, opt.dxf)

	if cfg.Output.Atlas == "" {
		cfg.Output.Atlas = "output.png"
	}
	if cfg.Output.Log == "" {
		cfg.Output.Log = "log.txt"
	}
	return cfg
}
