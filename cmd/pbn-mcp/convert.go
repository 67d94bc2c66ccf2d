package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pbn-tools-mcp/internal/pbn"
	"github.com/ironsheep/pbn-tools-mcp/internal/server"
)

// runConvert implements the convert subcommand and returns the exit code.
func runConvert(args []string) int {
	cfg, err := server.ConfigFromEnv(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return 2
	}
	opts := cfg.Options()

	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.IntVar(&opts.Clusters, "colors", opts.Clusters, "number of palette colors")
	fs.BoolVar(&opts.PreBlur, "blur", opts.PreBlur, "denoise before quantizing")
	fs.IntVar(&opts.MaxDimension, "max-dim", opts.MaxDimension, "longest working side in pixels, 0 disables downscaling")
	fs.IntVar(&opts.SmoothRadius, "radius", opts.SmoothRadius, "mode filter radius")
	fs.Uint64Var(&opts.Quantize.Seed, "seed", opts.Quantize.Seed, "clustering seed")
	denoise := fs.String("denoise", string(opts.Denoise), "pre-blur filter: bilateral or gaussian")
	outDir := fs.String("out", ".", "output directory")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: pbn-tools-mcp convert [flags] FILE")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	opts.Denoise = pbn.DenoiseMethod(strings.ToLower(*denoise))

	logger := newLogger(cfg.LogLevel)
	pipeline, err := pbn.NewPipeline(opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return 2
	}

	src := fs.Arg(0)
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return 1
	}

	res, err := pipeline.Run(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return 1
	}

	if err := writeResult(res, *outDir, src); err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		return 1
	}
	printPalette(os.Stdout, res.Entries())
	return 0
}

// writeResult saves the four artifacts as <base>_<kind>.png in dir.
func writeResult(res *pbn.Result, dir, src string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))

	outputs := []struct {
		kind string
		save func(path string) error
	}{
		{"outlined", func(p string) error { return imaging.Save(res.Outlined.NRGBA(), p) }},
		{"flat", func(p string) error { return imaging.Save(res.Flat.NRGBA(), p) }},
		{"outline", func(p string) error { return imaging.Save(res.Boundary.Gray(), p) }},
		{"palette", func(p string) error { return imaging.Save(res.Preview.NRGBA(), p) }},
	}
	for _, o := range outputs {
		path := filepath.Join(dir, base+"_"+o.kind+".png")
		if err := o.save(path); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}

func printPalette(w io.Writer, entries []pbn.PaletteEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%2d  %s  rgb(%3d,%3d,%3d)  %6.2f%%\n",
			e.Index+1, e.Hex, e.RGB.R, e.RGB.G, e.RGB.B, e.Percentage)
	}
}
