// Command dotmap renders a dotted world map SVG from an encoded boundary
// topology fetched over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"dotmap"
	"dotmap/compress"
	"dotmap/raster"
	"dotmap/svg"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		out       = flag.String("out", dotmap.DefaultOutputPath, "artifact output path")
		sources   = flag.String("sources", "", "comma-separated topology source URLs (default: built-in mirror list)")
		timeout   = flag.Duration("timeout", 10*time.Second, "per-mirror fetch timeout")
		step      = flag.Float64("step", 2, "grid spacing in degrees")
		subdiv    = flag.Int("subdivisions", 1, "sub-samples per axis within each grid cell")
		jitter    = flag.Float64("jitter", 0, "max random sample perturbation in degrees (0 = deterministic)")
		seed      = flag.Uint64("seed", 1, "jitter random seed")
		workers   = flag.Int("workers", 1, "parallel rasterization workers")
		width     = flag.Int("width", svg.DefaultWidth, "canvas width in pixels")
		height    = flag.Int("height", svg.DefaultHeight, "canvas height in pixels")
		bg        = flag.String("bg", "", "background fill color (default: emitter default)")
		dotColor  = flag.String("dot-color", "", "dot fill color (default: emitter default)")
		dotRadius = flag.Float64("dot-radius", svg.DefaultDotRadius, "dot radius in pixels")
		chunk     = flag.Int("chunk", 0, "dots per serialization batch (0 = single batch)")
		minify    = flag.Bool("minify", false, "strip whitespace and round coordinates")
		compName  = flag.String("compress", "none", "artifact compression: none, gzip, zstd, s2, lz4")
		geojson   = flag.String("geojson", "", "also dump decoded polygons as GeoJSON at this path")
		verbose   = flag.Bool("v", false, "debug logging")
		quiet     = flag.Bool("q", false, "errors only")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	if *quiet {
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	dotmap.SetLogger(logger)

	compType, err := compress.ParseType(*compName)
	if err != nil {
		logger.Error("invalid flags", slog.Any("error", err))
		return 2
	}

	opts := []dotmap.Option{
		dotmap.WithOutputPath(*out),
		dotmap.WithTimeout(*timeout),
		dotmap.WithGrid(raster.Config{
			Step:         *step,
			Subdivisions: *subdiv,
			Jitter:       *jitter,
			Seed:         *seed,
			Workers:      *workers,
		}),
		dotmap.WithCanvas(*width, *height),
		dotmap.WithChunkSize(*chunk),
		dotmap.WithMinify(*minify),
		dotmap.WithCompression(compType),
	}
	if *sources != "" {
		opts = append(opts, dotmap.WithSources(splitSources(*sources)...))
	}
	if *bg != "" {
		opts = append(opts, dotmap.WithBackground(*bg))
	}
	if *dotColor != "" || *dotRadius != svg.DefaultDotRadius {
		color := *dotColor
		if color == "" {
			color = svg.DefaultDotColor
		}
		opts = append(opts, dotmap.WithDotStyle(*dotRadius, color))
	}
	if *geojson != "" {
		opts = append(opts, dotmap.WithGeoJSONDump(*geojson))
	}

	p, err := dotmap.New(opts...)
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		return 2
	}

	report, err := p.Run(context.Background())
	if err != nil {
		logger.Error("render failed", slog.Any("error", err))
		return 1
	}

	fmt.Printf("wrote %s: %d dots, %d bytes (%s), %d rings from %s\n",
		report.Artifact.Path, report.Artifact.Dots, report.Artifact.Bytes,
		report.Artifact.Compression, report.Rings, report.Source)

	return 0
}

func splitSources(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
