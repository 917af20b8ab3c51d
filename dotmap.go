// Package dotmap renders a dotted world map: it fetches an encoded boundary
// topology from mirrored HTTP sources, decodes its delta-encoded arcs into
// polygons, samples a geographic grid against those polygons and writes the
// surviving samples as an SVG artifact.
//
// # Basic usage
//
//	p, err := dotmap.New(
//		dotmap.WithOutputPath("world-map.svg"),
//	)
//	if err != nil {
//		return err
//	}
//	report, err := p.Run(context.Background())
//	if err != nil {
//		return err
//	}
//	fmt.Printf("wrote %s (%d dots)\n", report.Artifact.Path, report.Artifact.Dots)
//
// Every tunable (mirror list, fetch timeout, grid step, jitter, canvas and
// dot style, chunked serialization, artifact compression) is fixed at
// construction through options. A Pipeline is immutable after New and safe to
// Run repeatedly.
//
// # Package structure
//
// The pipeline stages live in their own packages: topo (fetch + decode),
// geo (polygon model + land classification), raster (grid sampling) and
// svg (artifact serialization). This package wires them together and is the
// only API most callers need.
package dotmap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"dotmap/compress"
	"dotmap/geo"
	"dotmap/internal/options"
	"dotmap/raster"
	"dotmap/svg"
	"dotmap/topo"
)

// DefaultSources is the prioritized mirror list for the world boundary
// topology, tried in order.
var DefaultSources = []string{
	"https://cdn.jsdelivr.net/npm/world-atlas@2/countries-110m.json",
	"https://unpkg.com/world-atlas@2/countries-110m.json",
}

// DefaultOutputPath is where the artifact is written unless overridden.
const DefaultOutputPath = "world-map.svg"

// Pipeline runs the full fetch → decode → rasterize → emit sequence.
type Pipeline struct {
	sources     []string
	timeout     time.Duration
	client      *http.Client
	grid        raster.Config
	emitterOpts []svg.Option
	outputPath  string
	geojsonPath string
	logger      *slog.Logger

	fetcher *topo.Fetcher
	emitter *svg.Emitter
}

// Option configures a Pipeline.
type Option = options.Option[*Pipeline]

// WithSources replaces the mirror list. Sources are tried strictly in order,
// each exactly once.
func WithSources(urls ...string) Option {
	return options.New(func(p *Pipeline) error {
		if len(urls) == 0 {
			return fmt.Errorf("at least one source is required")
		}
		p.sources = append([]string(nil), urls...)

		return nil
	})
}

// WithTimeout sets the per-mirror fetch timeout.
func WithTimeout(d time.Duration) Option {
	return options.New(func(p *Pipeline) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		p.timeout = d

		return nil
	})
}

// WithHTTPClient replaces the HTTP client used for fetching.
func WithHTTPClient(c *http.Client) Option {
	return options.New(func(p *Pipeline) error {
		if c == nil {
			return fmt.Errorf("http client must not be nil")
		}
		p.client = c

		return nil
	})
}

// WithGrid replaces the sampling grid configuration.
func WithGrid(cfg raster.Config) Option {
	return options.New(func(p *Pipeline) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		p.grid = cfg

		return nil
	})
}

// WithCanvas sets the artifact canvas size in pixels.
func WithCanvas(width, height int) Option {
	return emitterOption(svg.WithCanvas(width, height))
}

// WithBackground sets the artifact background fill.
func WithBackground(color string) Option {
	return emitterOption(svg.WithBackground(color))
}

// WithDotStyle sets the marker radius and color.
func WithDotStyle(radius float64, color string) Option {
	return emitterOption(svg.WithDotStyle(radius, color))
}

// WithChunkSize sets the dots-per-batch serialization size; 0 keeps a single
// batch.
func WithChunkSize(n int) Option {
	return emitterOption(svg.WithChunkSize(n))
}

// WithMinify toggles whitespace stripping and coordinate rounding.
func WithMinify(minify bool) Option {
	return emitterOption(svg.WithMinify(minify))
}

// WithCompression selects the artifact compression codec.
func WithCompression(t compress.Type) Option {
	return emitterOption(svg.WithCompression(t))
}

// emitterOption defers an svg option to emitter construction.
func emitterOption(opt svg.Option) Option {
	return options.NoError(func(p *Pipeline) {
		p.emitterOpts = append(p.emitterOpts, opt)
	})
}

// WithOutputPath sets the artifact path.
func WithOutputPath(path string) Option {
	return options.New(func(p *Pipeline) error {
		if path == "" {
			return fmt.Errorf("output path must not be empty")
		}
		p.outputPath = path

		return nil
	})
}

// WithGeoJSONDump additionally writes the decoded polygon set as a GeoJSON
// FeatureCollection at path after a successful run, for inspection in any
// GeoJSON viewer. Empty disables the dump (the default).
func WithGeoJSONDump(path string) Option {
	return options.NoError(func(p *Pipeline) {
		p.geojsonPath = path
	})
}

// WithLogger gives this pipeline its own logger instead of the package
// logger configured via SetLogger.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(p *Pipeline) {
		p.logger = l
	})
}

// New creates a Pipeline. All options are validated here; Run performs no
// further configuration.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		sources:    DefaultSources,
		timeout:    10 * time.Second,
		client:     http.DefaultClient,
		grid:       raster.DefaultConfig(),
		outputPath: DefaultOutputPath,
	}
	if err := options.Apply(p, opts...); err != nil {
		return nil, err
	}

	fetcher, err := topo.NewFetcher(p.sources,
		topo.WithTimeout(p.timeout),
		topo.WithHTTPClient(p.client),
		topo.WithFetchLogger(p.log()),
	)
	if err != nil {
		return nil, err
	}
	p.fetcher = fetcher

	emitter, err := svg.NewEmitter(p.emitterOpts...)
	if err != nil {
		return nil, err
	}
	p.emitter = emitter

	return p, nil
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}

	return Logger()
}

// Report summarizes one successful run.
type Report struct {
	// Source is the mirror the topology was fetched from.
	Source string
	// Digest is the xxHash64 of the raw topology body.
	Digest uint64
	// Rings and Vertices count the decoded polygon set.
	Rings    int
	Vertices int
	// Artifact describes the written output file.
	Artifact svg.Result
	// Stage durations.
	FetchTime  time.Duration
	DecodeTime time.Duration
	RasterTime time.Duration
	EmitTime   time.Duration
}

// Run executes the pipeline once. On any error no artifact is written:
// either a complete image is produced or none is.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	log := p.log()
	var report Report

	start := time.Now()
	doc, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return report, err
	}
	report.Source = doc.Source
	report.Digest = doc.Digest
	report.FetchTime = time.Since(start)

	start = time.Now()
	rings, err := doc.Polygons()
	if err != nil {
		return report, err
	}
	coll := geo.NewCollection(rings)
	report.Rings = coll.Len()
	report.Vertices = coll.VertexCount()
	report.DecodeTime = time.Since(start)
	log.Info("topology decoded",
		slog.Int("rings", report.Rings),
		slog.Int("vertices", report.Vertices),
		slog.Duration("elapsed", report.DecodeTime),
	)

	start = time.Now()
	dots, err := raster.Rasterize(p.grid, coll)
	if err != nil {
		return report, err
	}
	report.RasterTime = time.Since(start)
	log.Info("grid rasterized",
		slog.Int("dots", len(dots)),
		slog.Float64("step", p.grid.Step),
		slog.Int("subdivisions", p.grid.Subdivisions),
		slog.Float64("jitter", p.grid.Jitter),
		slog.Int("workers", p.grid.Workers),
		slog.Duration("elapsed", report.RasterTime),
	)

	start = time.Now()
	result, err := p.emitter.Emit(dots, p.outputPath)
	if err != nil {
		return report, err
	}
	report.Artifact = result
	report.EmitTime = time.Since(start)
	log.Info("artifact written",
		slog.String("path", result.Path),
		slog.Int("bytes", result.Bytes),
		slog.Int("dots", result.Dots),
		slog.String("compression", result.Compression.String()),
		slog.String("digest", fmt.Sprintf("%016x", result.Digest)),
		slog.Duration("elapsed", report.EmitTime),
	)

	if p.geojsonPath != "" {
		if err := p.dumpGeoJSON(coll); err != nil {
			return report, err
		}
		log.Info("geojson dump written", slog.String("path", p.geojsonPath))
	}

	return report, nil
}

// dumpGeoJSON writes the decoded polygon set for inspection. Only called
// after the artifact itself landed.
func (p *Pipeline) dumpGeoJSON(coll *geo.Collection) error {
	data, err := coll.GeoJSON()
	if err != nil {
		return fmt.Errorf("encode geojson dump: %w", err)
	}
	if err := os.WriteFile(p.geojsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write geojson dump: %w", err)
	}

	return nil
}
