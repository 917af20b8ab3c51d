// Package svg serializes accepted dot samples into the final vector artifact.
//
// Dots are projected onto a fixed equirectangular canvas and written as one
// filled circle each, after a full-canvas background rectangle. Serialization
// is chunked: dots are partitioned into fixed-size batches, each batch is
// rendered into a pooled buffer (optionally minified) and the batches are
// concatenated in order. Partitioning only changes how the text is assembled,
// never which dots are drawn or their order.
//
// The artifact is written atomically: the bytes (optionally compressed) go to
// a temp file in the target directory which is then renamed into place, so a
// failed run never leaves a partial file.
package svg

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"dotmap/compress"
	"dotmap/internal/hash"
	"dotmap/internal/options"
	"dotmap/internal/pool"
	"dotmap/raster"
)

// Default canvas and dot style for a standard world render.
const (
	DefaultWidth      = 1000
	DefaultHeight     = 500
	DefaultBackground = "#0b1220"
	DefaultDotColor   = "#38bdf8"
	DefaultDotRadius  = 1.5

	// minifiedPrecision is the number of coordinate decimals kept when
	// minification rounds pixel positions.
	minifiedPrecision = 2
)

// Emitter serializes dots into one SVG artifact. Configure it once with
// options; Render and Emit may then be called repeatedly.
type Emitter struct {
	width      int
	height     int
	background string
	dotColor   string
	dotRadius  float64
	chunkSize  int
	minify     bool
	codecType  compress.Type
	codec      compress.Codec
}

// Option configures an Emitter.
type Option = options.Option[*Emitter]

// WithCanvas sets the logical canvas size in pixels.
func WithCanvas(width, height int) Option {
	return options.New(func(e *Emitter) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("canvas size must be positive, got %dx%d", width, height)
		}
		e.width = width
		e.height = height

		return nil
	})
}

// WithBackground sets the background fill color.
func WithBackground(color string) Option {
	return options.New(func(e *Emitter) error {
		if color == "" {
			return fmt.Errorf("background color must not be empty")
		}
		e.background = color

		return nil
	})
}

// WithDotStyle sets the marker radius and fill color.
func WithDotStyle(radius float64, color string) Option {
	return options.New(func(e *Emitter) error {
		if radius <= 0 {
			return fmt.Errorf("dot radius must be positive, got %v", radius)
		}
		if color == "" {
			return fmt.Errorf("dot color must not be empty")
		}
		e.dotRadius = radius
		e.dotColor = color

		return nil
	})
}

// WithChunkSize sets the number of dots serialized per batch; 0 serializes
// everything in a single batch.
func WithChunkSize(n int) Option {
	return options.New(func(e *Emitter) error {
		if n < 0 {
			return fmt.Errorf("chunk size must not be negative, got %d", n)
		}
		e.chunkSize = n

		return nil
	})
}

// WithMinify strips inter-element whitespace and rounds coordinates to two
// decimals. Minification is applied per batch and never changes which dots
// are drawn.
func WithMinify(minify bool) Option {
	return options.NoError(func(e *Emitter) {
		e.minify = minify
	})
}

// WithCompression compresses the assembled artifact with the given codec
// before writing. TypeGzip produces a standard .svgz payload.
func WithCompression(t compress.Type) Option {
	return options.New(func(e *Emitter) error {
		codec, err := compress.ForType(t)
		if err != nil {
			return err
		}
		e.codecType = t
		e.codec = codec

		return nil
	})
}

// NewEmitter creates an Emitter with the default 1000x500 canvas, default
// dot style, single-batch serialization and no compression.
func NewEmitter(opts ...Option) (*Emitter, error) {
	e := &Emitter{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: DefaultBackground,
		dotColor:   DefaultDotColor,
		dotRadius:  DefaultDotRadius,
		codecType:  compress.TypeNone,
		codec:      compress.NewNoOpCompressor(),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Project maps a dot to pixel coordinates on the canvas. Latitude grows
// northward but pixel rows grow downward, hence the inversion.
func (e *Emitter) Project(d raster.Dot) (x, y float64) {
	x = (d.Lng + 180) / 360 * float64(e.width)
	y = (90 - d.Lat) / 180 * float64(e.height)

	return x, y
}

// Render assembles the full artifact text for the given dots, uncompressed.
func (e *Emitter) Render(dots []raster.Dot) []byte {
	sep := "\n"
	if e.minify {
		sep = ""
	}

	out := pool.NewByteBuffer(pool.ChunkBufferDefaultSize)
	fmt.Fprintf(out,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`,
		e.width, e.height, e.width, e.height)
	out.WriteString(sep)
	fmt.Fprintf(out, `<rect width="%d" height="%d" fill="%s"/>`, e.width, e.height, e.background)
	out.WriteString(sep)

	for _, batch := range e.partition(dots) {
		chunk := pool.GetChunkBuffer()
		e.renderBatch(chunk, batch, sep)
		out.Write(chunk.Bytes())
		pool.PutChunkBuffer(chunk)
	}

	out.WriteString(`</svg>`)
	if !e.minify {
		out.WriteByte('\n')
	}

	return out.Bytes()
}

// partition splits dots into chunkSize batches, preserving order. chunkSize 0
// yields a single batch.
func (e *Emitter) partition(dots []raster.Dot) [][]raster.Dot {
	if e.chunkSize == 0 || len(dots) <= e.chunkSize {
		return [][]raster.Dot{dots}
	}

	batches := make([][]raster.Dot, 0, len(dots)/e.chunkSize+1)
	for start := 0; start < len(dots); start += e.chunkSize {
		end := start + e.chunkSize
		if end > len(dots) {
			end = len(dots)
		}
		batches = append(batches, dots[start:end])
	}

	return batches
}

// renderBatch serializes one batch of dots into buf.
func (e *Emitter) renderBatch(buf *pool.ByteBuffer, dots []raster.Dot, sep string) {
	radius := strconv.FormatFloat(e.dotRadius, 'f', -1, 64)
	for _, d := range dots {
		x, y := e.Project(d)
		buf.WriteString(`<circle cx="`)
		buf.WriteString(e.formatCoord(x))
		buf.WriteString(`" cy="`)
		buf.WriteString(e.formatCoord(y))
		buf.WriteString(`" r="`)
		buf.WriteString(radius)
		buf.WriteString(`" fill="`)
		buf.WriteString(e.dotColor)
		buf.WriteString(`"/>`)
		buf.WriteString(sep)
	}
}

// formatCoord formats a pixel coordinate, rounding when minification is on.
func (e *Emitter) formatCoord(v float64) string {
	if e.minify {
		return strconv.FormatFloat(v, 'f', minifiedPrecision, 64)
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Result describes one emitted artifact.
type Result struct {
	// Path is the artifact location on disk.
	Path string
	// Bytes is the size written, after compression if enabled.
	Bytes int
	// Digest is the xxHash64 of the written bytes.
	Digest uint64
	// Dots is the number of markers drawn.
	Dots int
	// Compression is the codec applied to the artifact.
	Compression compress.Type
}

// Emit renders dots, applies the configured compression and atomically
// writes exactly one artifact at path. On any error nothing is left behind.
func (e *Emitter) Emit(dots []raster.Dot, path string) (Result, error) {
	payload := e.Render(dots)

	packed, err := e.codec.Compress(payload)
	if err != nil {
		return Result{}, fmt.Errorf("compress artifact: %w", err)
	}

	if err := writeFileAtomic(path, packed); err != nil {
		return Result{}, fmt.Errorf("write artifact: %w", err)
	}

	return Result{
		Path:        path,
		Bytes:       len(packed),
		Digest:      hash.Digest(packed),
		Dots:        len(dots),
		Compression: e.codecType,
	}, nil
}

// writeFileAtomic writes data to path via a temp file and rename, so readers
// of path never observe a partial artifact.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".dotmap-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}
