package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// gzipWriterPool pools gzip writers; Reset lets one writer serve many
// artifacts without re-allocating its internal deflate state.
var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

// GzipCompressor produces RFC 1952 gzip streams. An SVG artifact compressed
// with it is a valid .svgz file that browsers and vector viewers open
// directly, which makes gzip the default choice when compression is enabled.
type GzipCompressor struct{}

var _ Codec = (*GzipCompressor)(nil)

// NewGzipCompressor creates a new gzip codec with default compression level.
func NewGzipCompressor() GzipCompressor {
	return GzipCompressor{}
}

// Compress compresses data into a gzip stream.
func (c GzipCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var out bytes.Buffer
	out.Grow(len(data) / 4)

	gw, _ := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(gw)
	gw.Reset(&out)

	if _, err := gw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := gw.Close(); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}

	return out.Bytes(), nil
}

// Decompress inflates a gzip stream produced by Compress (or any other
// standard gzip writer).
func (c GzipCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}
	defer gr.Close()

	out, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("gzip decompression failed: %w", err)
	}

	return out, nil
}
