package compress

// ZstdCompressor provides Zstandard compression for the artifact payload.
//
// Zstd gives the best ratio of the codecs here on repetitive SVG text and is
// the right choice when renders are archived rather than served directly.
// The implementation is selected at build time: the default build uses the
// pure-Go klauspost/compress encoder, while the "gozstd" build tag swaps in
// the cgo bindings to libzstd for environments where that is acceptable.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
