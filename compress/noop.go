package compress

// NoOpCompressor passes the artifact through unchanged. It is the codec
// behind TypeNone and keeps the emitter's write path uniform: every artifact
// goes through a Codec whether or not compression is enabled.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged. The returned slice shares memory with the
// input; callers must not mutate the input afterwards.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged. The returned slice shares memory with
// the input; callers must not mutate the input afterwards.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
