package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleArtifact builds an SVG-shaped payload: one header, many repetitive
// circle elements, exactly what the emitter feeds the codecs.
func sampleArtifact(circles int) []byte {
	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1000 500" width="1000" height="500">`)
	sb.WriteString(`<rect width="1000" height="500" fill="#0b1220"/>`)
	for i := 0; i < circles; i++ {
		sb.WriteString(`<circle cx="512.50" cy="250.00" r="1.5" fill="#38bdf8"/>`)
	}
	sb.WriteString(`</svg>`)

	return []byte(sb.String())
}

func roundTripCodecs(t *testing.T) map[string]Codec {
	t.Helper()

	return map[string]Codec{
		"gzip": NewGzipCompressor(),
		"zstd": NewZstdCompressor(),
		"s2":   NewS2Compressor(),
		"lz4":  NewLZ4Compressor(),
		"noop": NewNoOpCompressor(),
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	payload := sampleArtifact(2000)

	for name, codec := range roundTripCodecs(t) {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Equal(t, payload, restored)
		})
	}
}

func TestCodec_EmptyInput(t *testing.T) {
	for name, codec := range roundTripCodecs(t) {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			assert.Empty(t, compressed)

			restored, err := codec.Decompress(nil)
			require.NoError(t, err)
			assert.Empty(t, restored)
		})
	}
}

func TestCodec_CompressesRepetitiveSVG(t *testing.T) {
	payload := sampleArtifact(5000)

	for _, name := range []string{"gzip", "zstd", "s2", "lz4"} {
		codec := roundTripCodecs(t)[name]
		compressed, err := codec.Compress(payload)
		require.NoError(t, err)
		assert.Less(t, len(compressed), len(payload)/10,
			"%s should shrink repetitive SVG text by at least 10x", name)
	}
}

func TestCodec_RejectsCorruptedInput(t *testing.T) {
	garbage := []byte("definitely not a compressed artifact")

	for _, name := range []string{"gzip", "zstd"} {
		t.Run(name, func(t *testing.T) {
			_, err := roundTripCodecs(t)[name].Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestForType(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeGzip, TypeZstd, TypeS2, TypeLZ4} {
		codec, err := ForType(typ)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := ForType(Type(99))
	require.Error(t, err)
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"", TypeNone, false},
		{"none", TypeNone, false},
		{"gzip", TypeGzip, false},
		{"GZ", TypeGzip, false},
		{"zstd", TypeZstd, false},
		{"s2", TypeS2, false},
		{"lz4", TypeLZ4, false},
		{"brotli", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestType_Strings(t *testing.T) {
	assert.Equal(t, "gzip", TypeGzip.String())
	assert.Equal(t, "none", TypeNone.String())
	assert.Equal(t, "unknown", Type(99).String())

	assert.Equal(t, ".gz", TypeGzip.Ext())
	assert.Equal(t, ".zst", TypeZstd.Ext())
	assert.Equal(t, "", TypeNone.Ext())
}
