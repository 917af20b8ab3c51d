package compress

import (
	"fmt"
	"strings"
)

// Type identifies a compression codec for the emitted artifact.
type Type uint8

const (
	TypeNone Type = iota + 1 // TypeNone writes the artifact verbatim.
	TypeGzip                 // TypeGzip produces a standard .svgz artifact.
	TypeZstd                 // TypeZstd uses Zstandard compression.
	TypeS2                   // TypeS2 uses S2 (Snappy-compatible) compression.
	TypeLZ4                  // TypeLZ4 uses LZ4 block compression.
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeGzip:
		return "gzip"
	case TypeZstd:
		return "zstd"
	case TypeS2:
		return "s2"
	case TypeLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Ext returns the filename suffix conventionally appended to artifacts
// compressed with this codec. TypeNone and unknown types return "".
func (t Type) Ext() string {
	switch t {
	case TypeGzip:
		return ".gz"
	case TypeZstd:
		return ".zst"
	case TypeS2:
		return ".s2"
	case TypeLZ4:
		return ".lz4"
	default:
		return ""
	}
}

// ParseType maps a codec name (as accepted on the command line) to a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return TypeNone, nil
	case "gzip", "gz":
		return TypeGzip, nil
	case "zstd":
		return TypeZstd, nil
	case "s2":
		return TypeS2, nil
	case "lz4":
		return TypeLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression type %q", name)
	}
}

// Compressor compresses a fully assembled artifact payload.
type Compressor interface {
	// Compress compresses data and returns the result.
	//
	// The returned slice is newly allocated and owned by the caller (except
	// for the no-op codec, which returns its input). The input slice is never
	// modified. Empty input yields empty output and no error.
	Compress(data []byte) ([]byte, error)
}

// Decompressor recovers an artifact payload compressed by the matching
// Compressor. It validates the input format and returns an error on
// corrupted or mismatched data.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions; every codec in this package implements it.
type Codec interface {
	Compressor
	Decompressor
}

// ForType returns the codec implementing the given Type.
func ForType(t Type) (Codec, error) {
	switch t {
	case TypeNone:
		return NewNoOpCompressor(), nil
	case TypeGzip:
		return NewGzipCompressor(), nil
	case TypeZstd:
		return NewZstdCompressor(), nil
	case TypeS2:
		return NewS2Compressor(), nil
	case TypeLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("no codec for compression type %d", t)
	}
}
