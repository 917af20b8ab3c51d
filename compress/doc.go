// Package compress provides the optional whole-artifact compression stage of
// the map pipeline.
//
// The SVG emitter produces highly repetitive text (tens of thousands of
// near-identical <circle> elements), which compresses extremely well with any
// general-purpose codec. The pipeline treats compression as a pluggable final
// step: the emitter assembles the full artifact in memory, hands the bytes to
// a Codec, and writes whatever comes back as the single output file.
//
// Available codecs:
//
//   - None: artifact written verbatim (the default).
//   - Gzip: produces a standard .svgz file readable by browsers and viewers.
//   - Zstd: best ratio for archival of large renders; pure-Go by default,
//     with a cgo implementation selectable via the "gozstd" build tag.
//   - S2: fastest option when the artifact is consumed by another process
//     rather than a viewer.
//   - LZ4: fast block compression with wide tooling support.
//
// All codecs are symmetric: Decompress(Compress(data)) returns the original
// bytes. Empty input passes through every codec as empty output.
//
// Example:
//
//	codec, err := compress.ForType(compress.TypeGzip)
//	if err != nil {
//		return err
//	}
//	packed, err := codec.Compress(svgBytes)
package compress
