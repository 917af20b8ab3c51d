// Package hash provides content digests for pipeline diagnostics.
//
// The fetcher fingerprints every topology body it downloads so that mirror
// disagreements show up in the logs as differing digests, and the emitter
// fingerprints the finished artifact so that two runs with identical settings
// can be compared without diffing the files themselves.
package hash

import "github.com/cespare/xxhash/v2"

// Digest computes the xxHash64 of data.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// DigestString computes the xxHash64 of the given string.
func DigestString(data string) uint64 {
	return xxhash.Sum64String(data)
}
