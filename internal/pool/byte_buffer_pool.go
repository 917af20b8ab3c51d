// Package pool provides pooled byte buffers for SVG chunk assembly.
//
// The emitter serializes dots in fixed-size batches; each batch is rendered
// into a pooled buffer and appended to the artifact, so a million-dot render
// reuses a handful of buffers instead of allocating one per batch.
package pool

import (
	"io"
	"sync"
)

const (
	// ChunkBufferDefaultSize is the initial capacity of buffers handed out by
	// the pool, sized for a typical few-thousand-circle SVG batch.
	ChunkBufferDefaultSize = 64 * 1024
	// ChunkBufferMaxThreshold caps the capacity of buffers returned to the
	// pool; anything larger is dropped so one oversized batch does not pin
	// memory for the rest of the run.
	ChunkBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a minimal append-only byte buffer that implements io.Writer
// and io.WriterTo, suitable for fmt.Fprintf-style serialization.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes accumulated so far.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the underlying slice.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Reset empties the buffer while retaining its allocation.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteString appends s to the buffer, growing it as needed.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// WriteByte appends a single byte to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteTo writes the buffer contents to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

var chunkBufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(ChunkBufferDefaultSize)
	},
}

// GetChunkBuffer returns an empty buffer from the pool.
func GetChunkBuffer() *ByteBuffer {
	bb, _ := chunkBufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutChunkBuffer returns a buffer to the pool. Buffers that grew past
// ChunkBufferMaxThreshold are discarded instead of retained.
func PutChunkBuffer(bb *ByteBuffer) {
	if bb == nil || bb.Cap() > ChunkBufferMaxThreshold {
		return
	}
	chunkBufferPool.Put(bb)
}
