// Package pool provides pooled byte buffers that the codec uses as scratch
// space while building a payload, so that the scratch buffer is reused
// across encodes.
package pool

import "sync"

const (
	// BufferDefaultSize is the initial capacity of a pooled buffer, sized for
	// typical scalar and small-vector payloads.
	BufferDefaultSize = 256

	// BufferMaxThreshold caps the capacity of buffers returned to the pool;
	// anything larger is dropped for the garbage collector.
	BufferMaxThreshold = 64 * 1024
)

// ByteBuffer is a reusable byte slice wrapper.
type ByteBuffer struct {
	B []byte
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer, retaining its capacity.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the current length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

var bufferPool = sync.Pool{
	New: func() any {
		return &ByteBuffer{B: make([]byte, 0, BufferDefaultSize)}
	},
}

// GetBuffer obtains an empty buffer from the pool.
func GetBuffer() *ByteBuffer {
	bb, _ := bufferPool.Get().(*ByteBuffer)
	bb.Reset()

	return bb
}

// PutBuffer returns a buffer to the pool. Oversized buffers are dropped.
func PutBuffer(bb *ByteBuffer) {
	if bb == nil || cap(bb.B) > BufferMaxThreshold {
		return
	}
	bufferPool.Put(bb)
}
