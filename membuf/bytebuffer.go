package membuf

import (
	"encoding/binary"
	"math"
)

// minCapacity is the smallest backing allocation a growing buffer makes.
const minCapacity = 32

// ByteBuffer is a growable block of contiguous little-endian memory,
// addressed by byte offset. Growing the readable length always exposes
// zeroed bytes, even when the backing array is reused after a shrink.
// Offsets are not range-checked here; out-of-range access panics like a
// slice access would. Callers that need graceful errors must check
// against Len first.
type ByteBuffer struct {
	data []byte
}

// NewByteBuffer returns an empty buffer with the given pre-allocated
// capacity in bytes. The capacity is a hint only; Len starts at zero.
func NewByteBuffer(capacity int) *ByteBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &ByteBuffer{data: make([]byte, 0, capacity)}
}

func (b *ByteBuffer) Len() int {
	return len(b.data)
}

func (b *ByteBuffer) Cap() int {
	return cap(b.data)
}

// SetLen resizes the readable region to n bytes. Shrinking keeps the
// backing array; growing zero-fills every newly exposed byte. Capacity
// grows by doubling, so repeated extension is amortized O(1).
func (b *ByteBuffer) SetLen(n int) {
	if n < 0 {
		panic("membuf: negative buffer length")
	}
	old := len(b.data)
	switch {
	case n == old:
	case n < old:
		b.data = b.data[:n]
	case n <= cap(b.data):
		b.data = b.data[:n]
		clear(b.data[old:n])
	default:
		c := cap(b.data)
		if c < minCapacity {
			c = minCapacity
		}
		for c < n {
			c *= 2
		}
		grown := make([]byte, n, c)
		copy(grown, b.data)
		b.data = grown
	}
}

// EnsureLen grows the buffer to at least n bytes, never shrinking.
func (b *ByteBuffer) EnsureLen(n int) {
	if n > len(b.data) {
		b.SetLen(n)
	}
}

// Bytes returns the live readable region. The slice aliases the buffer
// and is invalidated by the next grow.
func (b *ByteBuffer) Bytes() []byte {
	return b.data
}

func (b *ByteBuffer) ByteAt(off int) byte {
	return b.data[off]
}

func (b *ByteBuffer) SetByteAt(off int, v byte) {
	b.data[off] = v
}

func (b *ByteBuffer) Uint16At(off int) uint16 {
	return binary.LittleEndian.Uint16(b.data[off:])
}

func (b *ByteBuffer) SetUint16At(off int, v uint16) {
	binary.LittleEndian.PutUint16(b.data[off:], v)
}

func (b *ByteBuffer) Uint32At(off int) uint32 {
	return binary.LittleEndian.Uint32(b.data[off:])
}

func (b *ByteBuffer) SetUint32At(off int, v uint32) {
	binary.LittleEndian.PutUint32(b.data[off:], v)
}

func (b *ByteBuffer) Float32At(off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b.data[off:]))
}

func (b *ByteBuffer) SetFloat32At(off int, v float32) {
	binary.LittleEndian.PutUint32(b.data[off:], math.Float32bits(v))
}

// CopyWithin copies n bytes from offset src to offset dst inside the
// buffer. Overlapping ranges are handled like the copy builtin.
func (b *ByteBuffer) CopyWithin(dst, src, n int) {
	copy(b.data[dst:dst+n], b.data[src:src+n])
}

// CopyFrom copies n bytes from src starting at srcOff into this buffer
// at dstOff. The destination region must already be within Len.
func (b *ByteBuffer) CopyFrom(src *ByteBuffer, dstOff, srcOff, n int) {
	copy(b.data[dstOff:dstOff+n], src.data[srcOff:srcOff+n])
}

// Fill sets n bytes starting at off to v.
func (b *ByteBuffer) Fill(off, n int, v byte) {
	region := b.data[off : off+n]
	for i := range region {
		region[i] = v
	}
}

// Clone returns an independent copy with exact capacity.
func (b *ByteBuffer) Clone() *ByteBuffer {
	dup := make([]byte, len(b.data))
	copy(dup, b.data)
	return &ByteBuffer{data: dup}
}

// Trim reallocates the backing array to exactly Len bytes, releasing
// over-allocation slack.
func (b *ByteBuffer) Trim() {
	if cap(b.data) == len(b.data) {
		return
	}
	exact := make([]byte, len(b.data))
	copy(exact, b.data)
	b.data = exact
}

// Reset sets Len to zero without releasing capacity.
func (b *ByteBuffer) Reset() {
	b.data = b.data[:0]
}
