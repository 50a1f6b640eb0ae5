package render

import (
	"fmt"

	"github.com/flare2d/flare/membuf"
)

// indexSize is the byte width of one index. Indices are 16-bit, the
// width GPU index buffers consume here.
const indexSize = 2

// defaultIndexCapacity pre-allocates room for a handful of quads' worth
// of triangles.
const defaultIndexCapacity = 48

// IndexData is the growable triangle index list that pairs with
// VertexData. The same rules apply: single owner, no locking, setters
// auto-grow with zero fill, getters bound-check, and every call after
// Dispose fails with ErrDisposed. Range arguments follow the VertexData
// convention, with a negative count selecting through the end.
type IndexData struct {
	buf      *membuf.ByteBuffer
	num      int
	disposed bool
}

// NewIndexData returns an empty list with room for initialCapacity
// indices pre-allocated.
func NewIndexData(initialCapacity int) *IndexData {
	if initialCapacity <= 0 {
		initialCapacity = defaultIndexCapacity
	}
	return &IndexData{buf: membuf.NewByteBuffer(initialCapacity * indexSize)}
}

func (id *IndexData) checkLive() error {
	if id.disposed {
		return ErrDisposed
	}
	return nil
}

func (id *IndexData) clampRange(indexID, numIndices int) (int, int, error) {
	if indexID < 0 {
		return 0, 0, fmt.Errorf("%w: index %d", ErrIndexOutOfRange, indexID)
	}
	if indexID > id.num {
		indexID = id.num
	}
	if numIndices < 0 || indexID+numIndices > id.num {
		numIndices = id.num - indexID
	}
	return indexID, numIndices, nil
}

// NumIndices returns the current index count.
func (id *IndexData) NumIndices() int {
	return id.num
}

// NumTriangles returns the number of complete triangles.
func (id *IndexData) NumTriangles() int {
	return id.num / 3
}

// SetNumIndices grows or shrinks the list. New slots read as zero;
// shrinking keeps the allocation.
func (id *IndexData) SetNumIndices(n int) error {
	if err := id.checkLive(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative index count %d", ErrInvalidArgument, n)
	}
	id.buf.SetLen(n * indexSize)
	id.num = n
	return nil
}

// GetIndex reads one index.
func (id *IndexData) GetIndex(indexID int) (uint16, error) {
	if err := id.checkLive(); err != nil {
		return 0, err
	}
	if indexID < 0 || indexID >= id.num {
		return 0, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, indexID, id.num)
	}
	return id.buf.Uint16At(indexID * indexSize), nil
}

// SetIndex writes one index, growing the list when indexID is past the
// end.
func (id *IndexData) SetIndex(indexID int, value uint16) error {
	if err := id.checkLive(); err != nil {
		return err
	}
	if indexID < 0 {
		return fmt.Errorf("%w: index %d", ErrIndexOutOfRange, indexID)
	}
	if id.num < indexID+1 {
		id.buf.SetLen((indexID + 1) * indexSize)
		id.num = indexID + 1
	}
	id.buf.SetUint16At(indexID*indexSize, value)
	return nil
}

// AddTriangle appends the indices of one triangle.
func (id *IndexData) AddTriangle(a, b, c uint16) error {
	if err := id.checkLive(); err != nil {
		return err
	}
	off := id.num * indexSize
	id.buf.SetLen(off + 3*indexSize)
	id.buf.SetUint16At(off, a)
	id.buf.SetUint16At(off+2, b)
	id.buf.SetUint16At(off+4, c)
	id.num += 3
	return nil
}

// OffsetIndices adds offset to every index value in the range. Used
// when the vertices a mesh points at move to a different position in a
// shared vertex buffer.
func (id *IndexData) OffsetIndices(offset int, indexID, numIndices int) error {
	if err := id.checkLive(); err != nil {
		return err
	}
	start, count, err := id.clampRange(indexID, numIndices)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		pos := (start + i) * indexSize
		id.buf.SetUint16At(pos, uint16(int(id.buf.Uint16At(pos))+offset))
	}
	return nil
}

// CopyTo copies an index range into target starting at targetIndexID,
// growing it as needed, and adds offset to every value on the way over.
func (id *IndexData) CopyTo(target *IndexData, targetIndexID, offset, indexID, numIndices int) error {
	if err := id.checkLive(); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: nil copy target", ErrInvalidArgument)
	}
	if err := target.checkLive(); err != nil {
		return err
	}
	if targetIndexID < 0 {
		return fmt.Errorf("%w: target index %d", ErrIndexOutOfRange, targetIndexID)
	}
	start, count, err := id.clampRange(indexID, numIndices)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	if newNum := targetIndexID + count; newNum > target.num {
		target.buf.SetLen(newNum * indexSize)
		target.num = newNum
	}

	if offset == 0 {
		target.buf.CopyFrom(id.buf, targetIndexID*indexSize, start*indexSize, count*indexSize)
		return nil
	}
	for i := 0; i < count; i++ {
		v := int(id.buf.Uint16At((start + i) * indexSize))
		target.buf.SetUint16At((targetIndexID+i)*indexSize, uint16(v+offset))
	}
	return nil
}

// ToSlice returns the indices as a fresh slice.
func (id *IndexData) ToSlice() ([]uint16, error) {
	if err := id.checkLive(); err != nil {
		return nil, err
	}
	out := make([]uint16, id.num)
	for i := range out {
		out[i] = id.buf.Uint16At(i * indexSize)
	}
	return out, nil
}

// Clone returns an independent deep copy.
func (id *IndexData) Clone() (*IndexData, error) {
	if err := id.checkLive(); err != nil {
		return nil, err
	}
	return &IndexData{buf: id.buf.Clone(), num: id.num}, nil
}

// Trim drops the buffer's over-allocation slack.
func (id *IndexData) Trim() error {
	if err := id.checkLive(); err != nil {
		return err
	}
	id.buf.Trim()
	return nil
}

// Clear forgets all indices but keeps the allocation for reuse.
func (id *IndexData) Clear() error {
	if err := id.checkLive(); err != nil {
		return err
	}
	id.buf.Reset()
	id.num = 0
	return nil
}

// Dispose releases the underlying buffer. Every later call fails with
// ErrDisposed; disposing twice is harmless.
func (id *IndexData) Dispose() {
	id.buf = nil
	id.disposed = true
}

// Bytes exposes the raw index block, NumIndices*2 bytes long. The slice
// aliases live storage and goes stale on the next growth. A disposed
// list returns nil.
func (id *IndexData) Bytes() []byte {
	if id.disposed {
		return nil
	}
	return id.buf.Bytes()
}

// UploadTo pushes an index range into a GPU-facing sink. A nil sink
// fails with ErrNoContext; an empty range uploads nothing and reports
// no error.
func (id *IndexData) UploadTo(sink IndexSink, indexID, numIndices int) error {
	if err := id.checkLive(); err != nil {
		return err
	}
	if sink == nil {
		return fmt.Errorf("%w: nil index sink", ErrNoContext)
	}
	start, count, err := id.clampRange(indexID, numIndices)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return sink.Upload(id.buf.Bytes(), id.num, start, count)
}
