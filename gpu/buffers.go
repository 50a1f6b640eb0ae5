package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/flare2d/flare/render"
)

// growthSlack is allocated beyond the immediate need whenever a buffer
// is (re)created, so steadily growing geometry does not reallocate
// every frame.
const growthSlack = 16 * 1024

var (
	_ render.BufferSink = (*VertexBuffer)(nil)
	_ render.IndexSink  = (*IndexBuffer)(nil)
)

// ensureBuffer makes sure *buf can hold dataLen bytes, (re)creating it
// with slack when it cannot. It reports whether the buffer was created,
// which means its previous contents are gone and the caller must upload
// the whole block.
func ensureBuffer(ctx *Context, buf **wgpu.Buffer, label string, dataLen int, usage wgpu.BufferUsage) (bool, error) {
	need := uint64(dataLen + growthSlack)
	if need%4 != 0 {
		need += 4 - need%4
	}

	current := *buf
	if current != nil && current.GetSize() >= need {
		return false, nil
	}
	if current != nil {
		current.Release()
		*buf = nil
	}

	created, err := ctx.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  need,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return false, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}
	*buf = created
	return true, nil
}

// VertexBuffer is a lazily allocated GPU vertex buffer fed through
// render.VertexData.UploadTo. Nothing is allocated until the first
// upload.
type VertexBuffer struct {
	ctx      *Context
	label    string
	buf      *wgpu.Buffer
	disposed bool
}

func NewVertexBuffer(ctx *Context, label string) *VertexBuffer {
	if label == "" {
		label = "Vertex Buffer"
	}
	return &VertexBuffer{ctx: ctx, label: label}
}

// Upload implements render.BufferSink. data is the store's whole byte
// block and (startVertex, numVertices) the range that changed; after a
// (re)creation the whole block is written instead, since the old
// contents are gone.
func (vb *VertexBuffer) Upload(data []byte, totalVertices, data32PerVertex, startVertex, numVertices int) error {
	if vb.disposed {
		return fmt.Errorf("%w: vertex buffer %q", render.ErrDisposed, vb.label)
	}
	if !vb.ctx.Alive() {
		return fmt.Errorf("%w: vertex buffer %q", render.ErrNoContext, vb.label)
	}

	stride := data32PerVertex * 4
	created, err := ensureBuffer(vb.ctx, &vb.buf, vb.label, totalVertices*stride, wgpu.BufferUsageVertex)
	if err != nil {
		return err
	}
	if created {
		startVertex, numVertices = 0, totalVertices
	}
	if numVertices == 0 {
		return nil
	}

	offset := startVertex * stride
	payload := data[offset : offset+numVertices*stride]
	if err := vb.ctx.queue.WriteBuffer(vb.buf, uint64(offset), payload); err != nil {
		return fmt.Errorf("failed to write vertex buffer %q: %w", vb.label, err)
	}
	return nil
}

// Buffer returns the underlying wgpu buffer for binding in a render
// pass, nil before the first upload.
func (vb *VertexBuffer) Buffer() *wgpu.Buffer {
	return vb.buf
}

// Dispose releases the GPU buffer. Later uploads fail with ErrDisposed.
func (vb *VertexBuffer) Dispose() {
	if vb.buf != nil {
		vb.buf.Release()
		vb.buf = nil
	}
	vb.disposed = true
}

// IndexBuffer is the IndexData counterpart of VertexBuffer, holding
// 2-byte triangle indices.
type IndexBuffer struct {
	ctx      *Context
	label    string
	buf      *wgpu.Buffer
	disposed bool
}

func NewIndexBuffer(ctx *Context, label string) *IndexBuffer {
	if label == "" {
		label = "Index Buffer"
	}
	return &IndexBuffer{ctx: ctx, label: label}
}

// alignIndexRange widens an index range so that its byte offset and
// length are multiples of four, which WriteBuffer requires and 2-byte
// indices do not naturally give. The widened range pulls in neighboring
// live indices; only a range ending at an odd total cannot be fixed
// that way, and the caller pads the trailing two bytes instead.
func alignIndexRange(start, count, total int) (first, end int) {
	first = start &^ 1
	end = start + count
	if (end-first)&1 == 1 && end < total {
		end++
	}
	return first, end
}

// Upload implements render.IndexSink with the same whole-block
// semantics as VertexBuffer.Upload.
func (ib *IndexBuffer) Upload(data []byte, totalIndices, startIndex, numIndices int) error {
	if ib.disposed {
		return fmt.Errorf("%w: index buffer %q", render.ErrDisposed, ib.label)
	}
	if !ib.ctx.Alive() {
		return fmt.Errorf("%w: index buffer %q", render.ErrNoContext, ib.label)
	}

	created, err := ensureBuffer(ib.ctx, &ib.buf, ib.label, totalIndices*2, wgpu.BufferUsageIndex)
	if err != nil {
		return err
	}
	if created {
		startIndex, numIndices = 0, totalIndices
	}
	if numIndices == 0 {
		return nil
	}

	first, end := alignIndexRange(startIndex, numIndices, totalIndices)
	payload := data[first*2 : end*2]
	if len(payload)%4 != 0 {
		// Only possible when end == totalIndices, so the two pad bytes
		// land in the buffer's slack past the live data.
		padded := make([]byte, len(payload)+2)
		copy(padded, payload)
		payload = padded
	}

	if err := ib.ctx.queue.WriteBuffer(ib.buf, uint64(first*2), payload); err != nil {
		return fmt.Errorf("failed to write index buffer %q: %w", ib.label, err)
	}
	return nil
}

// Buffer returns the underlying wgpu buffer for binding in a render
// pass, nil before the first upload.
func (ib *IndexBuffer) Buffer() *wgpu.Buffer {
	return ib.buf
}

// Dispose releases the GPU buffer. Later uploads fail with ErrDisposed.
func (ib *IndexBuffer) Dispose() {
	if ib.buf != nil {
		ib.buf.Release()
		ib.buf = nil
	}
	ib.disposed = true
}
