// Package render implements the vertex-level data layer of the engine:
// runtime-described vertex layouts, a densely packed attribute store
// with premultiplied-alpha color handling, and the triangle index list
// that pairs with it. Stores are single-owner objects built for a
// synchronous frame loop; nothing in this package locks.
package render

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/flare2d/flare/geom"
	"github.com/flare2d/flare/membuf"
)

// Conventional attribute names. Cross-format copies apply their matrix
// to the attribute named PositionAttribute; everything else moves
// verbatim.
const (
	PositionAttribute = "position"
	ColorAttribute    = "color"
)

// defaultVertexCapacity is the pre-allocation used when no capacity
// hint is given, sized for a handful of quads.
const defaultVertexCapacity = 32

// VertexData is a growable buffer of per-vertex attributes packed in a
// layout chosen at runtime. Setters auto-grow the store to reach the
// written vertex; getters bound-check and fail with ErrIndexOutOfRange
// instead. Freshly grown vertices read as zero except color attributes,
// which start white-opaque so new geometry renders untinted and fully
// visible.
//
// Operations taking a (vertexID, numVertices) range treat a negative
// numVertices as "everything from vertexID to the end"; counts reaching
// past the end are clamped.
//
// Colors are stored premultiplied by default. The tinted flag tracks
// whether any color deviates from white-opaque; bulk operations keep it
// as a conservative upper bound and UpdateTinted recomputes it exactly.
type VertexData struct {
	buf      *membuf.ByteBuffer
	format   *VertexFormat
	num      int
	pma      bool
	tinted   bool
	disposed bool

	// position caches the conventional position attribute, nil when
	// the format has none.
	position *Attribute
}

// NewVertexData returns an empty store for the given layout. A nil
// format selects DefaultFormat. initialCapacity pre-allocates room for
// that many vertices without affecting NumVertices, which starts at
// zero.
func NewVertexData(format *VertexFormat, initialCapacity int) *VertexData {
	if format == nil {
		format = DefaultFormat
	}
	if initialCapacity <= 0 {
		initialCapacity = defaultVertexCapacity
	}
	return &VertexData{
		buf:      membuf.NewByteBuffer(initialCapacity * format.Stride()),
		format:   format,
		pma:      true,
		position: format.attr(PositionAttribute),
	}
}

func (vd *VertexData) checkLive() error {
	if vd.disposed {
		return ErrDisposed
	}
	return nil
}

func (vd *VertexData) checkVertex(vertexID int) error {
	if vertexID < 0 || vertexID >= vd.num {
		return fmt.Errorf("%w: vertex %d of %d", ErrIndexOutOfRange, vertexID, vd.num)
	}
	return nil
}

// prepWrite validates a setter's vertex index and grows the store so
// the index is in range.
func (vd *VertexData) prepWrite(vertexID int) error {
	if vertexID < 0 {
		return fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, vertexID)
	}
	if vd.num < vertexID+1 {
		vd.setNumVertices(vertexID + 1)
	}
	return nil
}

// clampRange resolves a (vertexID, numVertices) range against the
// current count.
func (vd *VertexData) clampRange(vertexID, numVertices int) (int, int, error) {
	if vertexID < 0 {
		return 0, 0, fmt.Errorf("%w: vertex %d", ErrIndexOutOfRange, vertexID)
	}
	if vertexID > vd.num {
		vertexID = vd.num
	}
	if numVertices < 0 || vertexID+numVertices > vd.num {
		numVertices = vd.num - vertexID
	}
	return vertexID, numVertices, nil
}

func (vd *VertexData) attrOf(name string) (*Attribute, error) {
	a := vd.format.attr(name)
	if a == nil {
		return nil, fmt.Errorf("%w: %q in format %q", ErrAttributeNotFound, name, vd.format)
	}
	return a, nil
}

func (vd *VertexData) offsetOf(vertexID int, attr *Attribute) int {
	return vertexID*vd.format.stride + attr.Offset
}

// NumVertices returns the current vertex count.
func (vd *VertexData) NumVertices() int {
	return vd.num
}

// SetNumVertices grows or shrinks the store. New vertices read as zero
// except color attributes, which are initialized white-opaque.
// Shrinking keeps the allocation; shrinking to zero also clears the
// tinted flag.
func (vd *VertexData) SetNumVertices(n int) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative vertex count %d", ErrInvalidArgument, n)
	}
	vd.setNumVertices(n)
	return nil
}

func (vd *VertexData) setNumVertices(n int) {
	stride := vd.format.stride
	if n > vd.num {
		vd.buf.SetLen(n * stride)
		for i := range vd.format.attributes {
			attr := &vd.format.attributes[i]
			if !attr.IsColor {
				continue
			}
			pos := vd.num*stride + attr.Offset
			for v := vd.num; v < n; v++ {
				vd.buf.SetUint32At(pos, whiteOpaque)
				pos += stride
			}
		}
	} else if n < vd.num {
		vd.buf.SetLen(n * stride)
	}
	if n == 0 {
		vd.tinted = false
	}
	vd.num = n
}

// GetFloat reads the first float of an attribute.
func (vd *VertexData) GetFloat(vertexID int, attrName string) (float32, error) {
	if err := vd.checkLive(); err != nil {
		return 0, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return 0, err
	}
	if err := vd.checkVertex(vertexID); err != nil {
		return 0, err
	}
	return vd.buf.Float32At(vd.offsetOf(vertexID, attr)), nil
}

// SetFloat writes the first float of an attribute.
func (vd *VertexData) SetFloat(vertexID int, attrName string, value float32) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	if err := vd.prepWrite(vertexID); err != nil {
		return err
	}
	vd.buf.SetFloat32At(vd.offsetOf(vertexID, attr), value)
	return nil
}

// GetPoint reads a float2 attribute.
func (vd *VertexData) GetPoint(vertexID int, attrName string) (mgl32.Vec2, error) {
	if err := vd.checkLive(); err != nil {
		return mgl32.Vec2{}, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return mgl32.Vec2{}, err
	}
	if err := vd.checkVertex(vertexID); err != nil {
		return mgl32.Vec2{}, err
	}
	off := vd.offsetOf(vertexID, attr)
	return mgl32.Vec2{vd.buf.Float32At(off), vd.buf.Float32At(off + 4)}, nil
}

// SetPoint writes a float2 attribute.
func (vd *VertexData) SetPoint(vertexID int, attrName string, x, y float32) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	if err := vd.prepWrite(vertexID); err != nil {
		return err
	}
	off := vd.offsetOf(vertexID, attr)
	vd.buf.SetFloat32At(off, x)
	vd.buf.SetFloat32At(off+4, y)
	return nil
}

// GetPoint3D reads a float3 attribute.
func (vd *VertexData) GetPoint3D(vertexID int, attrName string) (mgl32.Vec3, error) {
	if err := vd.checkLive(); err != nil {
		return mgl32.Vec3{}, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	if err := vd.checkVertex(vertexID); err != nil {
		return mgl32.Vec3{}, err
	}
	off := vd.offsetOf(vertexID, attr)
	return mgl32.Vec3{
		vd.buf.Float32At(off),
		vd.buf.Float32At(off + 4),
		vd.buf.Float32At(off + 8),
	}, nil
}

// SetPoint3D writes a float3 attribute.
func (vd *VertexData) SetPoint3D(vertexID int, attrName string, x, y, z float32) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	if err := vd.prepWrite(vertexID); err != nil {
		return err
	}
	off := vd.offsetOf(vertexID, attr)
	vd.buf.SetFloat32At(off, x)
	vd.buf.SetFloat32At(off+4, y)
	vd.buf.SetFloat32At(off+8, z)
	return nil
}

// GetPoint4D reads a float4 attribute.
func (vd *VertexData) GetPoint4D(vertexID int, attrName string) (mgl32.Vec4, error) {
	if err := vd.checkLive(); err != nil {
		return mgl32.Vec4{}, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	if err := vd.checkVertex(vertexID); err != nil {
		return mgl32.Vec4{}, err
	}
	off := vd.offsetOf(vertexID, attr)
	return mgl32.Vec4{
		vd.buf.Float32At(off),
		vd.buf.Float32At(off + 4),
		vd.buf.Float32At(off + 8),
		vd.buf.Float32At(off + 12),
	}, nil
}

// SetPoint4D writes a float4 attribute.
func (vd *VertexData) SetPoint4D(vertexID int, attrName string, x, y, z, w float32) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	if err := vd.prepWrite(vertexID); err != nil {
		return err
	}
	off := vd.offsetOf(vertexID, attr)
	vd.buf.SetFloat32At(off, x)
	vd.buf.SetFloat32At(off+4, y)
	vd.buf.SetFloat32At(off+8, z)
	vd.buf.SetFloat32At(off+12, w)
	return nil
}

// GetColor returns a vertex color as straight 0xRRGGBB, undoing
// premultiplication when active.
func (vd *VertexData) GetColor(vertexID int, attrName string) (uint32, error) {
	if err := vd.checkLive(); err != nil {
		return 0, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return 0, err
	}
	if err := vd.checkVertex(vertexID); err != nil {
		return 0, err
	}
	rgba := switchEndian(vd.buf.Uint32At(vd.offsetOf(vertexID, attr)))
	if vd.pma {
		rgba = unmultiplyAlpha(rgba)
	}
	return rgba >> 8 & 0xffffff, nil
}

// SetColor writes a straight 0xRRGGBB color, keeping the vertex's
// current alpha.
func (vd *VertexData) SetColor(vertexID int, attrName string, rgb uint32) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	if _, err := vd.attrOf(attrName); err != nil {
		return err
	}
	if err := vd.prepWrite(vertexID); err != nil {
		return err
	}
	alpha, err := vd.GetAlpha(vertexID, attrName)
	if err != nil {
		return err
	}
	return vd.Colorize(attrName, rgb, alpha, vertexID, 1)
}

// GetAlpha returns a vertex alpha in [0, 1]. The alpha byte means the
// same thing in straight and premultiplied storage.
func (vd *VertexData) GetAlpha(vertexID int, attrName string) (float32, error) {
	if err := vd.checkLive(); err != nil {
		return 0, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return 0, err
	}
	if err := vd.checkVertex(vertexID); err != nil {
		return 0, err
	}
	return float32(vd.buf.ByteAt(vd.offsetOf(vertexID, attr)+3)) / 255, nil
}

// SetAlpha writes a vertex alpha, keeping the vertex's current RGB.
func (vd *VertexData) SetAlpha(vertexID int, attrName string, alpha float32) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	if _, err := vd.attrOf(attrName); err != nil {
		return err
	}
	if err := vd.prepWrite(vertexID); err != nil {
		return err
	}
	rgb, err := vd.GetColor(vertexID, attrName)
	if err != nil {
		return err
	}
	return vd.Colorize(attrName, rgb, alpha, vertexID, 1)
}

// Colorize writes one color and alpha across a vertex range. SetColor
// and SetAlpha funnel through here so premultiplication is handled in
// exactly one place. Writing white-opaque over the whole store clears
// the tinted flag; writing any other color sets it.
func (vd *VertexData) Colorize(attrName string, rgb uint32, alpha float32, vertexID, numVertices int) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return err
	}

	rgba := rgb<<8&0xffffff00 | alphaToByte(alpha)

	if rgba == whiteOpaque && count == vd.num {
		vd.tinted = false
	} else if rgba != whiteOpaque {
		vd.tinted = true
	}

	if vd.pma {
		rgba = premultiplyAlpha(rgba)
	}

	wire := switchEndian(rgba)
	pos := vd.offsetOf(start, attr)
	for i := 0; i < count; i++ {
		vd.buf.SetUint32At(pos, wire)
		pos += vd.format.stride
	}
	return nil
}

// ScaleAlphas multiplies the alpha of every vertex in the range by
// factor, clamping to [0, 1]. With premultiplied storage the RGB bytes
// are re-derived through an unmultiply and premultiply pass so rounding
// error does not compound. Any factor other than 1 marks the store
// tinted.
func (vd *VertexData) ScaleAlphas(attrName string, factor float32, vertexID, numVertices int) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	if factor == 1 {
		return nil
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return err
	}

	vd.tinted = true

	off := vd.offsetOf(start, attr)
	for i := 0; i < count; i++ {
		alpha := float32(vd.buf.ByteAt(off+3)) / 255 * factor
		if alpha > 1 {
			alpha = 1
		} else if alpha < 0 {
			alpha = 0
		}

		if alpha == 1 || !vd.pma {
			vd.buf.SetByteAt(off+3, byte(alphaToByte(alpha)))
		} else {
			rgba := unmultiplyAlpha(switchEndian(vd.buf.Uint32At(off)))
			rgba = rgba&0xffffff00 | alphaToByte(alpha)
			vd.buf.SetUint32At(off, switchEndian(premultiplyAlpha(rgba)))
		}
		off += vd.format.stride
	}
	return nil
}

// UpdateTinted rescans a color attribute and recomputes the exact
// tinted flag, which bulk operations only maintain conservatively.
func (vd *VertexData) UpdateTinted(attrName string) (bool, error) {
	if err := vd.checkLive(); err != nil {
		return false, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return false, err
	}
	vd.tinted = false
	off := attr.Offset
	for i := 0; i < vd.num; i++ {
		if vd.buf.Uint32At(off) != whiteOpaque {
			vd.tinted = true
			break
		}
		off += vd.format.stride
	}
	return vd.tinted, nil
}

// Tinted reports whether any color may deviate from white-opaque. The
// flag errs towards true; UpdateTinted makes it exact.
func (vd *VertexData) Tinted() bool {
	return vd.tinted
}

// SetTinted overrides the tint flag, for callers that already know the
// answer.
func (vd *VertexData) SetTinted(tinted bool) {
	vd.tinted = tinted
}

// TransformPoints applies a 2D affine transform to a float2 attribute
// across a vertex range, in place.
func (vd *VertexData) TransformPoints(attrName string, matrix geom.Matrix, vertexID, numVertices int) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return err
	}
	off := vd.offsetOf(start, attr)
	for i := 0; i < count; i++ {
		x, y := matrix.TransformXY(vd.buf.Float32At(off), vd.buf.Float32At(off+4))
		vd.buf.SetFloat32At(off, x)
		vd.buf.SetFloat32At(off+4, y)
		off += vd.format.stride
	}
	return nil
}

// TranslatePoints shifts a float2 attribute by (dx, dy) across a vertex
// range, in place.
func (vd *VertexData) TranslatePoints(attrName string, dx, dy float32, vertexID, numVertices int) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return err
	}
	off := vd.offsetOf(start, attr)
	for i := 0; i < count; i++ {
		vd.buf.SetFloat32At(off, vd.buf.Float32At(off)+dx)
		vd.buf.SetFloat32At(off+4, vd.buf.Float32At(off+4)+dy)
		off += vd.format.stride
	}
	return nil
}

// CopyTo copies a vertex range into target starting at targetVertexID,
// growing target as needed. When both stores share the same format
// instance the range moves as one block copy, followed by an optional
// pass transforming just the position attribute. Otherwise attributes
// are matched by name and copied one at a time; attributes missing from
// the target are skipped, and same-named attributes with different
// types fail with ErrFormatMismatch.
func (vd *VertexData) CopyTo(target *VertexData, targetVertexID int, matrix *geom.Matrix, vertexID, numVertices int) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: nil copy target", ErrInvalidArgument)
	}
	if err := target.checkLive(); err != nil {
		return err
	}
	if targetVertexID < 0 {
		return fmt.Errorf("%w: target vertex %d", ErrIndexOutOfRange, targetVertexID)
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	if vd.format == target.format {
		stride := vd.format.stride
		if newNum := targetVertexID + count; newNum > target.num {
			// Grown through the regular path so any gap in front of the
			// copied range keeps the white color defaults; the block
			// copy only overwrites the range itself.
			target.setNumVertices(newNum)
		}
		target.tinted = target.tinted || vd.tinted

		target.buf.CopyFrom(vd.buf, targetVertexID*stride, start*stride, count*stride)

		if matrix != nil && vd.position != nil {
			off := targetVertexID*stride + vd.position.Offset
			for i := 0; i < count; i++ {
				x, y := matrix.TransformXY(target.buf.Float32At(off), target.buf.Float32At(off+4))
				target.buf.SetFloat32At(off, x)
				target.buf.SetFloat32At(off+4, y)
				off += stride
			}
		}
		return nil
	}

	// Grow through the regular path so vertices not covered by the
	// attribute copies keep their white color defaults.
	if target.num < targetVertexID+count {
		target.setNumVertices(targetVertexID + count)
	}

	for i := range vd.format.attributes {
		src := &vd.format.attributes[i]
		dst := target.format.attr(src.Name)
		if dst == nil {
			continue
		}
		var m *geom.Matrix
		if src.Name == PositionAttribute {
			m = matrix
		}
		if err := vd.copyAttribute(target, targetVertexID, m, src, dst, start, count); err != nil {
			return err
		}
		if src.IsColor {
			target.tinted = target.tinted || vd.tinted
		}
	}
	return nil
}

// CopyAttributeTo copies a single attribute into target, matched by
// name on both sides. A matrix transforms float2 payloads on the way
// over.
func (vd *VertexData) CopyAttributeTo(target *VertexData, targetVertexID int, attrName string,
	matrix *geom.Matrix, vertexID, numVertices int) error {

	if err := vd.checkLive(); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("%w: nil copy target", ErrInvalidArgument)
	}
	if err := target.checkLive(); err != nil {
		return err
	}
	if targetVertexID < 0 {
		return fmt.Errorf("%w: target vertex %d", ErrIndexOutOfRange, targetVertexID)
	}

	src, err := vd.attrOf(attrName)
	if err != nil {
		return err
	}
	dst := target.format.attr(attrName)
	if dst == nil {
		return fmt.Errorf("%w: %q in target format %q", ErrAttributeNotFound, attrName, target.format)
	}

	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return err
	}

	if src.IsColor {
		target.tinted = target.tinted || vd.tinted
	}
	return vd.copyAttribute(target, targetVertexID, matrix, src, dst, start, count)
}

func (vd *VertexData) copyAttribute(target *VertexData, targetVertexID int, matrix *geom.Matrix,
	src, dst *Attribute, vertexID, numVertices int) error {

	if src.Format != dst.Format {
		return fmt.Errorf("%w: attribute %q is %s here, %s in the target",
			ErrFormatMismatch, src.Name, src.Format, dst.Format)
	}

	if target.num < targetVertexID+numVertices {
		target.setNumVertices(targetVertexID + numVertices)
	}

	srcOff := vertexID*vd.format.stride + src.Offset
	dstOff := targetVertexID*target.format.stride + dst.Offset

	if matrix != nil {
		for i := 0; i < numVertices; i++ {
			x, y := matrix.TransformXY(vd.buf.Float32At(srcOff), vd.buf.Float32At(srcOff+4))
			target.buf.SetFloat32At(dstOff, x)
			target.buf.SetFloat32At(dstOff+4, y)
			srcOff += vd.format.stride
			dstOff += target.format.stride
		}
		return nil
	}

	words := src.Size() / 4
	for i := 0; i < numVertices; i++ {
		for j := 0; j < words; j++ {
			target.buf.SetUint32At(dstOff+j*4, vd.buf.Uint32At(srcOff+j*4))
		}
		srcOff += vd.format.stride
		dstOff += target.format.stride
	}
	return nil
}

// GetBounds returns the axis-aligned bounds of a float2 attribute over
// a vertex range, transforming each point first when a matrix is given.
// An empty range yields a zero-size rectangle at the (transformed)
// origin rather than an error.
func (vd *VertexData) GetBounds(attrName string, matrix *geom.Matrix, vertexID, numVertices int) (geom.Rectangle, error) {
	if err := vd.checkLive(); err != nil {
		return geom.Rectangle{}, err
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return geom.Rectangle{}, err
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return geom.Rectangle{}, err
	}

	if count == 0 {
		if matrix == nil {
			return geom.Rectangle{}, nil
		}
		x, y := matrix.TransformXY(0, 0)
		return geom.Rectangle{X: x, Y: y}, nil
	}

	minX := float32(math32.MaxFloat32)
	minY := float32(math32.MaxFloat32)
	maxX := float32(-math32.MaxFloat32)
	maxY := float32(-math32.MaxFloat32)

	off := vd.offsetOf(start, attr)
	for i := 0; i < count; i++ {
		x := vd.buf.Float32At(off)
		y := vd.buf.Float32At(off + 4)
		if matrix != nil {
			x, y = matrix.TransformXY(x, y)
		}
		minX = math32.Min(minX, x)
		minY = math32.Min(minY, y)
		maxX = math32.Max(maxX, x)
		maxY = math32.Max(maxY, y)
		off += vd.format.stride
	}
	return geom.FromExtents(minX, minY, maxX, maxY), nil
}

// GetBoundsProjected computes bounds after placing each point in 3D
// (optionally transformed by matrix) and projecting it onto the z=0
// plane along its line of sight to camPos. A nil camPos fails with
// ErrInvalidArgument.
func (vd *VertexData) GetBoundsProjected(attrName string, matrix *mgl32.Mat4, camPos *mgl32.Vec3,
	vertexID, numVertices int) (geom.Rectangle, error) {

	if err := vd.checkLive(); err != nil {
		return geom.Rectangle{}, err
	}
	if camPos == nil {
		return geom.Rectangle{}, fmt.Errorf("%w: camera position required", ErrInvalidArgument)
	}
	attr, err := vd.attrOf(attrName)
	if err != nil {
		return geom.Rectangle{}, err
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return geom.Rectangle{}, err
	}

	if count == 0 {
		var p mgl32.Vec3
		if matrix != nil {
			p = geom.TransformCoords3D(*matrix, 0, 0, 0)
		}
		pt := geom.IntersectLineWithXYPlane(*camPos, p)
		return geom.Rectangle{X: pt.X(), Y: pt.Y()}, nil
	}

	minX := float32(math32.MaxFloat32)
	minY := float32(math32.MaxFloat32)
	maxX := float32(-math32.MaxFloat32)
	maxY := float32(-math32.MaxFloat32)

	off := vd.offsetOf(start, attr)
	for i := 0; i < count; i++ {
		x := vd.buf.Float32At(off)
		y := vd.buf.Float32At(off + 4)
		p := mgl32.Vec3{x, y, 0}
		if matrix != nil {
			p = geom.TransformCoords3D(*matrix, x, y, 0)
		}
		pt := geom.IntersectLineWithXYPlane(*camPos, p)
		minX = math32.Min(minX, pt.X())
		minY = math32.Min(minY, pt.Y())
		maxX = math32.Max(maxX, pt.X())
		maxY = math32.Max(maxY, pt.Y())
		off += vd.format.stride
	}
	return geom.FromExtents(minX, minY, maxX, maxY), nil
}

// PremultipliedAlpha reports how color bytes are being interpreted.
func (vd *VertexData) PremultipliedAlpha() bool {
	return vd.pma
}

// SetPremultipliedAlpha switches the color interpretation. By default
// only the flag changes and the bytes keep their old meaning; with
// updateData set, every stored color is converted so that what it
// denotes is preserved.
func (vd *VertexData) SetPremultipliedAlpha(enabled, updateData bool) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	if updateData && enabled != vd.pma {
		for i := range vd.format.attributes {
			attr := &vd.format.attributes[i]
			if !attr.IsColor {
				continue
			}
			off := attr.Offset
			for v := 0; v < vd.num; v++ {
				rgba := switchEndian(vd.buf.Uint32At(off))
				if enabled {
					rgba = premultiplyAlpha(rgba)
				} else {
					rgba = unmultiplyAlpha(rgba)
				}
				vd.buf.SetUint32At(off, switchEndian(rgba))
				off += vd.format.stride
			}
		}
	}
	vd.pma = enabled
	return nil
}

// Format returns the store's layout.
func (vd *VertexData) Format() *VertexFormat {
	return vd.format
}

// SetFormat converts the store to a new layout in place. Attributes are
// matched by name: shared ones keep their bytes, new color attributes
// start white-opaque, other new attributes start zeroed, and attributes
// missing from the new layout are dropped. Same-named attributes with
// different types fail with ErrFormatMismatch before anything changes.
// The converted buffer carries no capacity slack. Assigning the format
// instance already in use is a no-op.
func (vd *VertexData) SetFormat(format *VertexFormat) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	if format == nil {
		return fmt.Errorf("%w: nil format", ErrInvalidArgument)
	}
	if format == vd.format {
		return nil
	}

	for i := range format.attributes {
		dst := &format.attributes[i]
		if src := vd.format.attr(dst.Name); src != nil && src.Format != dst.Format {
			return fmt.Errorf("%w: attribute %q is %s here, %s in the new format",
				ErrFormatMismatch, dst.Name, src.Format, dst.Format)
		}
	}

	converted := membuf.NewByteBuffer(vd.num * format.stride)
	converted.SetLen(vd.num * format.stride)

	for i := range format.attributes {
		dst := &format.attributes[i]
		src := vd.format.attr(dst.Name)
		switch {
		case src != nil:
			srcOff := src.Offset
			dstOff := dst.Offset
			for v := 0; v < vd.num; v++ {
				converted.CopyFrom(vd.buf, dstOff, srcOff, src.Size())
				srcOff += vd.format.stride
				dstOff += format.stride
			}
		case dst.IsColor:
			off := dst.Offset
			for v := 0; v < vd.num; v++ {
				converted.SetUint32At(off, whiteOpaque)
				off += format.stride
			}
		}
	}

	vd.buf = converted
	vd.format = format
	vd.position = format.attr(PositionAttribute)
	return nil
}

// Clone returns an independent deep copy sharing only the (immutable)
// format instance, so copies between original and clone take the fast
// path.
func (vd *VertexData) Clone() (*VertexData, error) {
	if err := vd.checkLive(); err != nil {
		return nil, err
	}
	return &VertexData{
		buf:      vd.buf.Clone(),
		format:   vd.format,
		num:      vd.num,
		pma:      vd.pma,
		tinted:   vd.tinted,
		position: vd.position,
	}, nil
}

// Trim drops the buffer's over-allocation slack, shrinking it to
// exactly NumVertices*Stride bytes.
func (vd *VertexData) Trim() error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	vd.buf.Trim()
	return nil
}

// Clear forgets all vertices but keeps the allocation for reuse.
func (vd *VertexData) Clear() error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	vd.buf.Reset()
	vd.num = 0
	vd.tinted = false
	return nil
}

// Dispose releases the underlying buffer. Every later call on the store
// fails with ErrDisposed; disposing twice is harmless.
func (vd *VertexData) Dispose() {
	vd.buf = nil
	vd.disposed = true
}

// Bytes exposes the raw vertex block, NumVertices*Stride bytes long.
// The slice aliases live storage and goes stale on the next growth. A
// disposed store returns nil.
func (vd *VertexData) Bytes() []byte {
	if vd.disposed {
		return nil
	}
	return vd.buf.Bytes()
}

// UploadTo pushes a vertex range into a GPU-facing sink. A nil sink
// fails with ErrNoContext; an empty range uploads nothing and reports
// no error.
func (vd *VertexData) UploadTo(sink BufferSink, vertexID, numVertices int) error {
	if err := vd.checkLive(); err != nil {
		return err
	}
	if sink == nil {
		return fmt.Errorf("%w: nil buffer sink", ErrNoContext)
	}
	start, count, err := vd.clampRange(vertexID, numVertices)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return sink.Upload(vd.buf.Bytes(), vd.num, vd.format.StrideIn32Bits(), start, count)
}
