package render

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/flare2d/flare/geom"
)

func TestNewStoreStartsEmpty(t *testing.T) {
	vd := NewVertexData(nil, 0)
	assert.Equal(t, 0, vd.NumVertices())
	assert.Same(t, DefaultFormat, vd.Format())
	assert.True(t, vd.PremultipliedAlpha())
	assert.False(t, vd.Tinted())
	assert.Empty(t, vd.Bytes())
}

func TestGrowthZeroFillsAndWhitensColors(t *testing.T) {
	f := MustFormat("position:float2, color:bytes4, offset:float1, tintColor:bytes4")
	vd := NewVertexData(f, 0)
	require.NoError(t, vd.SetNumVertices(3))
	require.Len(t, vd.Bytes(), 3*f.Stride())

	for v := 0; v < 3; v++ {
		p, err := vd.GetPoint(v, "position")
		require.NoError(t, err)
		assert.Equal(t, mgl32.Vec2{}, p, "vertex %d position", v)

		off, err := vd.GetFloat(v, "offset")
		require.NoError(t, err)
		assert.Zero(t, off, "vertex %d offset", v)

		for _, attr := range []string{"color", "tintColor"} {
			rgb, err := vd.GetColor(v, attr)
			require.NoError(t, err)
			assert.Equal(t, uint32(0xFFFFFF), rgb, "vertex %d %s", v, attr)

			alpha, err := vd.GetAlpha(v, attr)
			require.NoError(t, err)
			assert.Equal(t, float32(1), alpha, "vertex %d %s alpha", v, attr)
		}
	}

	// The white default is literally four 0xFF bytes in storage.
	colorOff, err := f.OffsetOf("color")
	require.NoError(t, err)
	raw := vd.Bytes()
	for _, b := range raw[colorOff : colorOff+4] {
		assert.EqualValues(t, 0xFF, b)
	}
	assert.False(t, vd.Tinted())
}

func TestSettersAutoGrowGettersBoundCheck(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)

	require.NoError(t, vd.SetPoint(2, "position", 5, 6))
	assert.Equal(t, 3, vd.NumVertices())

	rgb, err := vd.GetColor(1, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), rgb, "intermediate vertex should be white")

	_, err = vd.GetPoint(3, "position")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = vd.GetFloat(-1, "position")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	err = vd.SetPoint(-1, "position", 0, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 3, vd.NumVertices())
}

func TestUnknownAttributeDoesNotGrow(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2"), 0)
	err := vd.SetFloat(7, "bogus", 1)
	assert.ErrorIs(t, err, ErrAttributeNotFound)
	assert.Equal(t, 0, vd.NumVertices(), "failed setter must not grow the store")
}

func TestColorBytesLandInRGBAOrder(t *testing.T) {
	f := MustFormat("position:float2, color:bytes4")
	vd := NewVertexData(f, 0)
	require.NoError(t, vd.SetColor(0, "color", 0x123456))

	colorOff, err := f.OffsetOf("color")
	require.NoError(t, err)
	raw := vd.Bytes()[colorOff : colorOff+4]
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0xFF}, raw)
}

func TestStoreAndReadBackScenario(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetNumVertices(2))
	require.NoError(t, vd.SetPoint(0, "position", 10, 20))
	require.NoError(t, vd.SetColor(0, "color", 0xFF0000))
	require.NoError(t, vd.SetAlpha(0, "color", 0.5))

	alpha, err := vd.GetAlpha(0, "color")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, alpha, 1.0/255)

	rgb, err := vd.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFF0000), rgb)

	bounds, err := vd.GetBounds("position", nil, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, geom.Rectangle{X: 0, Y: 0, Width: 10, Height: 20}, bounds)
}

func TestScaleAlphasTwiceQuartersAlpha(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetNumVertices(1))

	require.NoError(t, vd.ScaleAlphas("color", 0.5, 0, 1))
	assert.True(t, vd.Tinted(), "scaling alphas must mark the store tinted")
	require.NoError(t, vd.ScaleAlphas("color", 0.5, 0, 1))

	alpha, err := vd.GetAlpha(0, "color")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, alpha, 1.0/255)

	// The unmultiply/premultiply pass keeps white white instead of
	// compounding truncation error.
	rgb, err := vd.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), rgb)
}

func TestScaleAlphasStraightStorageTouchesOnlyAlpha(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetPremultipliedAlpha(false, false))
	require.NoError(t, vd.SetNumVertices(1))
	require.NoError(t, vd.SetColor(0, "color", PackColor(colornames.Crimson)))

	require.NoError(t, vd.ScaleAlphas("color", 0.5, 0, -1))

	rgb, err := vd.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDC143C), rgb)

	alpha, err := vd.GetAlpha(0, "color")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, alpha, 1.0/255)

	// Factor 1 is a no-op and leaves the tint flag alone.
	fresh := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, fresh.SetNumVertices(1))
	require.NoError(t, fresh.ScaleAlphas("color", 1, 0, -1))
	assert.False(t, fresh.Tinted())
}

func TestColorizeTintedSemantics(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetNumVertices(4))

	require.NoError(t, vd.Colorize("color", 0xFF00FF, 1, 0, -1))
	assert.True(t, vd.Tinted())

	require.NoError(t, vd.Colorize("color", 0xFFFFFF, 1, 0, -1))
	assert.False(t, vd.Tinted(), "white-opaque over the full range untints")

	require.NoError(t, vd.Colorize("color", 0x00FF00, 1, 1, 2))
	assert.True(t, vd.Tinted(), "non-white over a sub-range tints")

	// White over a sub-range cannot prove the rest is white, so the
	// conservative flag stays set.
	require.NoError(t, vd.Colorize("color", 0xFFFFFF, 1, 1, 2))
	assert.True(t, vd.Tinted())

	require.NoError(t, vd.Colorize("color", 0xFFFFFF, 0.5, 0, -1))
	assert.True(t, vd.Tinted(), "partial alpha tints even at white RGB")
}

func TestSetColorPreservesAlphaAndViceVersa(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetPremultipliedAlpha(false, false))

	require.NoError(t, vd.SetAlpha(0, "color", 0.25))
	alphaBefore, err := vd.GetAlpha(0, "color")
	require.NoError(t, err)

	require.NoError(t, vd.SetColor(0, "color", 0x336699))
	alphaAfter, err := vd.GetAlpha(0, "color")
	require.NoError(t, err)
	assert.Equal(t, alphaBefore, alphaAfter)

	require.NoError(t, vd.SetAlpha(0, "color", 0.75))
	rgb, err := vd.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x336699), rgb)
}

func TestCopyToFastPathIsBitExact(t *testing.T) {
	f := MustFormat("position:float2, color:bytes4")
	src := NewVertexData(f, 0)
	require.NoError(t, src.SetPoint(0, "position", 1, 2))
	require.NoError(t, src.SetPoint(1, "position", 3, 4))
	require.NoError(t, src.SetColor(1, "color", PackColor(colornames.Crimson)))

	dst := NewVertexData(f, 0)
	require.NoError(t, src.CopyTo(dst, 0, nil, 0, -1))

	assert.Equal(t, 2, dst.NumVertices())
	assert.Equal(t, src.Bytes(), dst.Bytes())
	assert.True(t, dst.Tinted(), "tint flag carries over")
}

func TestCopyToFastPathTransformsOnlyPositions(t *testing.T) {
	f := MustFormat("position:float2, color:bytes4")
	src := NewVertexData(f, 0)
	require.NoError(t, src.SetPoint(0, "position", 1, 2))
	require.NoError(t, src.SetPoint(1, "position", 3, 4))

	dst := NewVertexData(f, 0)
	m := geom.NewTranslation(10, 20)
	require.NoError(t, src.CopyTo(dst, 0, &m, 0, -1))

	p0, err := dst.GetPoint(0, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{11, 22}, p0)

	p1, err := dst.GetPoint(1, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{13, 24}, p1)

	rgb, err := dst.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), rgb)
}

func TestCopyToFastPathGapKeepsDefaults(t *testing.T) {
	f := MustFormat("position:float2, color:bytes4")
	src := NewVertexData(f, 0)
	require.NoError(t, src.SetNumVertices(1))

	dst := NewVertexData(f, 0)
	require.NoError(t, src.CopyTo(dst, 2, nil, 0, -1))
	assert.Equal(t, 3, dst.NumVertices())

	// The block copy covers only the copied range; the gap in front of
	// it grows like any other new vertex, white color included.
	p, err := dst.GetPoint(0, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{}, p)

	rgb, err := dst.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), rgb)

	alpha, err := dst.GetAlpha(0, "color")
	require.NoError(t, err)
	assert.Equal(t, float32(1), alpha)
}

func TestCopyToSlowPathMatchesByName(t *testing.T) {
	src := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, src.SetPoint(0, "position", 1, 2))
	require.NoError(t, src.SetPoint(1, "position", 3, 4))
	require.NoError(t, src.SetColor(0, "color", PackColor(colornames.Crimson)))

	// Same attributes, different order, so offsets differ and the
	// format instances differ.
	dst := NewVertexData(MustFormat("color:bytes4, position:float2, texCoords:float2"), 0)
	m := geom.NewTranslation(1, 1)
	require.NoError(t, src.CopyTo(dst, 0, &m, 0, -1))

	assert.Equal(t, 2, dst.NumVertices())

	p0, err := dst.GetPoint(0, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{2, 3}, p0)

	rgb, err := dst.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDC143C), rgb)

	tex, err := dst.GetPoint(0, "texCoords")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{}, tex, "attributes missing from the source stay at defaults")

	assert.True(t, dst.Tinted())
}

func TestCopyToMismatchedTypesFail(t *testing.T) {
	src := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, src.SetNumVertices(1))

	dst := NewVertexData(MustFormat("position:float3, color:bytes4"), 0)
	err := src.CopyTo(dst, 0, nil, 0, -1)
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestCopyAttributeTo(t *testing.T) {
	f := MustFormat("position:float2, color:bytes4")
	src := NewVertexData(f, 0)
	require.NoError(t, src.SetPoint(0, "position", 5, 6))
	require.NoError(t, src.SetColor(0, "color", 0x112233))

	dst := NewVertexData(f, 0)
	require.NoError(t, src.CopyAttributeTo(dst, 1, "color", nil, 0, -1))

	assert.Equal(t, 2, dst.NumVertices())

	rgb, err := dst.GetColor(1, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x112233), rgb)

	// The vertex in front of the copied range grew through the regular
	// path and keeps its white default; positions were not copied.
	rgb, err = dst.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), rgb)

	p, err := dst.GetPoint(1, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{}, p)

	assert.True(t, dst.Tinted())

	err = src.CopyAttributeTo(dst, 0, "normal", nil, 0, -1)
	assert.ErrorIs(t, err, ErrAttributeNotFound)

	other := NewVertexData(MustFormat("color:float4"), 0)
	err = src.CopyAttributeTo(other, 0, "color", nil, 0, -1)
	assert.ErrorIs(t, err, ErrFormatMismatch)
}

func TestTransformAndTranslatePoints(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetPoint(0, "position", 1, 0))
	require.NoError(t, vd.SetPoint(1, "position", 0, 1))

	require.NoError(t, vd.TransformPoints("position", geom.NewScaling(2, 3), 0, -1))

	p0, err := vd.GetPoint(0, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{2, 0}, p0)

	p1, err := vd.GetPoint(1, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{0, 3}, p1)

	require.NoError(t, vd.TranslatePoints("position", 10, 10, 1, 1))

	p0, err = vd.GetPoint(0, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{2, 0}, p0, "outside the range, untouched")

	p1, err = vd.GetPoint(1, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{10, 13}, p1)
}

func TestGetBounds(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)

	bounds, err := vd.GetBounds("position", nil, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, geom.Rectangle{}, bounds, "empty store bounds sit at the origin")

	m := geom.NewTranslation(7, 9)
	bounds, err = vd.GetBounds("position", &m, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, geom.Rectangle{X: 7, Y: 9}, bounds, "empty bounds follow the transform")

	require.NoError(t, vd.SetPoint(0, "position", 0, 0))
	require.NoError(t, vd.SetPoint(1, "position", 10, 20))
	require.NoError(t, vd.SetPoint(2, "position", -5, 3))

	bounds, err = vd.GetBounds("position", nil, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, geom.FromExtents(-5, 0, 10, 20), bounds)

	bounds, err = vd.GetBounds("position", nil, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, geom.FromExtents(-5, 3, 10, 20), bounds)

	scale := geom.NewScaling(2, 1)
	bounds, err = vd.GetBounds("position", &scale, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, geom.FromExtents(0, 0, 20, 20), bounds)

	_, err = vd.GetBounds("velocity", nil, 0, -1)
	assert.ErrorIs(t, err, ErrAttributeNotFound)
}

func TestGetBoundsProjected(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	camera := mgl32.Vec3{0, 0, -600}

	_, err := vd.GetBoundsProjected("position", nil, nil, 0, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, vd.SetPoint(0, "position", 10, 20))
	require.NoError(t, vd.SetPoint(1, "position", 30, 40))

	// Points already on the view plane project onto themselves.
	bounds, err := vd.GetBoundsProjected("position", nil, &camera, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, geom.FromExtents(10, 20, 30, 40), bounds)

	// Halfway towards the camera everything doubles.
	m := mgl32.Translate3D(5, 6, -300)
	bounds, err = vd.GetBoundsProjected("position", &m, &camera, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, geom.FromExtents(30, 52, 70, 92), bounds)

	empty := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	bounds, err = empty.GetBoundsProjected("position", &m, &camera, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, geom.Rectangle{X: 10, Y: 12}, bounds)
}

func TestSetPremultipliedAlpha(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetNumVertices(1))
	require.NoError(t, vd.SetColor(0, "color", PackColor(colornames.Crimson)))
	require.NoError(t, vd.SetAlpha(0, "color", 0.5))

	require.NoError(t, vd.SetPremultipliedAlpha(false, true))
	assert.False(t, vd.PremultipliedAlpha())

	rgb, err := vd.GetColor(0, "color")
	require.NoError(t, err)
	assert.InDelta(t, 0xDC, rgb>>16&0xFF, 2)
	assert.InDelta(t, 0x14, rgb>>8&0xFF, 2)
	assert.InDelta(t, 0x3C, rgb&0xFF, 2)

	alpha, err := vd.GetAlpha(0, "color")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, alpha, 1.0/255)

	// Metadata-only switch reinterprets the existing bytes.
	snapshot := append([]byte(nil), vd.Bytes()...)
	require.NoError(t, vd.SetPremultipliedAlpha(true, false))
	assert.True(t, vd.PremultipliedAlpha())
	assert.Equal(t, snapshot, vd.Bytes())
}

func TestSetFormatConvertsInPlace(t *testing.T) {
	src := MustFormat("position:float2, extra:float1, color:bytes4")
	vd := NewVertexData(src, 0)
	require.NoError(t, vd.SetPoint(0, "position", 1, 2))
	require.NoError(t, vd.SetPoint(1, "position", 3, 4))
	require.NoError(t, vd.SetFloat(0, "extra", 42))
	require.NoError(t, vd.SetColor(0, "color", 0x112233))

	next := MustFormat("texCoords:float2, position:float2, color:bytes4, glowColor:bytes4")
	require.NoError(t, vd.SetFormat(next))
	assert.Same(t, next, vd.Format())
	assert.Equal(t, 2, vd.NumVertices())

	p, err := vd.GetPoint(0, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{1, 2}, p)

	rgb, err := vd.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x112233), rgb)

	tex, err := vd.GetPoint(1, "texCoords")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{}, tex, "new plain attributes start zeroed")

	glow, err := vd.GetColor(1, "glowColor")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), glow, "new color attributes start white")

	assert.False(t, vd.Format().HasAttribute("extra"), "attributes absent from the new layout are dropped")

	// Same instance: nothing to do.
	require.NoError(t, vd.SetFormat(next))

	// Type clash fails before mutating anything.
	err = vd.SetFormat(MustFormat("position:float3"))
	assert.ErrorIs(t, err, ErrFormatMismatch)
	assert.Same(t, next, vd.Format())
}

func TestCloneIsIndependentAndSharesFormat(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetPoint(0, "position", 1, 2))
	require.NoError(t, vd.SetColor(0, "color", 0xABCDEF))

	clone, err := vd.Clone()
	require.NoError(t, err)
	assert.Same(t, vd.Format(), clone.Format())
	assert.Equal(t, vd.Bytes(), clone.Bytes())
	assert.Equal(t, vd.Tinted(), clone.Tinted())

	require.NoError(t, vd.SetColor(0, "color", 0x000000))
	rgb, err := clone.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCDEF), rgb)
}

func TestShrinkResetsTintAndKeepsZeroedReuse(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetNumVertices(3))
	require.NoError(t, vd.Colorize("color", 0x102030, 1, 0, -1))
	require.True(t, vd.Tinted())

	require.NoError(t, vd.SetNumVertices(0))
	assert.False(t, vd.Tinted())
	assert.Equal(t, 0, vd.NumVertices())

	// Regrowing over the same allocation must not resurrect old bytes.
	require.NoError(t, vd.SetNumVertices(2))
	rgb, err := vd.GetColor(1, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), rgb)

	p, err := vd.GetPoint(1, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{}, p)

	assert.ErrorIs(t, vd.SetNumVertices(-1), ErrInvalidArgument)
}

func TestPoint3DAnd4DAccessors(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, normal:float3, weights:float4"), 0)

	require.NoError(t, vd.SetPoint3D(0, "normal", 1, 2, 3))
	n, err := vd.GetPoint3D(0, "normal")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, n)

	require.NoError(t, vd.SetPoint4D(0, "weights", 4, 5, 6, 7))
	w, err := vd.GetPoint4D(0, "weights")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec4{4, 5, 6, 7}, w)
}

func TestUpdateTintedRecomputesExactly(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetNumVertices(2))

	tinted, err := vd.UpdateTinted("color")
	require.NoError(t, err)
	assert.False(t, tinted)

	require.NoError(t, vd.SetAlpha(1, "color", 0.5))
	tinted, err = vd.UpdateTinted("color")
	require.NoError(t, err)
	assert.True(t, tinted)

	require.NoError(t, vd.SetAlpha(1, "color", 1))
	vd.SetTinted(true)
	tinted, err = vd.UpdateTinted("color")
	require.NoError(t, err)
	assert.False(t, tinted, "rescan overrides a stale conservative flag")
}

type recordingSink struct {
	data                       []byte
	total, words, start, count int
	calls                      int
	err                        error
}

func (s *recordingSink) Upload(data []byte, totalVertices, data32PerVertex, startVertex, numVertices int) error {
	s.calls++
	s.data = data
	s.total = totalVertices
	s.words = data32PerVertex
	s.start = startVertex
	s.count = numVertices
	return s.err
}

func TestUploadTo(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)

	err := vd.UploadTo(nil, 0, -1)
	assert.ErrorIs(t, err, ErrNoContext)

	sink := &recordingSink{}
	require.NoError(t, vd.UploadTo(sink, 0, -1))
	assert.Zero(t, sink.calls, "empty store uploads nothing")

	require.NoError(t, vd.SetNumVertices(3))
	require.NoError(t, vd.UploadTo(sink, 0, -1))
	assert.Equal(t, 1, sink.calls)
	assert.Len(t, sink.data, 3*12)
	assert.Equal(t, 3, sink.total)
	assert.Equal(t, 3, sink.words)
	assert.Equal(t, 0, sink.start)
	assert.Equal(t, 3, sink.count)

	require.NoError(t, vd.UploadTo(sink, 1, 99))
	assert.Equal(t, 1, sink.start)
	assert.Equal(t, 2, sink.count, "oversized ranges clamp to the end")

	sink.err = errors.New("device lost")
	err = vd.UploadTo(sink, 0, -1)
	assert.ErrorIs(t, err, sink.err)
}

func TestDisposedStoreRejectsEverything(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetNumVertices(1))
	vd.Dispose()
	vd.Dispose() // and again, harmlessly

	assert.Nil(t, vd.Bytes())

	_, err := vd.GetPoint(0, "position")
	assert.ErrorIs(t, err, ErrDisposed)
	assert.ErrorIs(t, vd.SetPoint(0, "position", 1, 2), ErrDisposed)
	assert.ErrorIs(t, vd.SetNumVertices(2), ErrDisposed)
	assert.ErrorIs(t, vd.Colorize("color", 0, 1, 0, -1), ErrDisposed)
	assert.ErrorIs(t, vd.ScaleAlphas("color", 0.5, 0, -1), ErrDisposed)
	_, err = vd.UpdateTinted("color")
	assert.ErrorIs(t, err, ErrDisposed)
	_, err = vd.GetBounds("position", nil, 0, -1)
	assert.ErrorIs(t, err, ErrDisposed)
	_, err = vd.Clone()
	assert.ErrorIs(t, err, ErrDisposed)
	assert.ErrorIs(t, vd.Trim(), ErrDisposed)
	assert.ErrorIs(t, vd.Clear(), ErrDisposed)
	assert.ErrorIs(t, vd.SetFormat(DefaultFormat), ErrDisposed)
	assert.ErrorIs(t, vd.SetPremultipliedAlpha(false, true), ErrDisposed)
	assert.ErrorIs(t, vd.UploadTo(&recordingSink{}, 0, -1), ErrDisposed)

	live := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, live.SetNumVertices(1))
	assert.ErrorIs(t, live.CopyTo(vd, 0, nil, 0, -1), ErrDisposed)
	assert.ErrorIs(t, vd.CopyTo(live, 0, nil, 0, -1), ErrDisposed)
}

func TestClearKeepsAllocationForReuse(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetPoint(9, "position", 1, 1))
	require.NoError(t, vd.Colorize("color", 0x123456, 1, 0, -1))

	require.NoError(t, vd.Clear())
	assert.Equal(t, 0, vd.NumVertices())
	assert.False(t, vd.Tinted())
	assert.Empty(t, vd.Bytes())

	require.NoError(t, vd.SetNumVertices(1))
	rgb, err := vd.GetColor(0, "color")
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFF), rgb)
}

func TestTrimKeepsLiveData(t *testing.T) {
	vd := NewVertexData(MustFormat("position:float2, color:bytes4"), 0)
	require.NoError(t, vd.SetPoint(7, "position", 1, 2))
	require.NoError(t, vd.SetNumVertices(2))
	require.NoError(t, vd.SetPoint(1, "position", 5, 6))

	require.NoError(t, vd.Trim())
	assert.Equal(t, 2, vd.NumVertices())
	assert.Len(t, vd.Bytes(), 2*12)

	p, err := vd.GetPoint(1, "position")
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec2{5, 6}, p)
}
