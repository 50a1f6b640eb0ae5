package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Matrix is a 2D affine transform laid out as
//
//	| A  C  Tx |
//	| B  D  Ty |
//
// so a point maps to (A*x + C*y + Tx, B*x + D*y + Ty).
type Matrix struct {
	A, B, C, D float32
	Tx, Ty     float32
}

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewTranslation returns a pure translation.
func NewTranslation(tx, ty float32) Matrix {
	return Matrix{A: 1, D: 1, Tx: tx, Ty: ty}
}

// NewScaling returns a pure scale about the origin.
func NewScaling(sx, sy float32) Matrix {
	return Matrix{A: sx, D: sy}
}

// NewRotation returns a rotation by angle radians about the origin.
func NewRotation(angle float32) Matrix {
	sin, cos := math32.Sincos(angle)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// TransformXY applies the matrix to a point.
func (m Matrix) TransformXY(x, y float32) (float32, float32) {
	return m.A*x + m.C*y + m.Tx, m.B*x + m.D*y + m.Ty
}

// TransformVec2 applies the matrix to a vector-valued point.
func (m Matrix) TransformVec2(v mgl32.Vec2) mgl32.Vec2 {
	x, y := m.TransformXY(v.X(), v.Y())
	return mgl32.Vec2{x, y}
}

// Concat returns the transform that applies m first, then n.
func (m Matrix) Concat(n Matrix) Matrix {
	return Matrix{
		A:  n.A*m.A + n.C*m.B,
		B:  n.B*m.A + n.D*m.B,
		C:  n.A*m.C + n.C*m.D,
		D:  n.B*m.C + n.D*m.D,
		Tx: n.A*m.Tx + n.C*m.Ty + n.Tx,
		Ty: n.B*m.Tx + n.D*m.Ty + n.Ty,
	}
}

// Translate returns the matrix with a translation applied afterwards.
func (m Matrix) Translate(tx, ty float32) Matrix {
	m.Tx += tx
	m.Ty += ty
	return m
}

// Scale returns the matrix with a scale applied afterwards.
func (m Matrix) Scale(sx, sy float32) Matrix {
	return m.Concat(NewScaling(sx, sy))
}

// Rotate returns the matrix with a rotation applied afterwards.
func (m Matrix) Rotate(angle float32) Matrix {
	return m.Concat(NewRotation(angle))
}

// Invert returns the inverse transform. The second result is false for
// a singular matrix, in which case the identity is returned.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return IdentityMatrix(), false
	}
	inv := 1 / det
	return Matrix{
		A:  m.D * inv,
		B:  -m.B * inv,
		C:  -m.C * inv,
		D:  m.A * inv,
		Tx: (m.C*m.Ty - m.D*m.Tx) * inv,
		Ty: (m.B*m.Tx - m.A*m.Ty) * inv,
	}, true
}

// IsIdentity reports whether the matrix leaves every point unchanged.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 0 && m.Tx == 0 && m.Ty == 0
}

// Mat4 lifts the 2D transform into a 4x4 matrix acting on the XY plane,
// for feeding into 3D projection paths.
func (m Matrix) Mat4() mgl32.Mat4 {
	return mgl32.Mat4{
		m.A, m.B, 0, 0,
		m.C, m.D, 0, 0,
		0, 0, 1, 0,
		m.Tx, m.Ty, 0, 1,
	}
}
