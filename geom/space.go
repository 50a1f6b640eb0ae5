package geom

import "github.com/go-gl/mathgl/mgl32"

// TransformCoords3D applies a 4x4 matrix to the point (x, y, z, 1)
// without performing the perspective divide. The w component is
// dropped; projection onto a plane happens separately, see
// IntersectLineWithXYPlane.
func TransformCoords3D(m mgl32.Mat4, x, y, z float32) mgl32.Vec3 {
	v := m.Mul4x1(mgl32.Vec4{x, y, z, 1})
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// IntersectLineWithXYPlane returns the point where the line through a
// and b crosses the z=0 plane. A line parallel to the plane yields
// non-finite results, mirroring the underlying division.
func IntersectLineWithXYPlane(a, b mgl32.Vec3) mgl32.Vec2 {
	vx := b.X() - a.X()
	vy := b.Y() - a.Y()
	vz := b.Z() - a.Z()
	lambda := -a.Z() / vz
	return mgl32.Vec2{a.X() + lambda*vx, a.Y() + lambda*vy}
}
