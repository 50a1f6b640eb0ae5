package geom

// Rectangle is an axis-aligned box with float32 coordinates, matching
// the precision of vertex attribute storage.
type Rectangle struct {
	X, Y          float32
	Width, Height float32
}

// NewRectangle is a convenience constructor.
func NewRectangle(x, y, width, height float32) Rectangle {
	return Rectangle{X: x, Y: y, Width: width, Height: height}
}

// FromExtents builds a rectangle from min/max corner coordinates.
func FromExtents(minX, minY, maxX, maxY float32) Rectangle {
	return Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r Rectangle) Right() float32 {
	return r.X + r.Width
}

func (r Rectangle) Bottom() float32 {
	return r.Y + r.Height
}

// IsEmpty reports whether the rectangle encloses no area.
func (r Rectangle) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point lies inside or on the edge.
func (r Rectangle) Contains(x, y float32) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Union returns the smallest rectangle covering both r and other.
func (r Rectangle) Union(other Rectangle) Rectangle {
	minX := minf(r.X, other.X)
	minY := minf(r.Y, other.Y)
	maxX := maxf(r.Right(), other.Right())
	maxY := maxf(r.Bottom(), other.Bottom())
	return FromExtents(minX, minY, maxX, maxY)
}

// UnionPoint returns the rectangle grown to include the point.
func (r Rectangle) UnionPoint(x, y float32) Rectangle {
	minX := minf(r.X, x)
	minY := minf(r.Y, y)
	maxX := maxf(r.Right(), x)
	maxY := maxf(r.Bottom(), y)
	return FromExtents(minX, minY, maxX, maxY)
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
