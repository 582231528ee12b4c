package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is a closed polygon defined by its vertices in order.
type Polygon struct {
	Vertices []mgl64.Vec2
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...mgl64.Vec2) Polygon {
	return Polygon{Vertices: pts}
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X() * p.Vertices[j].Y()
		area -= p.Vertices[j].X() * p.Vertices[i].Y()
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Contains reports whether pt lies inside the polygon using the
// even-odd ray-casting rule. Points on an edge are treated as inside.
func (p Polygon) Contains(pt mgl64.Vec2) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p.Vertices[i], p.Vertices[j]
		if (vi.Y() > pt.Y()) != (vj.Y() > pt.Y()) {
			x := (vj.X()-vi.X())*(pt.Y()-vi.Y())/(vj.Y()-vi.Y()) + vi.X()
			if pt.X() < x {
				inside = !inside
			}
		}
	}
	return inside
}

// BoundingBox returns the axis-aligned bounds of the polygon.
func (p Polygon) BoundingBox() (min, max mgl64.Vec2) {
	if len(p.Vertices) == 0 {
		return mgl64.Vec2{}, mgl64.Vec2{}
	}
	min, max = p.Vertices[0], p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		min = mgl64.Vec2{math.Min(min.X(), v.X()), math.Min(min.Y(), v.Y())}
		max = mgl64.Vec2{math.Max(max.X(), v.X()), math.Max(max.Y(), v.Y())}
	}
	return min, max
}

// Centroid returns the vertex-average centroid of the polygon.
func (p Polygon) Centroid() mgl64.Vec2 {
	n := len(p.Vertices)
	if n == 0 {
		return mgl64.Vec2{}
	}
	var sum mgl64.Vec2
	for _, v := range p.Vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1 / float64(n))
}
