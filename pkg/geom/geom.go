// Package geom provides the minimal 2D geometry types carried by wall
// entities: points, open polylines, and implicitly closed polygons.
//
// Wall ordering never inspects or modifies geometry - these types exist so
// documents, rendering, and tests can move realistic toolpaths around. All
// coordinates are millimeters in the layer plane.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point is a position in the layer plane. It aliases [mgl64.Vec2] so callers
// can use the full vector API (Add, Sub, Len, ...) without conversion.
type Point = mgl64.Vec2

// P is shorthand for constructing a Point.
func P(x, y float64) Point { return Point{x, y} }

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Point
	Max Point
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r.Max.X() - r.Min.X() }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r.Max.Y() - r.Min.Y() }

// Union returns the smallest box containing both r and other.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X(), other.Min.X()), math.Min(r.Min.Y(), other.Min.Y())},
		Max: Point{math.Max(r.Max.X(), other.Max.X()), math.Max(r.Max.Y(), other.Max.Y())},
	}
}

// Polyline is an open sequence of points describing a toolpath. A polyline
// with fewer than two points has zero length.
type Polyline []Point

// Length returns the total path length.
func (p Polyline) Length() float64 {
	var sum float64
	for i := 1; i < len(p); i++ {
		sum += p[i].Sub(p[i-1]).Len()
	}
	return sum
}

// Closed reports whether the first and last points coincide.
func (p Polyline) Closed() bool {
	if len(p) < 3 {
		return false
	}
	return p[0].Sub(p[len(p)-1]).Len() < closeEps
}

// Bounds returns the bounding box of the polyline. The zero Rect is returned
// for an empty polyline.
func (p Polyline) Bounds() Rect { return bounds(p) }

// Clone returns an independent copy of the polyline.
func (p Polyline) Clone() Polyline {
	if p == nil {
		return nil
	}
	out := make(Polyline, len(p))
	copy(out, p)
	return out
}

// Polygon is an implicitly closed loop of points. The closing segment from
// the last point back to the first is not stored.
type Polygon []Point

// Perimeter returns the closed-loop length, including the implicit closing
// segment.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	sum := Polyline(p).Length()
	return sum + p[0].Sub(p[len(p)-1]).Len()
}

// Area returns the signed area via the shoelace formula. Counterclockwise
// loops have positive area.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum float64
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X()*p[j].Y() - p[j].X()*p[i].Y()
	}
	return sum / 2
}

// Centroid returns the arithmetic mean of the vertices. For an empty polygon
// the zero point is returned.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var c Point
	for _, pt := range p {
		c = c.Add(pt)
	}
	return c.Mul(1 / float64(len(p)))
}

// Bounds returns the bounding box of the polygon.
func (p Polygon) Bounds() Rect { return bounds(p) }

// Clone returns an independent copy of the polygon.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// closeEps is the distance below which two endpoints count as coincident.
const closeEps = 1e-9

func bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, pt := range pts[1:] {
		r.Min = Point{math.Min(r.Min.X(), pt.X()), math.Min(r.Min.Y(), pt.Y())}
		r.Max = Point{math.Max(r.Max.X(), pt.X()), math.Max(r.Max.Y(), pt.Y())}
	}
	return r
}
