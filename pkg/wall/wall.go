// Package wall defines the wall entities produced by perimeter generators
// and consumed by print-order planning.
//
// A wall's Depth counts inward from the model surface: depth 0 is the
// outermost wall (the visible one), depth 1 its inner neighbor, and so on.
// Depths are non-negative and, within one island, usually dense - though
// ordering tolerates gaps when a generator drops a wall. Position within a
// depth is given by slice order and is preserved by every reordering.
package wall

import "github.com/slicekit/wallseq/pkg/geom"

// Loop is one wall produced by the fixed-width generator: a closed polygon
// extruded at a single width.
type Loop struct {
	Polygon geom.Polygon `json:"polygon" bson:"polygon"`
	Depth   int          `json:"depth" bson:"depth"`
	Width   float64      `json:"width" bson:"width"`
}

// External reports whether the loop is the outermost wall.
func (l Loop) External() bool { return l.Depth == 0 }

// Extrusion is one wall produced by the adaptive-width generator: a path
// with a width per vertex. Unlike fixed-width loops, adaptive walls may be
// open, and a single depth can carry secondary transition paths alongside
// its primary contour.
type Extrusion struct {
	Path   geom.Polyline `json:"path" bson:"path"`
	Widths []float64     `json:"widths" bson:"widths"`
	Depth  int           `json:"depth" bson:"depth"`

	// Contour marks a primary closed contour. Width-transition and gap
	// geometry carries Contour=false and must travel with its depth.
	Contour bool `json:"contour" bson:"contour"`
}

// External reports whether the extrusion belongs to the outermost wall.
func (e Extrusion) External() bool { return e.Depth == 0 }

// AverageWidth returns the mean of the per-vertex widths, or 0 for an
// extrusion without width samples.
func (e Extrusion) AverageWidth() float64 {
	if len(e.Widths) == 0 {
		return 0
	}
	var sum float64
	for _, w := range e.Widths {
		sum += w
	}
	return sum / float64(len(e.Widths))
}
