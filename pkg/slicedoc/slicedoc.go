// Package slicedoc models sliced wall geometry as a document: layers from
// bottom to top, each holding the islands of that layer, each island holding
// the depth-tagged walls of one connected region.
//
// Documents are what the reordering pipeline moves around. They are the
// canonical serialization format for API payloads, caching, and file
// exchange, and round-trip through JSON without loss.
package slicedoc

import (
	"errors"
	"fmt"

	"github.com/slicekit/wallseq/pkg/wall"
)

var (
	// ErrNegativeDepth is returned by [Document.Validate] when a wall
	// carries a negative depth. Depths count inward from 0.
	ErrNegativeDepth = errors.New("wall depth must not be negative")

	// ErrMixedIsland is returned by [Document.Validate] when an island
	// carries both fixed-width loops and adaptive extrusions. Islands are
	// generated by exactly one strategy.
	ErrMixedIsland = errors.New("island mixes fixed-width and adaptive walls")

	// ErrWidthMismatch is returned by [Document.Validate] when an adaptive
	// extrusion's width samples do not line up with its path vertices.
	ErrWidthMismatch = errors.New("extrusion width count must match path length")
)

// Island generation modes reported by [Island.Mode].
const (
	ModeFixed    = "fixed"
	ModeAdaptive = "adaptive"
	ModeEmpty    = "empty"
)

// Document is a sliced part: an ordered stack of layers.
type Document struct {
	Name   string  `json:"name,omitempty" bson:"name,omitempty"`
	Unit   string  `json:"unit,omitempty" bson:"unit,omitempty"`
	Layers []Layer `json:"layers" bson:"layers"`
}

// Layer holds the islands sliced at one Z height.
type Layer struct {
	Z       float64  `json:"z" bson:"z"`
	Islands []Island `json:"islands" bson:"islands"`
}

// Island is one connected region on a layer. It carries either fixed-width
// loops or adaptive extrusions, never both.
type Island struct {
	Loops      []wall.Loop      `json:"loops,omitempty" bson:"loops,omitempty"`
	Extrusions []wall.Extrusion `json:"extrusions,omitempty" bson:"extrusions,omitempty"`
}

// Mode reports which generation strategy produced the island's walls.
func (i *Island) Mode() string {
	switch {
	case len(i.Loops) > 0:
		return ModeFixed
	case len(i.Extrusions) > 0:
		return ModeAdaptive
	default:
		return ModeEmpty
	}
}

// WallCount returns the island's wall count, inferred as the maximum depth
// plus one. Empty islands have zero walls.
func (i *Island) WallCount() int {
	maxDepth := -1
	for _, l := range i.Loops {
		if l.Depth > maxDepth {
			maxDepth = l.Depth
		}
	}
	for _, e := range i.Extrusions {
		if e.Depth > maxDepth {
			maxDepth = e.Depth
		}
	}
	return maxDepth + 1
}

// EntityCount returns the number of wall entities in the island.
func (i *Island) EntityCount() int { return len(i.Loops) + len(i.Extrusions) }

// Counts returns the document's layer, island, and wall entity totals.
func (d *Document) Counts() (layers, islands, walls int) {
	layers = len(d.Layers)
	for _, layer := range d.Layers {
		islands += len(layer.Islands)
		for i := range layer.Islands {
			walls += layer.Islands[i].EntityCount()
		}
	}
	return layers, islands, walls
}

// Validate checks structural integrity: no negative depths, single-mode
// islands, and adaptive width samples matching their paths. Errors carry
// the offending layer and island indices and wrap the sentinel errors above.
//
// Depth gaps are legal - an island may have fewer walls at some depth than
// its siblings - so density is not enforced.
func (d *Document) Validate() error {
	for li, layer := range d.Layers {
		for ii := range layer.Islands {
			island := &layer.Islands[ii]
			if len(island.Loops) > 0 && len(island.Extrusions) > 0 {
				return fmt.Errorf("layer %d island %d: %w", li, ii, ErrMixedIsland)
			}
			for _, l := range island.Loops {
				if l.Depth < 0 {
					return fmt.Errorf("layer %d island %d: depth %d: %w", li, ii, l.Depth, ErrNegativeDepth)
				}
			}
			for _, e := range island.Extrusions {
				if e.Depth < 0 {
					return fmt.Errorf("layer %d island %d: depth %d: %w", li, ii, e.Depth, ErrNegativeDepth)
				}
				if len(e.Widths) != len(e.Path) {
					return fmt.Errorf("layer %d island %d: %d widths for %d vertices: %w",
						li, ii, len(e.Widths), len(e.Path), ErrWidthMismatch)
				}
			}
		}
	}
	return nil
}
