package order

import "github.com/slicekit/wallseq/pkg/wall"

// ReorderLoops arranges fixed-width wall loops into print order under the
// given policy. Loops are grouped by depth with their received order kept
// intact inside each group, the wall count is inferred as the maximum
// observed depth plus one, and groups are emitted per [Sequence]. Depths
// with no loops contribute nothing. Inputs with fewer than two loops come
// back unchanged.
//
// The returned slice holds the same loop values as the input; geometry is
// never copied or modified, and the caller keeps ownership.
func ReorderLoops(loops []wall.Loop, policy Policy) []wall.Loop {
	if len(loops) < 2 {
		return loops
	}

	maxDepth := 0
	for _, l := range loops {
		if l.Depth > maxDepth {
			maxDepth = l.Depth
		}
	}

	// Depths are small dense integers, so an array of buckets indexed
	// directly by depth beats any keyed map.
	buckets := make([][]wall.Loop, maxDepth+1)
	for _, l := range loops {
		buckets[l.Depth] = append(buckets[l.Depth], l)
	}

	out := make([]wall.Loop, 0, len(loops))
	for _, idx := range Sequence(maxDepth+1, policy) {
		out = append(out, buckets[idx-1]...)
	}
	return out
}

// ReorderExtrusions arranges adaptive-width wall extrusions into print
// order under the given policy. The contract matches [ReorderLoops], with
// one extra step: adaptive generation may interleave outer contours with
// width-transition geometry, so the input is first normalized by moving
// outermost primary contours (depth 0, Contour set) to the front, keeping
// their relative order. Transition entities keep the depth of the wall they
// transition into and move with that depth's group.
func ReorderExtrusions(extrusions []wall.Extrusion, policy Policy) []wall.Extrusion {
	if len(extrusions) < 2 {
		return extrusions
	}

	norm := normalizeContours(extrusions)

	maxDepth := 0
	for _, e := range norm {
		if e.Depth > maxDepth {
			maxDepth = e.Depth
		}
	}

	buckets := make([][]wall.Extrusion, maxDepth+1)
	for _, e := range norm {
		buckets[e.Depth] = append(buckets[e.Depth], e)
	}

	out := make([]wall.Extrusion, 0, len(extrusions))
	for _, idx := range Sequence(maxDepth+1, policy) {
		out = append(out, buckets[idx-1]...)
	}
	return out
}

// normalizeContours stably partitions extrusions so that outermost primary
// contours lead the sequence. Everything else follows in its original
// relative order.
func normalizeContours(extrusions []wall.Extrusion) []wall.Extrusion {
	out := make([]wall.Extrusion, 0, len(extrusions))
	for _, e := range extrusions {
		if e.Contour && e.External() {
			out = append(out, e)
		}
	}
	if len(out) == 0 {
		return extrusions
	}
	for _, e := range extrusions {
		if !e.Contour || !e.External() {
			out = append(out, e)
		}
	}
	return out
}
