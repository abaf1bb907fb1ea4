// Package order decides the physical printing order of the concentric walls
// of one island on one layer.
//
// # Overview
//
// A sliced island has N concentric walls, counted by depth: depth 0 is the
// outermost (visible) wall, depth N-1 the innermost. The order in which
// those walls are extruded affects seam placement, surface finish, and how
// much heat and stress the visible wall absorbs. This package provides the
// closed set of supported ordering strategies ([Policy]), the pure planner
// that turns a wall count and a policy into a print sequence ([Sequence]),
// and two reorderers that rearrange generator output into that sequence
// ([ReorderLoops] for fixed-width walls, [ReorderExtrusions] for
// adaptive-width walls).
//
// # Sequences
//
// [Sequence] returns 1-based wall indices (index = depth + 1) forming a
// permutation of {1,...,N}. The middle-out policies print walls three and
// deeper first, from the third wall inward, and save the outer pair for
// last:
//
//	order.Sequence(5, order.MiddleOutOuterInner) // [3 4 5 1 2]
//	order.Sequence(5, order.MiddleOutInnerOuter) // [3 4 5 2 1]
//
// Degenerate counts normalize silently: zero or negative counts produce an
// empty sequence, a single wall always prints as [1], and the two-wall case
// is a fixed per-policy table because the outward middle phase has no walls
// to traverse.
//
// # Reordering
//
// The reorderers bucket entities by depth, preserving the order within each
// depth exactly as received, and emit buckets in planned order. They never
// create, drop, or modify geometry - the multiset of entities is unchanged,
// only emission order moves. Wall count is inferred per call as the maximum
// observed depth plus one, so sibling islands with different wall counts
// reorder independently. Empty depth buckets are skipped silently.
//
// Adaptive-width generation can interleave primary contours with
// width-transition geometry. [ReorderExtrusions] first normalizes its input
// by moving outermost primary contours to the front, then proceeds exactly
// like the fixed-width path. Transition entities carry the depth of the
// wall they transition into and always travel with that depth's bucket.
//
// # Concurrency
//
// Everything in this package is a pure function over its arguments. There
// is no shared state and no configuration lookup, so calls are safe from
// any number of pipeline workers at once, one call per island per layer.
package order
