package order

import (
	"slices"
	"testing"

	"github.com/slicekit/wallseq/pkg/geom"
	"github.com/slicekit/wallseq/pkg/wall"
)

// loop builds a fixed-width wall with the width doubling as a test identity.
func loop(depth int, id float64) wall.Loop {
	return wall.Loop{Polygon: geom.Polygon{geom.P(id, 0)}, Depth: depth, Width: id}
}

// extrusion builds an adaptive wall with the first width as a test identity.
func extrusion(depth int, contour bool, id float64) wall.Extrusion {
	return wall.Extrusion{
		Path:    geom.Polyline{geom.P(id, 0)},
		Widths:  []float64{id},
		Depth:   depth,
		Contour: contour,
	}
}

func loopIDs(loops []wall.Loop) []float64 {
	ids := make([]float64, len(loops))
	for i, l := range loops {
		ids[i] = l.Width
	}
	return ids
}

func extrusionIDs(ext []wall.Extrusion) []float64 {
	ids := make([]float64, len(ext))
	for i, e := range ext {
		ids[i] = e.Widths[0]
	}
	return ids
}

func TestReorderLoopsExactOrder(t *testing.T) {
	// Two loops at depth 0, two at depth 1, one at depth 2, interleaved.
	input := []wall.Loop{
		loop(0, 1), loop(0, 2), loop(1, 3), loop(2, 4), loop(1, 5),
	}

	tests := []struct {
		name   string
		policy Policy
		want   []float64
	}{
		{"outer-inner", OuterInner, []float64{1, 2, 3, 5, 4}},
		{"inner-outer", InnerOuter, []float64{4, 3, 5, 1, 2}},
		{"inner-outer-inner", InnerOuterInner, []float64{3, 5, 1, 2, 4}},
		{"middle-out outer-inner", MiddleOutOuterInner, []float64{4, 1, 2, 3, 5}},
		{"middle-out inner-outer", MiddleOutInnerOuter, []float64{4, 3, 5, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReorderLoops(slices.Clone(input), tt.policy)
			if !slices.Equal(loopIDs(got), tt.want) {
				t.Errorf("ReorderLoops() order = %v, want %v", loopIDs(got), tt.want)
			}
		})
	}
}

func TestReorderLoopsPreservesMultiset(t *testing.T) {
	input := []wall.Loop{
		loop(2, 1), loop(0, 2), loop(1, 3), loop(0, 4), loop(2, 5), loop(3, 6),
	}
	wantKeys := multisetKeys(input)

	for _, p := range Policies() {
		got := ReorderLoops(slices.Clone(input), p)
		if len(got) != len(input) {
			t.Fatalf("policy %v: length %d, want %d", p, len(got), len(input))
		}
		if keys := multisetKeys(got); !slices.Equal(keys, wantKeys) {
			t.Errorf("policy %v: multiset changed: %v vs %v", p, keys, wantKeys)
		}
	}
}

func multisetKeys(loops []wall.Loop) []float64 {
	keys := make([]float64, len(loops))
	for i, l := range loops {
		keys[i] = float64(l.Depth)*1000 + l.Width
	}
	slices.Sort(keys)
	return keys
}

func TestReorderLoopsIntraDepthStability(t *testing.T) {
	// Three loops sharing every depth; relative order within a depth must
	// survive every policy.
	var input []wall.Loop
	id := 1.0
	for depth := 0; depth < 3; depth++ {
		for n := 0; n < 3; n++ {
			input = append(input, loop(depth, id))
			id++
		}
	}

	for _, p := range Policies() {
		got := ReorderLoops(slices.Clone(input), p)
		byDepth := make(map[int][]float64)
		for _, l := range got {
			byDepth[l.Depth] = append(byDepth[l.Depth], l.Width)
		}
		for depth, ids := range byDepth {
			if !slices.IsSorted(ids) {
				t.Errorf("policy %v: depth %d order %v not preserved", p, depth, ids)
			}
		}
	}
}

func TestReorderLoopsMissingDepth(t *testing.T) {
	// Depth 1 absent: wall count is still inferred as 3 and the empty
	// bucket contributes nothing.
	input := []wall.Loop{loop(0, 1), loop(2, 2), loop(2, 3)}

	tests := []struct {
		name   string
		policy Policy
		want   []float64
	}{
		{"outer-inner skips gap", OuterInner, []float64{1, 2, 3}},
		{"inner-outer skips gap", InnerOuter, []float64{2, 3, 1}},
		{"middle-out skips gap", MiddleOutOuterInner, []float64{2, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReorderLoops(slices.Clone(input), tt.policy)
			if !slices.Equal(loopIDs(got), tt.want) {
				t.Errorf("order = %v, want %v", loopIDs(got), tt.want)
			}
		})
	}
}

func TestReorderLoopsShortInput(t *testing.T) {
	for _, p := range Policies() {
		if got := ReorderLoops(nil, p); got != nil {
			t.Errorf("policy %v: nil input returned %v", p, got)
		}

		single := []wall.Loop{loop(0, 1)}
		got := ReorderLoops(single, p)
		if len(got) != 1 || got[0].Width != 1 {
			t.Errorf("policy %v: single loop changed: %v", p, got)
		}
	}
}

func TestReorderExtrusionsNormalizesOuterContours(t *testing.T) {
	// Adaptive generation interleaves transition geometry with contours.
	// The outer contour must lead its depth group after reordering.
	input := []wall.Extrusion{
		extrusion(0, false, 1), // transition attached to the outer wall
		extrusion(0, true, 2),  // outer contour
		extrusion(1, true, 3),  // inner contour
		extrusion(1, false, 4), // transition attached to the inner wall
	}

	tests := []struct {
		name   string
		policy Policy
		want   []float64
	}{
		{"outer-inner", OuterInner, []float64{2, 1, 3, 4}},
		{"inner-outer", InnerOuter, []float64{3, 4, 2, 1}},
		{"middle-out outer-inner", MiddleOutOuterInner, []float64{3, 4, 2, 1}},
		{"middle-out inner-outer", MiddleOutInnerOuter, []float64{2, 1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReorderExtrusions(slices.Clone(input), tt.policy)
			if !slices.Equal(extrusionIDs(got), tt.want) {
				t.Errorf("order = %v, want %v", extrusionIDs(got), tt.want)
			}
		})
	}
}

func TestReorderExtrusionsKeepsDepthsContiguous(t *testing.T) {
	// Transition entities must never be separated from their wall's group.
	input := []wall.Extrusion{
		extrusion(0, true, 1),
		extrusion(2, false, 2),
		extrusion(1, true, 3),
		extrusion(2, true, 4),
		extrusion(0, false, 5),
		extrusion(1, false, 6),
	}

	for _, p := range Policies() {
		got := ReorderExtrusions(slices.Clone(input), p)
		if len(got) != len(input) {
			t.Fatalf("policy %v: length %d, want %d", p, len(got), len(input))
		}

		seen := make(map[int]bool)
		for i := 0; i < len(got); {
			depth := got[i].Depth
			if seen[depth] {
				t.Fatalf("policy %v: depth %d split across groups: %v", p, depth, extrusionIDs(got))
			}
			seen[depth] = true
			for i < len(got) && got[i].Depth == depth {
				i++
			}
		}
	}
}

func TestReorderExtrusionsPreservesMultiset(t *testing.T) {
	input := []wall.Extrusion{
		extrusion(1, true, 1), extrusion(0, false, 2), extrusion(0, true, 3),
		extrusion(2, true, 4), extrusion(1, false, 5),
	}

	wantKeys := make([]float64, len(input))
	for i, e := range input {
		wantKeys[i] = float64(e.Depth)*1000 + e.Widths[0]
	}
	slices.Sort(wantKeys)

	for _, p := range Policies() {
		got := ReorderExtrusions(slices.Clone(input), p)
		keys := make([]float64, len(got))
		for i, e := range got {
			keys[i] = float64(e.Depth)*1000 + e.Widths[0]
		}
		slices.Sort(keys)
		if !slices.Equal(keys, wantKeys) {
			t.Errorf("policy %v: multiset changed", p)
		}
	}
}

func TestReorderExtrusionsShortInput(t *testing.T) {
	single := []wall.Extrusion{extrusion(0, true, 1)}
	for _, p := range Policies() {
		got := ReorderExtrusions(single, p)
		if len(got) != 1 || got[0].Widths[0] != 1 {
			t.Errorf("policy %v: single extrusion changed", p)
		}
	}
}

// Grouping the reordered output by depth must reproduce the input's groups
// exactly, since reordering only moves whole groups.
func TestReorderGroupingIdempotence(t *testing.T) {
	input := []wall.Loop{
		loop(0, 1), loop(1, 2), loop(0, 3), loop(2, 4), loop(1, 5), loop(2, 6),
	}

	groupByDepth := func(loops []wall.Loop) map[int][]float64 {
		groups := make(map[int][]float64)
		for _, l := range loops {
			groups[l.Depth] = append(groups[l.Depth], l.Width)
		}
		return groups
	}

	want := groupByDepth(input)
	for _, p := range Policies() {
		got := groupByDepth(ReorderLoops(slices.Clone(input), p))
		if len(got) != len(want) {
			t.Fatalf("policy %v: group count %d, want %d", p, len(got), len(want))
		}
		for depth, ids := range want {
			if !slices.Equal(got[depth], ids) {
				t.Errorf("policy %v: depth %d group %v, want %v", p, depth, got[depth], ids)
			}
		}
	}
}
