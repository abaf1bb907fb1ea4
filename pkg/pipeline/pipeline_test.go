package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/slicekit/wallseq/pkg/cache"
	"github.com/slicekit/wallseq/pkg/geom"
	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/slicedoc"
	"github.com/slicekit/wallseq/pkg/wall"
)

func square(side float64) geom.Polygon {
	return geom.Polygon{geom.P(0, 0), geom.P(side, 0), geom.P(side, side), geom.P(0, side)}
}

func loop(depth int, width float64) wall.Loop {
	return wall.Loop{Polygon: square(10 - float64(depth)), Depth: depth, Width: width}
}

func extrusion(depth int, contour bool) wall.Extrusion {
	return wall.Extrusion{
		Path:    geom.Polyline{geom.P(0, 0), geom.P(5, 0)},
		Widths:  []float64{0.4, 0.5},
		Depth:   depth,
		Contour: contour,
	}
}

// testDoc builds a two-layer document: a fixed-width island with three
// walls, then a layer holding an adaptive island and a two-wall island.
func testDoc() *slicedoc.Document {
	return &slicedoc.Document{
		Name: "bracket",
		Unit: "mm",
		Layers: []slicedoc.Layer{
			{Z: 0.2, Islands: []slicedoc.Island{
				{Loops: []wall.Loop{loop(0, 0.45), loop(1, 0.45), loop(2, 0.45)}},
			}},
			{Z: 0.4, Islands: []slicedoc.Island{
				{Extrusions: []wall.Extrusion{
					extrusion(1, false), extrusion(0, true), extrusion(1, true),
				}},
				{Loops: []wall.Loop{loop(0, 0.4), loop(1, 0.4)}},
			}},
		},
	}
}

func loopKeys(loops []wall.Loop) []string {
	keys := make([]string, len(loops))
	for i, l := range loops {
		keys[i] = fmt.Sprintf("%d:%g:%d", l.Depth, l.Width, len(l.Polygon))
	}
	return keys
}

func sortedCopy(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Policy: order.OuterInner}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", opts.Workers, DefaultWorkers)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent: a second call keeps the resolved values.
	workers := opts.Workers
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Workers != workers {
		t.Error("Workers changed on second call")
	}
}

func TestOptionsValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"undeclared policy", Options{Policy: order.Policy(99)}},
		{"negative workers", Options{Policy: order.InnerOuter, Workers: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() should fail")
			}
		})
	}
}

func TestExecuteReorders(t *testing.T) {
	doc := testDoc()
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(context.Background(), doc, Options{Policy: order.MiddleOutOuterInner})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	// Three walls under middle-out/outer-inner print as depth 2, 0, 1.
	got := result.Doc.Layers[0].Islands[0].Loops
	wantDepths := []int{2, 0, 1}
	for i, l := range got {
		if l.Depth != wantDepths[i] {
			t.Errorf("layer 0 loop %d depth = %d, want %d", i, l.Depth, wantDepths[i])
		}
	}

	// Layer order and Z heights survive.
	if result.Doc.Layers[0].Z != 0.2 || result.Doc.Layers[1].Z != 0.4 {
		t.Errorf("layer order changed: z = %v, %v", result.Doc.Layers[0].Z, result.Doc.Layers[1].Z)
	}

	// Per-island multisets are unchanged.
	for li := range doc.Layers {
		for ii := range doc.Layers[li].Islands {
			in := sortedCopy(loopKeys(doc.Layers[li].Islands[ii].Loops))
			out := sortedCopy(loopKeys(result.Doc.Layers[li].Islands[ii].Loops))
			if len(in) != len(out) {
				t.Fatalf("layer %d island %d: loop count changed %d -> %d", li, ii, len(in), len(out))
			}
			for i := range in {
				if in[i] != out[i] {
					t.Errorf("layer %d island %d: multiset changed: %v vs %v", li, ii, in, out)
				}
			}
		}
	}
}

func TestExecuteStats(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), testDoc(), Options{Policy: order.InnerOuter})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Stats.Layers != 2 {
		t.Errorf("Stats.Layers = %d, want 2", result.Stats.Layers)
	}
	if result.Stats.Islands != 3 {
		t.Errorf("Stats.Islands = %d, want 3", result.Stats.Islands)
	}
	if result.Stats.Walls != 8 {
		t.Errorf("Stats.Walls = %d, want 8", result.Stats.Walls)
	}
	if result.DocHash == "" {
		t.Error("DocHash should be set")
	}
}

func TestExecuteDoesNotMutateInput(t *testing.T) {
	doc := testDoc()
	before, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), doc, Options{Policy: order.MiddleOutInnerOuter}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	after, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Error("Execute mutated the input document")
	}
}

func TestExecuteCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, testDoc(), Options{Policy: order.InnerOuterInner})
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.DocHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(ctx, testDoc(), Options{Policy: order.InnerOuterInner})
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.DocHit {
		t.Error("second run should hit the cache")
	}

	firstJSON, _ := json.Marshal(first.Doc)
	secondJSON, _ := json.Marshal(second.Doc)
	if string(firstJSON) != string(secondJSON) {
		t.Error("cached document differs from computed document")
	}

	// A different policy must miss.
	other, err := runner.Execute(ctx, testDoc(), Options{Policy: order.OuterInner})
	if err != nil {
		t.Fatalf("Execute() with other policy error: %v", err)
	}
	if other.CacheInfo.DocHit {
		t.Error("different policy should not share cache entries")
	}

	// Refresh bypasses the lookup.
	refreshed, err := runner.Execute(ctx, testDoc(), Options{Policy: order.InnerOuterInner, Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if refreshed.CacheInfo.DocHit {
		t.Error("refresh run should not report a cache hit")
	}
}

func TestExecuteProgress(t *testing.T) {
	var mu sync.Mutex
	var calls []int

	opts := Options{
		Policy: order.OuterInner,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != 2 {
				t.Errorf("Progress total = %d, want 2", total)
			}
			calls = append(calls, done)
		},
	}

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), testDoc(), opts); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 2 {
		t.Fatalf("Progress called %d times, want 2", len(calls))
	}
	max := 0
	for _, n := range calls {
		if n > max {
			max = n
		}
	}
	if max != 2 {
		t.Errorf("Progress never reported completion: calls %v", calls)
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	doc := &slicedoc.Document{Layers: []slicedoc.Layer{
		{Z: 0.2, Islands: []slicedoc.Island{
			{
				Loops:      []wall.Loop{loop(0, 0.45)},
				Extrusions: []wall.Extrusion{extrusion(0, true)},
			},
		}},
	}}

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), doc, Options{Policy: order.InnerOuter}); err == nil {
		t.Error("Execute() should reject a mixed island")
	}
}

func TestExecuteEmptyDocument(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), &slicedoc.Document{}, Options{Policy: order.InnerOuter})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Stats.Layers != 0 || result.Stats.Walls != 0 {
		t.Errorf("empty document stats = %+v", result.Stats)
	}
	if len(result.Doc.Layers) != 0 {
		t.Errorf("empty document grew %d layers", len(result.Doc.Layers))
	}
}
