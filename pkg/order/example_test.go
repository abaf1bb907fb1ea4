package order_test

import (
	"fmt"

	"github.com/slicekit/wallseq/pkg/geom"
	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/wall"
)

func ExampleSequence() {
	// Five concentric walls, printed middle-out: the interior first,
	// the outer pair last.
	fmt.Println(order.Sequence(5, order.MiddleOutOuterInner))
	fmt.Println(order.Sequence(5, order.MiddleOutInnerOuter))
	// Output:
	// [3 4 5 1 2]
	// [3 4 5 2 1]
}

func ExampleParsePolicy() {
	// Print profiles persist policies as string keys.
	p, err := order.ParsePolicy("middle-out/outer-inner")
	if err != nil {
		panic(err)
	}
	fmt.Println(p.Label())

	_, err = order.ParsePolicy("spiral")
	fmt.Println(err != nil)
	// Output:
	// Middle-Out/Outer-Inner
	// true
}

func ExampleReorderLoops() {
	// An island with three walls, generated outside-in.
	square := func(r float64) geom.Polygon {
		return geom.Polygon{geom.P(-r, -r), geom.P(r, -r), geom.P(r, r), geom.P(-r, r)}
	}
	loops := []wall.Loop{
		{Polygon: square(10), Depth: 0, Width: 0.45},
		{Polygon: square(9.55), Depth: 1, Width: 0.45},
		{Polygon: square(9.1), Depth: 2, Width: 0.45},
	}

	ordered := order.ReorderLoops(loops, order.MiddleOutOuterInner)
	for _, l := range ordered {
		fmt.Println("depth", l.Depth)
	}
	// Output:
	// depth 2
	// depth 0
	// depth 1
}
