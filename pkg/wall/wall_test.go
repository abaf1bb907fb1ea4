package wall

import (
	"math"
	"testing"

	"github.com/slicekit/wallseq/pkg/geom"
)

func TestLoopExternal(t *testing.T) {
	outer := Loop{Polygon: geom.Polygon{geom.P(0, 0)}, Depth: 0, Width: 0.45}
	inner := Loop{Polygon: geom.Polygon{geom.P(0, 0)}, Depth: 2, Width: 0.45}

	if !outer.External() {
		t.Error("depth 0 loop should be external")
	}
	if inner.External() {
		t.Error("depth 2 loop should not be external")
	}
}

func TestExtrusionAverageWidth(t *testing.T) {
	tests := []struct {
		name   string
		widths []float64
		want   float64
	}{
		{"no samples", nil, 0},
		{"uniform", []float64{0.4, 0.4, 0.4}, 0.4},
		{"varying", []float64{0.3, 0.5}, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Extrusion{Widths: tt.widths}
			if got := e.AverageWidth(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AverageWidth() = %v, want %v", got, tt.want)
			}
		})
	}
}
