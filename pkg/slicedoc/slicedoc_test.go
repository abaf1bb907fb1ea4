package slicedoc

import (
	"errors"
	"testing"

	"github.com/slicekit/wallseq/pkg/geom"
	"github.com/slicekit/wallseq/pkg/wall"
)

func fixedIsland(depths ...int) Island {
	var island Island
	for _, d := range depths {
		island.Loops = append(island.Loops, wall.Loop{
			Polygon: geom.Polygon{geom.P(0, 0), geom.P(1, 0), geom.P(1, 1)},
			Depth:   d,
			Width:   0.45,
		})
	}
	return island
}

func adaptiveIsland(depths ...int) Island {
	var island Island
	for _, d := range depths {
		island.Extrusions = append(island.Extrusions, wall.Extrusion{
			Path:    geom.Polyline{geom.P(0, 0), geom.P(1, 0)},
			Widths:  []float64{0.4, 0.5},
			Depth:   d,
			Contour: true,
		})
	}
	return island
}

func TestIslandMode(t *testing.T) {
	tests := []struct {
		name   string
		island Island
		want   string
	}{
		{"empty", Island{}, ModeEmpty},
		{"fixed", fixedIsland(0, 1), ModeFixed},
		{"adaptive", adaptiveIsland(0), ModeAdaptive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.island.Mode(); got != tt.want {
				t.Errorf("Mode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIslandWallCount(t *testing.T) {
	tests := []struct {
		name   string
		island Island
		want   int
	}{
		{"empty", Island{}, 0},
		{"dense", fixedIsland(0, 1, 2), 3},
		{"gap still counts", fixedIsland(0, 2), 3},
		{"adaptive", adaptiveIsland(0, 1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.island.WallCount(); got != tt.want {
				t.Errorf("WallCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDocumentCounts(t *testing.T) {
	doc := Document{
		Layers: []Layer{
			{Z: 0.2, Islands: []Island{fixedIsland(0, 1), fixedIsland(0)}},
			{Z: 0.4, Islands: []Island{adaptiveIsland(0, 1, 2)}},
		},
	}

	layers, islands, walls := doc.Counts()
	if layers != 2 || islands != 3 || walls != 6 {
		t.Errorf("Counts() = %d/%d/%d, want 2/3/6", layers, islands, walls)
	}
}

func TestDocumentValidate(t *testing.T) {
	valid := Document{Layers: []Layer{{Z: 0.2, Islands: []Island{fixedIsland(0, 1), adaptiveIsland(0)}}}}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on valid document: %v", err)
	}

	t.Run("negative depth", func(t *testing.T) {
		doc := Document{Layers: []Layer{{Islands: []Island{fixedIsland(-1)}}}}
		if err := doc.Validate(); !errors.Is(err, ErrNegativeDepth) {
			t.Errorf("Validate() = %v, want ErrNegativeDepth", err)
		}
	})

	t.Run("mixed island", func(t *testing.T) {
		mixed := fixedIsland(0)
		mixed.Extrusions = adaptiveIsland(1).Extrusions
		doc := Document{Layers: []Layer{{Islands: []Island{mixed}}}}
		if err := doc.Validate(); !errors.Is(err, ErrMixedIsland) {
			t.Errorf("Validate() = %v, want ErrMixedIsland", err)
		}
	})

	t.Run("width mismatch", func(t *testing.T) {
		island := adaptiveIsland(0)
		island.Extrusions[0].Widths = island.Extrusions[0].Widths[:1]
		doc := Document{Layers: []Layer{{Islands: []Island{island}}}}
		if err := doc.Validate(); !errors.Is(err, ErrWidthMismatch) {
			t.Errorf("Validate() = %v, want ErrWidthMismatch", err)
		}
	})
}
