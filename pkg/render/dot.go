// Package render turns planned print orders into Graphviz diagrams.
//
// The diagram shows one island as a chain of wall nodes in the order the
// policy prints them: first wall at the head, arrows following the nozzle.
// [ToDOT] emits Graphviz DOT text and [RenderSVG] rasterizes it with the
// embedded Graphviz engine, so no external binaries are needed.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/slicedoc"
	"github.com/slicekit/wallseq/pkg/wall"
)

// Options configures print-order diagram rendering.
type Options struct {
	// Detailed includes widths and wall roles in node labels.
	// When false, only the wall depth is shown.
	Detailed bool
}

// ToDOT converts one island's planned print order to Graphviz DOT format.
// Walls appear in the order the policy prints them, chained by directed
// edges; the first wall printed is filled to mark the start of the chain.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(island *slicedoc.Island, policy order.Policy, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph printorder {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  label=%q;\n", policy.Label())
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	var labels []string
	switch island.Mode() {
	case slicedoc.ModeFixed:
		for _, l := range order.ReorderLoops(island.Loops, policy) {
			labels = append(labels, loopLabel(l, opts.Detailed))
		}
	case slicedoc.ModeAdaptive:
		for _, e := range order.ReorderExtrusions(island.Extrusions, policy) {
			labels = append(labels, extrusionLabel(e, opts.Detailed))
		}
	}

	for i, label := range labels {
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if i == 0 {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  \"w%d\" [%s];\n", i+1, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i := 1; i < len(labels); i++ {
		fmt.Fprintf(&buf, "  \"w%d\" -> \"w%d\";\n", i, i+1)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func loopLabel(l wall.Loop, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("depth %d", l.Depth)
	}
	parts := []string{
		fmt.Sprintf("depth %d", l.Depth),
		fmt.Sprintf("width: %g", l.Width),
	}
	if l.External() {
		parts = append(parts, "outer wall")
	}
	return strings.Join(parts, "\n")
}

func extrusionLabel(e wall.Extrusion, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("depth %d", e.Depth)
	}
	parts := []string{
		fmt.Sprintf("depth %d", e.Depth),
		fmt.Sprintf("avg width: %.2f", e.AverageWidth()),
	}
	if !e.Contour {
		parts = append(parts, "gap fill")
	} else if e.External() {
		parts = append(parts, "outer wall")
	}
	return strings.Join(parts, "\n")
}
