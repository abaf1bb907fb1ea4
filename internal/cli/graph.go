package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slicekit/wallseq/pkg/cache"
	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/render"
	"github.com/slicekit/wallseq/pkg/slicedoc"
)

const (
	formatDOT = "dot" // Graphviz DOT text
	formatSVG = "svg" // rendered with the embedded Graphviz engine
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	layer    int    // layer index in the document
	island   int    // island index within the layer
	format   string // output format: "dot" or "svg"
	detailed bool   // include widths and wall roles in labels
	output   string // output file path (stdout if empty)
	noCache  bool   // disable the artifact cache
	policy   order.Policy
}

// graphCommand creates the graph command for print-order diagrams.
func (c *CLI) graphCommand() *cobra.Command {
	var policyKey string
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph [document.json]",
		Short: "Render an island's print order as a Graphviz diagram",
		Long: `Render one island's print order as a Graphviz diagram.

The diagram chains the island's walls in the order the policy prints
them, head first. DOT output is plain text; SVG is rendered with the
embedded Graphviz engine, no external binaries needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			policy, err := parsePolicyFlag(policyKey)
			if err != nil {
				return err
			}
			opts.policy = policy
			return runGraph(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.layer, "layer", 0, "layer index")
	cmd.Flags().IntVar(&opts.island, "island", 0, "island index within the layer")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show wall widths and roles")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVarP(&policyKey, "policy", "p", "", "wall sequence policy key (see 'wallseq policies')")

	return cmd
}

// runGraph loads the document, picks the requested island, and writes the
// diagram in the requested format.
func runGraph(ctx context.Context, input string, opts *graphOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, err := slicedoc.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	if opts.layer < 0 || opts.layer >= len(doc.Layers) {
		return fmt.Errorf("layer %d out of range (document has %d layers)", opts.layer, len(doc.Layers))
	}
	layer := &doc.Layers[opts.layer]
	if opts.island < 0 || opts.island >= len(layer.Islands) {
		return fmt.Errorf("island %d out of range (layer %d has %d islands)", opts.island, opts.layer, len(layer.Islands))
	}
	island := &layer.Islands[opts.island]

	logger.Debugf("Rendering layer %d island %d (%s, %d walls)", opts.layer, opts.island, island.Mode(), island.EntityCount())

	dot := render.ToDOT(island, opts.policy, render.Options{Detailed: opts.detailed})

	data := []byte(dot)
	if opts.format == formatSVG {
		data, err = renderSVGCached(ctx, doc, dot, opts)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	if opts.output != "" {
		prog.done(fmt.Sprintf("Generated %s", opts.output))
	}
	return nil
}

// renderSVGCached runs the Graphviz engine, reusing a cached artifact when
// the document and render options match an earlier run.
func renderSVGCached(ctx context.Context, doc *slicedoc.Document, dot string, opts *graphOpts) ([]byte, error) {
	store, err := newCache(opts.noCache)
	if err != nil {
		return render.RenderSVG(ctx, dot)
	}
	defer store.Close()

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(docData), cache.ArtifactKeyOpts{
		Layer:    opts.layer,
		Island:   opts.island,
		Policy:   opts.policy.String(),
		Format:   formatSVG,
		Detailed: opts.detailed,
	})

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		loggerFromContext(ctx).Debug("Using cached svg artifact")
		return data, nil
	}

	data, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	_ = store.Set(ctx, key, data, cache.ArtifactTTL)
	return data, nil
}
