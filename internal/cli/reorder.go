package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slicekit/wallseq/pkg/pipeline"
	"github.com/slicekit/wallseq/pkg/slicedoc"
)

// reorderCommand creates the reorder command for rewriting documents.
func (c *CLI) reorderCommand() *cobra.Command {
	var (
		policyKey string
		output    string
		workers   int
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "reorder [document.json]",
		Short: "Reorder a sliced document's walls for printing",
		Long: `Reorder a sliced document's walls for printing.

Every island in the document is rewritten so its walls appear in the order
the policy prints them. Geometry is untouched; only the wall order changes.

Results are cached locally under the document's content hash, so repeating
a reorder with the same policy is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := parsePolicyFlag(policyKey)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Policy:  policy,
				Workers: workers,
				Refresh: refresh,
			}
			return c.runReorder(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&policyKey, "policy", "p", "", "wall sequence policy key (see 'wallseq policies')")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent layer workers (0 = default)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and recompute")

	return cmd
}

// runReorder loads the document, runs the pipeline, and writes the result.
// The spinner and summary are suppressed when the document goes to stdout.
func (c *CLI) runReorder(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := slicedoc.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	var spinner *Spinner
	if output != "" {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Reordering with %s...", opts.Policy.Label()))
		spinner.Start()
	}

	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError("Reordering failed")
		}
		return fmt.Errorf("reorder: %w", err)
	}
	if spinner != nil {
		spinner.Stop()
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := slicedoc.WriteJSON(result.Doc, out); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Reordered %s with %s", filepath.Base(input), StyleHighlight.Render(opts.Policy.Label()))
		printStats(result.Stats.Layers, result.Stats.Islands, result.Stats.Walls, result.CacheInfo.DocHit)
		printFile(output)
		printNewline()
		printNextStep("Visualize the print order", fmt.Sprintf("wallseq graph %s --format svg -o order.svg", output))
	}

	return nil
}
