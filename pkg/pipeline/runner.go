package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/slicekit/wallseq/pkg/cache"
	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/slicedoc"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute reorders every island of doc under opts.Policy and returns the
// reassembled document. The input document is validated first and never
// mutated; geometry moves by reference only.
//
// Results are cached under the document content hash and the policy, so a
// repeated Execute with identical inputs returns the cached document unless
// opts.Refresh is set. ctx cancels the run between layers.
func (r *Runner) Execute(ctx context.Context, doc *slicedoc.Document, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	docData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}

	result := &Result{DocHash: cache.Hash(docData)}
	result.Stats.Layers, result.Stats.Islands, result.Stats.Walls = doc.Counts()

	cacheKey := r.Keyer.DocKey(result.DocHash, opts.DocKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := slicedoc.ReadJSON(bytes.NewReader(data)); err == nil {
				result.Doc = cached
				result.CacheInfo.DocHit = true
				opts.Logger.Info("reordered document",
					"policy", opts.Policy,
					"layers", result.Stats.Layers,
					"walls", result.Stats.Walls,
					"cached", true)
				return result, nil
			}
			// Corrupt entries fall through to recompute.
		}
	}

	start := time.Now()
	reordered, err := r.reorderLayers(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("reorder: %w", err)
	}
	result.Doc = reordered
	result.Stats.PlanTime = time.Since(start)

	if data, err := json.Marshal(reordered); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.DocTTL)
	}

	opts.Logger.Info("reordered document",
		"policy", opts.Policy,
		"layers", result.Stats.Layers,
		"islands", result.Stats.Islands,
		"walls", result.Stats.Walls,
		"duration", result.Stats.PlanTime)

	return result, nil
}

// reorderLayers rebuilds the document with every island reordered. Layers
// are processed by a bounded worker pool; each worker writes only its own
// output slot, so the result needs no locking and keeps layer order.
func (r *Runner) reorderLayers(ctx context.Context, doc *slicedoc.Document, opts Options) (*slicedoc.Document, error) {
	out := &slicedoc.Document{Name: doc.Name, Unit: doc.Unit}
	if len(doc.Layers) == 0 {
		return out, nil
	}
	out.Layers = make([]slicedoc.Layer, len(doc.Layers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	total := len(doc.Layers)
	var done atomic.Int64

	for li := range doc.Layers {
		li := li
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			src := &doc.Layers[li]
			dst := slicedoc.Layer{Z: src.Z}
			if len(src.Islands) > 0 {
				dst.Islands = make([]slicedoc.Island, len(src.Islands))
				for ii := range src.Islands {
					dst.Islands[ii] = reorderIsland(&src.Islands[ii], opts.Policy)
				}
			}
			out.Layers[li] = dst

			n := int(done.Add(1))
			opts.Logger.Debug("layer reordered", "layer", li, "z", src.Z, "islands", len(src.Islands))
			if opts.Progress != nil {
				opts.Progress(n, total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// reorderIsland applies the policy to one island, whichever generation mode
// produced it. Empty islands pass through untouched.
func reorderIsland(island *slicedoc.Island, policy order.Policy) slicedoc.Island {
	return slicedoc.Island{
		Loops:      order.ReorderLoops(island.Loops, policy),
		Extrusions: order.ReorderExtrusions(island.Extrusions, policy),
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
