// Package pipeline runs wall reordering over whole sliced documents.
//
// The ordering core (pkg/order) works on one island at a time. This package
// is the collaborator that feeds it: it walks a document layer by layer,
// fans the layers out over a bounded worker pool, reorders every island
// under one policy, and reassembles the document with layer order intact.
// CLI, API, and embedding code all go through the same Runner so caching
// and logging behave identically everywhere.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Policy: order.MiddleOutOuterInner,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reordered := result.Doc
//
// Reordering is deterministic, so results are cached under the document's
// content hash plus the policy. A second Execute with the same inputs is a
// cache hit and does no work.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/slicekit/wallseq/pkg/cache"
	"github.com/slicekit/wallseq/pkg/order"
	"github.com/slicekit/wallseq/pkg/slicedoc"
)

// DefaultWorkers bounds the layer fan-out when Options.Workers is zero.
// Reordering is cheap per layer, so a small pool keeps the scheduler busy
// without drowning documents that have thousands of thin layers.
const DefaultWorkers = 4

// Options configures one pipeline run. The zero value is not valid: Policy
// must be a declared [order.Policy] (the zero policy, InnerOuter, is).
// This struct supports JSON serialization for API requests.
type Options struct {
	// Policy is the wall sequence applied to every island.
	Policy order.Policy `json:"policy"`

	// Workers bounds the number of layers reordered concurrently.
	// Zero means DefaultWorkers.
	Workers int `json:"workers,omitempty"`

	// Refresh bypasses the cache lookup and recomputes the result.
	// The fresh result still replaces the cached entry.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives per-stage progress. Nil discards.
	Logger *log.Logger `json:"-"`

	// Progress, when set, is called after each layer completes with the
	// number of finished layers and the total. Calls may come from any
	// worker goroutine; done is strictly increasing across them.
	Progress func(done, total int) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if !o.Policy.Valid() {
		return fmt.Errorf("invalid policy value %d", int(o.Policy))
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DocKeyOpts returns cache key options for the reordered document.
func (o *Options) DocKeyOpts() cache.DocKeyOpts {
	return cache.DocKeyOpts{Policy: o.Policy.String()}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Doc is the reordered document. The input document is never mutated.
	Doc *slicedoc.Document

	// DocHash is the content hash of the input document, usable as a
	// stable identity for the reorder request.
	DocHash string

	// Stats contains size and timing information.
	Stats Stats

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Layers   int           `json:"layers" bson:"layers"`
	Islands  int           `json:"islands" bson:"islands"`
	Walls    int           `json:"walls" bson:"walls"`
	PlanTime time.Duration `json:"plan_time" bson:"plan_time"`
}

// CacheInfo tracks cache hits for the run.
type CacheInfo struct {
	// DocHit reports whether the reordered document came from cache.
	DocHit bool `json:"doc_hit"`
}
