// Package cache provides content-addressed caching for reordering results
// and rendered artifacts.
//
// Reordering is deterministic: the same document and policy always produce
// the same output, so results are cached under keys derived from the
// document's content hash plus the options that change the result. Three
// backends cover the deployment shapes: [FileCache] for the CLI,
// [RedisCache] for the service, and [NullCache] when caching is off.
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry class. Reordered documents are cheap to rebuild
// and large to store; rendered artifacts are the opposite.
const (
	DocTTL      = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache stores opaque bytes under string keys with per-entry TTLs.
// A zero ttl means the entry never expires. Get reports a miss as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DocKeyOpts carries every option that changes a reordered document.
// Workers and logging do not belong here - they change how fast the result
// arrives, not what it is.
type DocKeyOpts struct {
	Policy string `json:"policy"`
}

// ArtifactKeyOpts carries every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Layer    int    `json:"layer"`
	Island   int    `json:"island"`
	Policy   string `json:"policy"`
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// Keyer derives cache keys from document content hashes. Implementations
// must produce equal keys exactly when the cached value would be identical.
type Keyer interface {
	// DocKey keys a reordered document.
	DocKey(docHash string, opts DocKeyOpts) string
	// ArtifactKey keys a rendered print-order artifact.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the document hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// DocKey generates a key for a reordered document.
func (k *DefaultKeyer) DocKey(docHash string, opts DocKeyOpts) string {
	return hashKey("doc", docHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", docHash, opts)
}
