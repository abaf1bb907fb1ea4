package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Service deployments sharing one Redis instance give each tenant its own
// namespace:
//
//	tenantKeyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tenant:abc:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
// A nil inner keyer falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DocKey generates a prefixed key for a reordered document.
func (k *ScopedKeyer) DocKey(docHash string, opts DocKeyOpts) string {
	return k.prefix + k.inner.DocKey(docHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
