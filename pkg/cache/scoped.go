package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys by build
// version so a new renderer never serves artifacts from an old one.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}

// DocumentKey generates a prefixed document key.
func (k *ScopedKeyer) DocumentKey(backend, name string) string {
	return k.prefix + k.inner.DocumentKey(backend, name)
}
