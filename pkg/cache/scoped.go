package cache

// ScopedKeyer prefixes every key produced by another keyer.
//
// The server uses it to keep its entries apart from those written by the
// CLI when both share a Redis instance:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "barchart:server:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(requestHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(requestHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(svgHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(svgHash, opts)
}
