package cache

// ScopedKeyer wraps a Keyer with a prefix so several tools can share one
// Redis or Mongo backend without colliding.
//
// Example usage:
//
//	shellKeyer := NewScopedKeyer(NewDefaultKeyer(), "shell:")
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

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(scenarioHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(scenarioHash, opts)
}
