package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can share
// one backend without seeing each other's entries.
//
//	sessionKeyer := NewScopedKeyer(NewDefaultKeyer(), "session:"+id+":")
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

func (k *ScopedKeyer) CompileKey(expression string, strict bool) string {
	return k.prefix + k.inner.CompileKey(expression, strict)
}

func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
