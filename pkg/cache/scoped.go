package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, e.g. one
// namespace per study when a single Redis instance backs several studies.
//
// Example usage:
//
//	studyKeyer := NewScopedKeyer(NewDefaultKeyer(), "study:CDISCPILOT01:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// LineageKey generates a prefixed key for lineage query caching.
func (k *ScopedKeyer) LineageKey(dataset, variable string, opts LineageKeyOpts) string {
	return k.prefix + k.inner.LineageKey(dataset, variable, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
