package cache

// ScopedKeyer wraps a Keyer with a prefix so several sites can share one
// cache backend without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "phpmyadmin:")
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

// FeedKey generates a prefixed feed key.
func (k *ScopedKeyer) FeedKey(name string) string {
	return k.prefix + k.inner.FeedKey(name)
}

// TextKey generates a prefixed text key.
func (k *ScopedKeyer) TextKey(url string) string {
	return k.prefix + k.inner.TextKey(url)
}

// CatalogKey generates a prefixed catalog key.
func (k *ScopedKeyer) CatalogKey(op, repo, path string) string {
	return k.prefix + k.inner.CatalogKey(op, repo, path)
}
