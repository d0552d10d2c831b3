package cache

import "github.com/matzehuels/versionrange/pkg/maven"

// ScopedKeyer wraps a Keyer with a prefix. A Redis instance shared with
// other tools gets its keys under a common prefix this way.
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

// MetadataKey generates a prefixed key for repository metadata.
func (k *ScopedKeyer) MetadataKey(repoURL string, c maven.Coordinate) string {
	return k.prefix + k.inner.MetadataKey(repoURL, c)
}
