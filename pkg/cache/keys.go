package cache

import (
	"strings"

	"github.com/matzehuels/versionrange/pkg/maven"
)

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey is the key for a raw response of a namespaced client.
	HTTPKey(namespace, key string) string

	// MetadataKey is the key for the version list of a coordinate in one
	// remote repository.
	MetadataKey(repoURL string, c maven.Coordinate) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// MetadataKey hashes the repository URL and coordinate so that keys stay
// short and filesystem-safe.
func (DefaultKeyer) MetadataKey(repoURL string, c maven.Coordinate) string {
	return hashKey("metadata", strings.TrimRight(repoURL, "/"), c.GroupID, c.ArtifactID)
}
