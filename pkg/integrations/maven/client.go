package maven

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/matzehuels/versionrange/pkg/cache"
	"github.com/matzehuels/versionrange/pkg/integrations"
	mvn "github.com/matzehuels/versionrange/pkg/maven"
)

// MetadataFile is the per-artifact index every Maven repository serves.
const MetadataFile = "maven-metadata.xml"

// Metadata is the content of a maven-metadata.xml file.
type Metadata struct {
	GroupID     string   `json:"group_id"`
	ArtifactID  string   `json:"artifact_id"`
	Latest      string   `json:"latest,omitempty"`
	Release     string   `json:"release,omitempty"`
	Versions    []string `json:"versions"`
	LastUpdated string   `json:"last_updated,omitempty"`
	// URL the metadata was fetched from.
	URL string `json:"url"`
}

// Client reads artifact metadata from remote Maven repositories.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
}

// NewClient creates a repository client whose responses are cached in c
// for ttl. A nil cache disables caching.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{Client: integrations.NewClient(c, "maven:", ttl, nil)}
}

// MetadataURL returns the location of the metadata file of coord in the
// repository at repoURL.
func MetadataURL(repoURL string, coord mvn.Coordinate) string {
	return strings.TrimRight(repoURL, "/") + "/" + coord.Path() + "/" + MetadataFile
}

// Versions returns the metadata of coord in the repository at repoURL.
// If refresh is true the cache is bypassed.
//
// Returns [integrations.ErrNotFound] when the repository does not know the
// artifact and [integrations.ErrNetwork] for HTTP failures.
func (c *Client) Versions(ctx context.Context, repoURL string, coord mvn.Coordinate, refresh bool) (*Metadata, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	key := c.Keyer().MetadataKey(repoURL, coord)

	var meta Metadata
	err := c.Cached(ctx, key, refresh, &meta, func() error {
		return c.fetch(ctx, repoURL, coord, &meta)
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *Client) fetch(ctx context.Context, repoURL string, coord mvn.Coordinate, meta *Metadata) error {
	url := MetadataURL(repoURL, coord)
	data, err := c.Get(ctx, url)
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: %s in %s", err, coord, repoURL)
		}
		return err
	}

	parsed, err := ParseMetadata(data)
	if err != nil {
		return fmt.Errorf("%s: %w", url, err)
	}
	parsed.URL = url
	*meta = *parsed
	return nil
}

// ParseMetadata decodes a maven-metadata.xml document. Versions keep the
// file order with duplicates and blanks removed.
func ParseMetadata(data []byte) (*Metadata, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", MetadataFile, err)
	}
	root := xmlquery.FindOne(doc, "/metadata")
	if root == nil {
		return nil, fmt.Errorf("invalid %s: no metadata element", MetadataFile)
	}

	meta := &Metadata{
		GroupID:     text(root, "groupId"),
		ArtifactID:  text(root, "artifactId"),
		Latest:      text(root, "versioning/latest"),
		Release:     text(root, "versioning/release"),
		LastUpdated: text(root, "versioning/lastUpdated"),
	}
	seen := map[string]bool{}
	for _, n := range xmlquery.Find(root, "versioning/versions/version") {
		v := strings.TrimSpace(n.InnerText())
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		meta.Versions = append(meta.Versions, v)
	}
	return meta, nil
}

func text(n *xmlquery.Node, expr string) string {
	if found := xmlquery.FindOne(n, expr); found != nil {
		return strings.TrimSpace(found.InnerText())
	}
	return ""
}
