// Package maven implements the parts of Maven's artifact model that version
// propagation needs: coordinates, artifact specifications, version ordering
// and version ranges.
package maven

import (
	"regexp"
	"strings"

	"github.com/matzehuels/versionrange/pkg/errors"
)

// DefaultPluginGroupID is the groupId assumed for plugins that omit one.
const DefaultPluginGroupID = "org.apache.maven.plugins"

// Coordinate identifies an artifact independent of its version.
type Coordinate struct {
	GroupID    string
	ArtifactID string
}

// Key returns "groupId:artifactId".
func (c Coordinate) Key() string {
	return c.GroupID + ":" + c.ArtifactID
}

func (c Coordinate) String() string { return c.Key() }

// Path returns the repository directory of the coordinate, e.g.
// "org/apache/commons/commons-lang3".
func (c Coordinate) Path() string {
	return strings.ReplaceAll(c.GroupID, ".", "/") + "/" + c.ArtifactID
}

// Validate checks that both parts are safe to turn into repository paths.
func (c Coordinate) Validate() error {
	if err := errors.ValidateCoordinatePart("groupId", c.GroupID); err != nil {
		return err
	}
	return errors.ValidateCoordinatePart("artifactId", c.ArtifactID)
}

// Artifact is a parsed artifact specification. Version may be a single
// version or a version range.
type Artifact struct {
	Coordinate
	Extension  string
	Classifier string
	Version    string
}

func (a Artifact) String() string {
	var sb strings.Builder
	sb.WriteString(a.GroupID)
	sb.WriteByte(':')
	sb.WriteString(a.ArtifactID)
	sb.WriteByte(':')
	sb.WriteString(a.Extension)
	if a.Classifier != "" {
		sb.WriteByte(':')
		sb.WriteString(a.Classifier)
	}
	sb.WriteByte(':')
	sb.WriteString(a.Version)
	return sb.String()
}

var artifactPattern = regexp.MustCompile(`^([^: ]+):([^: ]+)(?::([^: ]*)(?::([^: ]+))?)?:([^: ]+)$`)

// ParseArtifact parses "groupId:artifactId[:extension[:classifier]]:version".
// The extension defaults to "jar".
func ParseArtifact(s string) (Artifact, error) {
	m := artifactPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Artifact{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"bad artifact coordinates %s, expected format is <groupId>:<artifactId>[:<extension>[:<classifier>]]:<version>", s)
	}
	a := Artifact{
		Coordinate: Coordinate{GroupID: m[1], ArtifactID: m[2]},
		Extension:  m[3],
		Classifier: m[4],
		Version:    m[5],
	}
	if a.Extension == "" {
		a.Extension = "jar"
	}
	if err := a.Validate(); err != nil {
		return Artifact{}, err
	}
	return a, nil
}
