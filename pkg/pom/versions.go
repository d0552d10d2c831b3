package pom

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/maven"
	"github.com/matzehuels/versionrange/pkg/project"
)

// VersionMap maps coordinates to versions. A coordinate has at most one
// entry; later insertions overwrite earlier ones.
type VersionMap map[maven.Coordinate]string

// String renders the map sorted by key, for debug logging.
func (m VersionMap) String() string {
	keys := make([]maven.Coordinate, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Key() < keys[j].Key() })

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k.Key())
		sb.WriteByte('=')
		sb.WriteString(m[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// OriginalVersions collects the versions currently declared by the snapshot:
// the parent, dependencies, dependency management, plugins and plugin
// management of the project, then of each active profile. Versions the
// snapshot could not interpolate are left out, so their elements are
// classified by the expression they carry.
func OriginalVersions(m *project.Model) VersionMap {
	versions := VersionMap{}
	if m.Parent != nil {
		versions[m.Parent.Coordinate()] = m.Parent.Version
	}
	add := func(deps []project.Dependency) {
		for _, d := range deps {
			if unresolved(d.Version) {
				continue
			}
			versions[d.Coordinate()] = d.Version
		}
	}
	add(m.Dependencies)
	add(m.DependencyManagement)
	add(m.Plugins)
	add(m.PluginManagement)
	for _, p := range m.ActiveProfiles {
		add(p.Dependencies)
		add(p.DependencyManagement)
		add(p.Plugins)
		add(p.PluginManagement)
	}
	return versions
}

// Resolver returns the highest version matching an artifact specification.
type Resolver interface {
	Resolve(ctx context.Context, artifact maven.Artifact) (string, error)
}

// TargetVersions resolves every tracked artifact specification, one at a
// time, and maps its coordinate to the resolved version.
func TargetVersions(ctx context.Context, specs []string, r Resolver, logger *log.Logger) (VersionMap, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	versions := VersionMap{}
	for _, spec := range specs {
		artifact, err := maven.ParseArtifact(spec)
		if err != nil {
			return nil, err
		}
		logger.Debug("resolving artifact", "artifact", artifact)
		v, err := r.Resolve(ctx, artifact)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeResolution, err, "unable to resolve versions for: %s", artifact)
		}
		logger.Debug("resolved artifact", "artifact", artifact, "version", v)
		versions[artifact.Coordinate] = v
	}
	return versions, nil
}

func unresolved(version string) bool {
	return strings.Contains(version, "${")
}
