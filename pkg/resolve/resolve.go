// Package resolve turns version ranges into concrete versions.
//
// Candidate versions come from the local repository (version directories
// that contain the artifact's POM) and from the maven-metadata.xml of each
// remote repository, in that order. The highest candidate inside the range
// wins. A soft version such as "1.2" resolves to itself without any I/O.
package resolve

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/integrations"
	repo "github.com/matzehuels/versionrange/pkg/integrations/maven"
	"github.com/matzehuels/versionrange/pkg/maven"
	"github.com/matzehuels/versionrange/pkg/observability"
	"github.com/matzehuels/versionrange/pkg/pom"
)

// MetadataSource lists the versions a remote repository publishes.
type MetadataSource interface {
	Versions(ctx context.Context, repoURL string, coord maven.Coordinate, refresh bool) (*repo.Metadata, error)
}

// RangeResolver resolves artifact specifications against a local and any
// number of remote repositories.
type RangeResolver struct {
	// LocalRepository is the local repository root; empty skips it.
	LocalRepository string
	// Repositories are remote repository base URLs, queried in order.
	Repositories []string
	// Offline skips remote repositories.
	Offline bool
	// Refresh bypasses cached metadata.
	Refresh bool

	Source MetadataSource
	Logger *log.Logger
}

var _ pom.Resolver = (*RangeResolver)(nil)

// DefaultLocalRepository returns ~/.m2/repository.
func DefaultLocalRepository() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

// Resolve returns the highest available version of a inside a.Version.
func (r *RangeResolver) Resolve(ctx context.Context, a maven.Artifact) (version string, err error) {
	logger := r.logger()
	hooks := observability.Resolve()
	spec := a.String()
	start := time.Now()
	candidates := 0

	hooks.OnResolveStart(ctx, spec)
	defer func() {
		hooks.OnResolveComplete(ctx, spec, version, candidates, time.Since(start), err)
	}()

	rng, err := maven.ParseRange(a.Version)
	if err != nil {
		return "", err
	}
	if !rng.IsRange() {
		return rng.Recommended.String(), nil
	}

	versions, err := r.Candidates(ctx, a)
	if err != nil {
		return "", err
	}
	candidates = len(versions)
	logger.Debug("candidate versions", "artifact", a.Coordinate, "versions", versions)

	best, ok := rng.Highest(versions)
	if !ok {
		return "", errors.New(errors.ErrCodeResolution,
			"no version of %s matches %s (%d candidates)", a.Coordinate, rng, len(versions))
	}
	return best, nil
}

// Candidates returns every version of a known to the local repository and,
// unless offline, the remote repositories. Versions are unique and keep
// discovery order.
func (r *RangeResolver) Candidates(ctx context.Context, a maven.Artifact) ([]string, error) {
	logger := r.logger()
	var versions []string
	seen := map[string]bool{}
	add := func(vs []string) {
		for _, v := range vs {
			if !seen[v] {
				seen[v] = true
				versions = append(versions, v)
			}
		}
	}

	if r.LocalRepository != "" {
		local, err := LocalVersions(r.LocalRepository, a.Coordinate)
		if err != nil {
			return nil, err
		}
		add(local)
	}

	if r.Offline || r.Source == nil {
		return versions, nil
	}

	var lastErr error
	for _, url := range r.Repositories {
		meta, err := r.Source.Versions(ctx, url, a.Coordinate, r.Refresh)
		switch {
		case err == nil:
			add(meta.Versions)
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case stderrors.Is(err, integrations.ErrNotFound):
			logger.Debug("artifact not in repository", "artifact", a.Coordinate, "repository", url)
		default:
			logger.Warn("unable to read repository metadata", "artifact", a.Coordinate, "repository", url, "err", err)
			lastErr = err
		}
	}
	if len(versions) == 0 && lastErr != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, lastErr, "unable to read versions of %s", a.Coordinate)
	}
	return versions, nil
}

// LocalVersions lists the version directories of coord below the local
// repository root that contain the artifact's POM.
func LocalVersions(root string, coord maven.Coordinate) ([]string, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	dir := filepath.Join(root, filepath.FromSlash(coord.Path()))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeReadFailed, err, "error reading local repository %s", dir)
	}

	var versions []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v := e.Name()
		pomFile := filepath.Join(dir, v, coord.ArtifactID+"-"+v+".pom")
		if _, err := os.Stat(pomFile); err == nil {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

func (r *RangeResolver) logger() *log.Logger {
	if r.Logger == nil {
		r.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return r.Logger
}
