// Package cli implements the versionrange command-line interface.
//
// # Commands
//
//   - update: Resolve the tracked version ranges and rewrite pom.xml
//   - resolve: Print the resolved versions without touching pom.xml
//   - cache: Manage the repository metadata cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every repository request and cache lookup.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/versionrange/pkg/buildinfo"
	"github.com/matzehuels/versionrange/pkg/cache"
	"github.com/matzehuels/versionrange/pkg/integrations"
	repo "github.com/matzehuels/versionrange/pkg/integrations/maven"
	"github.com/matzehuels/versionrange/pkg/pipeline"
	"github.com/matzehuels/versionrange/pkg/resolve"
)

// appName is the application name used for directories, cache key
// prefixes and display.
const appName = "versionrange"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level repository and
// cache events are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		registerDebugHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Keep pom.xml dependency versions at the newest release inside a range",
		Long: `versionrange resolves the version ranges listed in a key file against Maven
repositories and writes the resulting versions into pom.xml, changing nothing
but the version text.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.updateCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by a repository resolver. The
// returned function releases the cache.
func (c *CLI) newRunner(ctx context.Context, s *Settings) (*pipeline.Runner, func(), error) {
	store, keyer, err := c.newCache(ctx, s)
	if err != nil {
		return nil, nil, err
	}

	repos := s.Repositories
	if len(repos) == 0 {
		repos = []string{integrations.CentralURL}
	}
	normalized := make([]string, 0, len(repos))
	for _, r := range repos {
		u, err := integrations.NormalizeRepoURL(r)
		if err != nil {
			c.closeCache(store)
			return nil, nil, err
		}
		normalized = append(normalized, u)
	}

	local := s.LocalRepository
	if local == "" {
		if local, err = resolve.DefaultLocalRepository(); err != nil {
			c.Logger.Warn("no local repository", "err", err)
		}
	}

	client := repo.NewClient(store, s.CacheTTL.Duration)
	if keyer != nil {
		client.SetKeyer(keyer)
	}
	resolver := &resolve.RangeResolver{
		LocalRepository: local,
		Repositories:    normalized,
		Offline:         s.Offline,
		Refresh:         s.Refresh,
		Source:          client,
		Logger:          c.Logger,
	}
	c.Logger.Debug("repositories", "local", local, "remote", normalized, "offline", s.Offline)
	return pipeline.NewRunner(resolver, c.Logger), func() { c.closeCache(store) }, nil
}

// closeCache releases the cache backend and logs a failure.
func (c *CLI) closeCache(store cache.Cache) {
	if err := store.Close(); err != nil {
		c.Logger.Warn("error closing cache", "err", err)
	}
}

// newCache selects the cache backend: none, Redis when a URL is
// configured, otherwise the file cache. Redis keys are prefixed with the
// application name since the instance may be shared.
func (c *CLI) newCache(ctx context.Context, s *Settings) (cache.Cache, cache.Keyer, error) {
	switch {
	case s.NoCache:
		return cache.NewNullCache(), nil, nil
	case s.CacheURL != "":
		rc, err := cache.NewRedisCache(ctx, s.CacheURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":"), nil
	}

	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("caching disabled", "err", err)
		return cache.NewNullCache(), nil, nil
	}
	return fc, nil, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/versionrange/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	return cache.DefaultDir()
}
