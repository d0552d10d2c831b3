package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/versionrange/pkg/cache"
	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/keyfile"
	"github.com/matzehuels/versionrange/pkg/pipeline"
)

// configFile is looked up next to the POM when --config is not given.
const configFile = ".versionrange.toml"

// Duration is a time.Duration that decodes from TOML strings such as "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Settings are the options shared by update and resolve. Flags override
// values from the configuration file.
type Settings struct {
	KeyFileDir           string   `toml:"key_file_dir"`
	KeyFile              string   `toml:"key_file"`
	Profiles             []string `toml:"profiles"`
	Repositories         []string `toml:"repositories"`
	Offline              bool     `toml:"offline"`
	LocalRepository      string   `toml:"local_repository"`
	UpdateProjectVersion bool     `toml:"update_project_version"`
	LineSeparator        string   `toml:"line_separator"`
	RepairTagWhitespace  bool     `toml:"repair_tag_whitespace"`
	CacheURL             string   `toml:"cache_url"`
	CacheTTL             Duration `toml:"cache_ttl"`

	// Command line only.
	Pom     string `toml:"-"`
	Config  string `toml:"-"`
	NoCache bool   `toml:"-"`
	Refresh bool   `toml:"-"`
	DryRun  bool   `toml:"-"`
}

// loadConfig decodes a TOML configuration file. Unknown keys are an error.
func loadConfig(path string) (*Settings, error) {
	var s Settings
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "error reading config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return &s, nil
}

// addSettingsFlags binds the shared flags to s.
func addSettingsFlags(cmd *cobra.Command, s *Settings) {
	fs := cmd.Flags()
	fs.StringVar(&s.Pom, "pom", pipeline.DefaultPom, "POM file to update")
	fs.StringVar(&s.Config, "config", "", "configuration file (default: "+configFile+" next to the POM)")
	fs.StringVar(&s.KeyFileDir, "dir", keyfile.DefaultDir, "directory of the key file")
	fs.StringVar(&s.KeyFile, "file", keyfile.DefaultName, "key file listing the tracked artifacts")
	fs.StringSliceVarP(&s.Profiles, "profiles", "P", nil, "profiles to activate, !id to deactivate")
	fs.StringArrayVar(&s.Repositories, "repo", nil, "remote repository URL, repeatable (default: Maven Central)")
	fs.BoolVar(&s.Offline, "offline", false, "use the local repository only")
	fs.StringVar(&s.LocalRepository, "local-repo", "", "local repository (default: ~/.m2/repository)")
	fs.StringVar(&s.LineSeparator, "line-separator", "native", "line separator of the written POM: native, lf or crlf")
	fs.BoolVar(&s.RepairTagWhitespace, "repair-tag-whitespace", false, "collapse whitespace runs inside tags before parsing")
	fs.BoolVar(&s.NoCache, "no-cache", false, "disable the metadata cache")
	fs.BoolVar(&s.Refresh, "refresh", false, "ignore cached metadata")
	fs.StringVar(&s.CacheURL, "cache-url", "", "Redis cache URL, e.g. redis://localhost:6379/0")
	fs.DurationVar(&s.CacheTTL.Duration, "cache-ttl", cache.TTLMetadata, "lifetime of cached metadata")
}

// applyConfig fills every setting whose flag was not given from the
// configuration file. An explicit --config must exist; the default file is
// optional.
func applyConfig(cmd *cobra.Command, s *Settings) error {
	path, explicit := s.Config, s.Config != ""
	if !explicit {
		path = filepath.Join(filepath.Dir(s.Pom), configFile)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	file, err := loadConfig(path)
	if err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Debug("loaded config", "path", path)

	fs := cmd.Flags()
	set := func(flag string, apply func()) {
		if fs.Lookup(flag) != nil && !fs.Changed(flag) {
			apply()
		}
	}
	set("dir", func() { setString(&s.KeyFileDir, file.KeyFileDir) })
	set("file", func() { setString(&s.KeyFile, file.KeyFile) })
	set("profiles", func() { setStrings(&s.Profiles, file.Profiles) })
	set("repo", func() { setStrings(&s.Repositories, file.Repositories) })
	set("offline", func() { s.Offline = s.Offline || file.Offline })
	set("local-repo", func() { setString(&s.LocalRepository, file.LocalRepository) })
	set("update-project-version", func() { s.UpdateProjectVersion = s.UpdateProjectVersion || file.UpdateProjectVersion })
	set("line-separator", func() { setString(&s.LineSeparator, file.LineSeparator) })
	set("repair-tag-whitespace", func() { s.RepairTagWhitespace = s.RepairTagWhitespace || file.RepairTagWhitespace })
	set("cache-url", func() { setString(&s.CacheURL, file.CacheURL) })
	set("cache-ttl", func() {
		if file.CacheTTL.Duration > 0 {
			s.CacheTTL = file.CacheTTL
		}
	})
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setStrings(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = v
	}
}

// pipelineOptions converts the settings for the pipeline.
func (s *Settings) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Pom:                  s.Pom,
		KeyFileDir:           s.KeyFileDir,
		KeyFile:              s.KeyFile,
		Profiles:             s.Profiles,
		LineSeparator:        s.LineSeparator,
		RepairTagWhitespace:  s.RepairTagWhitespace,
		UpdateProjectVersion: s.UpdateProjectVersion,
		DryRun:               s.DryRun,
	}
}
