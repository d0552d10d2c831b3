// Package pipeline provides the version update pipeline for versionrange.
//
// This package implements the complete load → resolve → rewrite → write
// pipeline that the CLI runs. By centralizing it, every entry point applies
// the same checks in the same order.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Build the project snapshot and read the key file
//  2. Resolve: Resolve every tracked version range to a concrete version
//  3. Rewrite: Edit the POM text in place, keeping everything else byte for byte
//  4. Write: Verify the result and replace the file, or diff it for a dry run
//
// Any error aborts the run before the write; the POM is then untouched.
//
// # Usage
//
//	runner := pipeline.NewRunner(resolver, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Pom:     "pom.xml",
//	    DryRun:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(result.Diff)
//
// Resolve only:
//
//	result, err := runner.Targets(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/keyfile"
	"github.com/matzehuels/versionrange/pkg/pom"
)

// DefaultPom is the manifest updated when none is given.
const DefaultPom = "pom.xml"

// Options contains all configuration for one pipeline run.
type Options struct {
	// Pom is the manifest to update.
	Pom string
	// KeyFileDir and KeyFile locate the list of tracked artifacts.
	KeyFileDir string
	KeyFile    string
	// Profiles are activated (or, prefixed with "!", deactivated) when
	// building the project snapshot.
	Profiles []string

	// LineSeparator is "native", "lf" or "crlf".
	LineSeparator string
	// RepairTagWhitespace collapses whitespace runs inside tags before
	// parsing. Off by default: the file is kept byte for byte.
	RepairTagWhitespace bool
	// UpdateProjectVersion also moves the project's own version.
	UpdateProjectVersion bool
	// DryRun computes the diff instead of writing the file.
	DryRun bool

	Logger *log.Logger

	// lineSeparator is the resolved separator string.
	lineSeparator string
	validated     bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Project is the id of the updated project.
	Project string
	// Targets maps each tracked coordinate to its resolved version.
	Targets pom.VersionMap
	// Original maps coordinates to the versions the POM declared.
	Original pom.VersionMap

	// Changes are the edits applied to the POM, in document order.
	Changes []pom.Change
	// Diff is the unified diff of a dry run.
	Diff string
	// Written reports whether the file was replaced.
	Written bool

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Artifacts   int
	ResolveTime time.Duration
	RewriteTime time.Duration
	WriteTime   time.Duration
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Pom == "" {
		o.Pom = DefaultPom
	}
	if o.KeyFileDir == "" {
		o.KeyFileDir = keyfile.DefaultDir
	}
	if o.KeyFile == "" {
		o.KeyFile = keyfile.DefaultName
	}
	if err := errors.ValidateKeyFilename(o.KeyFile); err != nil {
		return err
	}
	ls, err := pom.LineSeparator(o.LineSeparator)
	if err != nil {
		return err
	}
	o.lineSeparator = ls
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}
