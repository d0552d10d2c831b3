package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/versionrange/pkg/errors"
	"github.com/matzehuels/versionrange/pkg/keyfile"
	"github.com/matzehuels/versionrange/pkg/observability"
	"github.com/matzehuels/versionrange/pkg/pom"
	"github.com/matzehuels/versionrange/pkg/project"
)

// Runner executes the pipeline with a version resolver.
//
// The Runner keeps no per-run state; one Runner may serve several runs.
type Runner struct {
	Resolver pom.Resolver
	Logger   *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(resolver pom.Resolver, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Resolver: resolver, Logger: logger}
}

// Execute runs the complete pipeline for one POM.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result, model, err := r.targets(ctx, opts)
	if err != nil {
		return nil, err
	}

	rewriteStart := time.Now()
	env, err := r.rewrite(ctx, opts, model, result)
	if err != nil {
		return nil, err
	}
	result.Stats.RewriteTime = time.Since(rewriteStart)
	logger.Info("rewrote POM",
		"pom", opts.Pom,
		"changes", len(result.Changes),
		"duration", result.Stats.RewriteTime)

	writeStart := time.Now()
	if err := r.write(opts, env, result); err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(writeStart)
	return result, nil
}

// Targets loads the project and key file and resolves the tracked
// artifacts without touching the POM.
func (r *Runner) Targets(ctx context.Context, opts Options) (*Result, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	result, _, err := r.targets(ctx, opts)
	return result, err
}

func (r *Runner) prepare(opts *Options) error {
	if r.Resolver == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "no version resolver configured")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	opts.Logger = opts.Logger.With("run", uuid.NewString()[:8])
	return nil
}

func (r *Runner) targets(ctx context.Context, opts Options) (_ *Result, _ *project.Model, err error) {
	logger := opts.Logger
	start := time.Now()

	model, err := project.Load(opts.Pom, project.LoadOptions{Profiles: opts.Profiles})
	if err != nil {
		return nil, nil, err
	}
	specs, err := keyfile.Load(opts.KeyFileDir, opts.KeyFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded key file", "dir", opts.KeyFileDir, "file", opts.KeyFile, "artifacts", len(specs))

	hooks := observability.Pipeline()
	var targets pom.VersionMap
	hooks.OnTargetsStart(ctx, model.ID(), len(specs))
	defer func() {
		hooks.OnTargetsComplete(ctx, model.ID(), len(targets), time.Since(start), err)
	}()

	targets, err = pom.TargetVersions(ctx, specs, r.Resolver, logger)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{
		Project:  model.ID(),
		Targets:  targets,
		Original: pom.OriginalVersions(model),
	}
	result.Stats.Artifacts = len(specs)
	result.Stats.ResolveTime = time.Since(start)
	logger.Info("resolved versions",
		"project", result.Project,
		"artifacts", len(targets),
		"duration", result.Stats.ResolveTime)
	return result, model, nil
}

func (r *Runner) rewrite(ctx context.Context, opts Options, model *project.Model, result *Result) (_ *pom.Envelope, err error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRewriteStart(ctx, opts.Pom)
	defer func() {
		hooks.OnRewriteComplete(ctx, opts.Pom, len(result.Changes), time.Since(start), err)
	}()

	env, err := pom.ReadManifest(opts.Pom, pom.ReadOptions{
		LineSeparator:       opts.lineSeparator,
		RepairTagWhitespace: opts.RepairTagWhitespace,
	})
	if err != nil {
		return nil, err
	}

	rw := &pom.Rewriter{
		Doc:                  env.Doc,
		Model:                model,
		Target:               result.Targets,
		Original:             result.Original,
		UpdateProjectVersion: opts.UpdateProjectVersion,
		Logger:               opts.Logger,
	}
	changes, err := rw.Rewrite()
	if err != nil {
		return nil, err
	}
	result.Changes = changes

	pom.PrepareRoot(env.Doc, env.Root, model.ModelVersion)
	return env, nil
}

func (r *Runner) write(opts Options, env *pom.Envelope, result *Result) error {
	logger := opts.Logger

	out, err := env.Bytes()
	if err != nil {
		return err
	}
	if err := pom.Verify(env.Source, out); err != nil {
		return err
	}

	if opts.DryRun {
		diff, err := Diff(opts.Pom, env.Source, out)
		if err != nil {
			return err
		}
		result.Diff = diff
		logger.Info("dry run, POM not written", "pom", opts.Pom)
		return nil
	}

	if string(out) == string(env.Source) {
		logger.Info("POM already up to date", "pom", opts.Pom)
		return nil
	}
	if err := pom.WriteFile(opts.Pom, out); err != nil {
		return err
	}
	result.Written = true
	logger.Info("wrote POM", "pom", opts.Pom)
	return nil
}
