package cli

import (
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/versionrange/pkg/pipeline"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var s Settings

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the versions the tracked ranges resolve to",
		Long: `Resolve every artifact listed in the key file and print the version it would
be updated to, next to the version pom.xml declares. The POM is not modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, &s); err != nil {
				return err
			}
			return c.runResolve(cmd, &s)
		},
	}

	addSettingsFlags(cmd, &s)
	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, s *Settings) error {
	ctx := cmd.Context()

	runner, closeCache, err := c.newRunner(ctx, s)
	if err != nil {
		return err
	}
	defer closeCache()

	var spinner *Spinner
	if c.Logger.GetLevel() > LogDebug {
		spinner = newSpinner(ctx, cmd.ErrOrStderr(), "Resolving versions...")
		spinner.Start()
	}
	result, err := runner.Targets(ctx, s.pipelineOptions())
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	printTargets(cmd.OutOrStdout(), result)
	return nil
}

func printTargets(w io.Writer, result *pipeline.Result) {
	printKeyValue(w, "project", result.Project)
	if len(result.Targets) == 0 {
		printInfo(w, "No tracked artifacts")
		return
	}

	keys := make([]string, 0, len(result.Targets))
	declared := map[string]string{}
	resolved := map[string]string{}
	for coord, v := range result.Targets {
		k := coord.Key()
		keys = append(keys, k)
		resolved[k] = v
		declared[k] = result.Original[coord]
	}
	sort.Strings(keys)

	for _, k := range keys {
		from := declared[k]
		if from == "" {
			from = "-"
		}
		printArrow(w, k, from, resolved[k])
	}
}
