package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/versionrange/pkg/pipeline"
)

// updateCommand creates the update command.
func (c *CLI) updateCommand() *cobra.Command {
	var s Settings

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rewrite pom.xml with the newest versions inside the tracked ranges",
		Long: `Resolve every artifact listed in the key file and write the resolved versions
into pom.xml. Literal versions, version properties and the parent version are
updated in place; comments, formatting and everything else stay as they are.`,
		Example: `  versionrange update
  versionrange update --pom service/pom.xml --dry-run
  versionrange update --offline --local-repo /tmp/m2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, &s); err != nil {
				return err
			}
			return c.runUpdate(cmd, &s)
		},
	}

	addSettingsFlags(cmd, &s)
	cmd.Flags().BoolVar(&s.DryRun, "dry-run", false, "print a diff instead of writing the POM")
	cmd.Flags().BoolVar(&s.UpdateProjectVersion, "update-project-version", false, "also update the project's own version")
	return cmd
}

func (c *CLI) runUpdate(cmd *cobra.Command, s *Settings) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	runner, closeCache, err := c.newRunner(ctx, s)
	if err != nil {
		return err
	}
	defer closeCache()

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, s.pipelineOptions())
	if err != nil {
		return err
	}
	prog.done("Update finished")

	printChanges(out, result, s.DryRun)
	if s.DryRun {
		if result.Diff != "" {
			printNewline(out)
			printInline(out, "%s", result.Diff)
		}
		return nil
	}
	if result.Written {
		printFile(out, s.Pom)
	}
	return nil
}

func printChanges(w io.Writer, result *pipeline.Result, dryRun bool) {
	if len(result.Changes) == 0 {
		printInfo(w, "No versions to update in %s", StyleHighlight.Render(result.Project))
		return
	}
	verb := "Updated"
	if dryRun {
		verb = "Would update"
	}
	printSuccess(w, "%s %s in %s", verb, plural(len(result.Changes), "version"), StyleHighlight.Render(result.Project))
	for _, ch := range result.Changes {
		printDetail(w, "%s", ch)
	}
}
