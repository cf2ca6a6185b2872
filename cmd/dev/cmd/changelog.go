package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

const defaultChangelog = "CHANGELOG.md"

// ChangelogCmd regenerates the changelog from conventional commits with git-chglog.
func ChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate or update CHANGELOG.md from git history",
		Example: `  dev changelog
  dev changelog --next v0.2.0
  dev changelog --tag v0.1.0 --output CHANGES.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			next, _ := cmd.Flags().GetString("next")
			tag, _ := cmd.Flags().GetString("tag")

			if _, err := exec.LookPath("git-chglog"); err != nil {
				slog.Error("git-chglog not found in PATH, install it with: go install github.com/git-chglog/git-chglog/cmd/git-chglog@latest")
				return fmt.Errorf("git-chglog not installed: %w", err)
			}

			chglogArgs := changelogArgs(next, output, tag)
			slog.Info("running git-chglog", "args", chglogArgs)
			gitChglog := exec.CommandContext(cmd.Context(), "git-chglog", chglogArgs...)
			gitChglog.Stdout = os.Stdout
			gitChglog.Stderr = os.Stderr
			if err := gitChglog.Run(); err != nil {
				return fmt.Errorf("failed to generate changelog: %w", err)
			}
			slog.Info("changelog generated", "output", chglogArgs[1])
			return nil
		},
	}

	cmd.Flags().String("next", "", "Next version tag (e.g., v0.2.0)")
	cmd.Flags().String("output", defaultChangelog, "Output file path")
	cmd.Flags().String("tag", "", "Generate changelog for specific tag")

	return cmd
}

// changelogArgs always starts with the output flag pair.
func changelogArgs(next, output, tag string) []string {
	if output == "" {
		output = defaultChangelog
	}
	args := []string{"--output", output}
	if next != "" {
		args = append(args, "--next-tag", next)
	}
	if tag != "" {
		args = append(args, tag)
	}
	return args
}
