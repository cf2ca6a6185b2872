package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

type qualityTask struct {
	use   string
	short string
	run   func() error
}

var qualityTasks = []qualityTask{
	{"test", "Run unit tests", test.Test},
	{"lint", "Run linting", test.Lint},
	{"integration-test", "Run hardware-in-the-loop tests", test.Integ},
}

// QualityCmds returns the test, lint and integration-test commands.
func QualityCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, 0, len(qualityTasks))
	for _, task := range qualityTasks {
		cmds = append(cmds, &cobra.Command{
			Use:   task.use,
			Short: task.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := task.run(); err != nil {
					return fmt.Errorf("%s failed: %w", task.use, err)
				}
				return nil
			},
		})
	}
	return cmds
}
