package cli

import (
	"github.com/spf13/cobra"

	"github.com/cassandra-tools/range-repair/internal/pkg/nodetool"
	"github.com/cassandra-tools/range-repair/internal/pkg/repair"
	"github.com/cassandra-tools/range-repair/internal/pkg/status"
)

// resumeCommand re-runs the failed ranges of a previous run. The process
// exit code is the number of ranges that failed again, zero means full
// success.
func resumeCommand(root *rootCommand) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <status-file>",
		Short: "Re-run the failed ranges recorded in a status file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, err := status.Load(root.fs, root.clock, args[0])
			if err != nil {
				return err
			}

			runner := nodetool.NewRunner(root.logger)
			resumer := repair.NewResumer(root.logger, runner, ledger)
			numFailed, err := resumer.Run(root.ctx)
			if err != nil {
				return err
			}
			root.exitCode = numFailed
			return nil
		},
	}
}
