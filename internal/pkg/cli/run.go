package cli

import (
	"github.com/spf13/cobra"

	"github.com/cassandra-tools/range-repair/internal/pkg/nodetool"
	"github.com/cassandra-tools/range-repair/internal/pkg/repair"
	"github.com/cassandra-tools/range-repair/internal/pkg/retry"
	"github.com/cassandra-tools/range-repair/internal/pkg/status"
	"github.com/cassandra-tools/range-repair/internal/pkg/token"
)

// runCommand repairs the token ranges owned by the target node.
func runCommand(root *rootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Repair the node's token ranges in small sub-range steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := root.options
			if err := opts.Validate(); err != nil {
				return err
			}

			tool := nodetool.Tool{
				Path:     opts.Nodetool,
				Host:     opts.Host,
				Port:     opts.Port,
				Username: opts.Username,
				Password: opts.Password,
			}
			runner := nodetool.NewRunner(root.logger)
			client := nodetool.NewClient(tool, runner, root.logger, opts.Datacenter)

			// Discover the ring, any failure here is fatal.
			localNodes, err := client.LocalNodes(root.ctx)
			if err != nil {
				return err
			}
			ringTokens, err := client.RingTokens(root.ctx, localNodes)
			if err != nil {
				return err
			}
			ownedTokens, err := client.OwnedTokens(root.ctx)
			if err != nil {
				return err
			}
			ring, err := token.NewRing(ringTokens, ownedTokens)
			if err != nil {
				return err
			}

			ledger := status.NewLedger(root.fs, root.clock, opts.OutputStatus)
			dispatcher := repair.NewDispatcher(
				repair.Config{
					Keyspace:       opts.Keyspace,
					ColumnFamilies: opts.ColumnFamilies,
					Steps:          opts.Steps,
					Workers:        opts.Workers,
					Local:          opts.Local,
					Incremental:    opts.Incremental,
					Snapshot:       opts.Snapshot,
					DryRun:         opts.DryRun,
					Offset:         opts.Offset,
					Exclude:        opts.Exclude,
					Retry:          opts.RetryConfig(),
				},
				repair.Dependencies{
					Ring:      ring,
					Tool:      tool,
					Runner:    runner,
					Keyspaces: client,
					Ledger:    ledger,
					Logger:    root.logger,
					Clock:     root.clock,
					Sleeper:   retry.RealSleeper(),
					Stdout:    cmd.OutOrStdout(),
				},
			)
			return dispatcher.Run(root.ctx)
		},
	}
	root.options.BindRunFlags(cmd.Flags())
	return cmd
}
