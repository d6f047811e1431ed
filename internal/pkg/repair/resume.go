package repair

import (
	"context"

	"go.uber.org/zap"

	"github.com/cassandra-tools/range-repair/internal/pkg/nodetool"
	"github.com/cassandra-tools/range-repair/internal/pkg/status"
)

// Resumer re-runs the failed entries of a previous run. Each stored
// command line is invoked verbatim, once, with no retry policy and no
// re-partitioning. Entries that fail again go back on the failed list.
type Resumer struct {
	logger *zap.SugaredLogger
	runner nodetool.Runner
	ledger *status.Ledger
}

func NewResumer(logger *zap.SugaredLogger, runner nodetool.Runner, ledger *status.Ledger) *Resumer {
	return &Resumer{logger: logger, runner: runner, ledger: ledger}
}

// Run returns the number of entries still failing afterwards; the caller
// uses it as the process exit code.
func (r *Resumer) Run(ctx context.Context) (int, error) {
	failed := r.ledger.FailedRepairs()
	if len(failed) == 0 {
		r.logger.Info("No failed repair ranges to run")
		if err := r.ledger.Finish(); err != nil {
			return 0, err
		}
		return 0, nil
	}

	if err := r.ledger.Reopen(); err != nil {
		return 0, err
	}
	r.logger.Infof("> Attempting to repair %d failed ranges", len(failed))

	for _, entry := range failed {
		stamped, err := r.ledger.RetryStart(entry)
		if err != nil {
			return 0, err
		}

		result := r.runner.Run(ctx, stamped.Cmd)
		if result.Success {
			if err := r.ledger.RetrySuccess(); err != nil {
				return 0, err
			}
			r.logger.Infof("Successfully repaired %s", stamped.Cmd)
		} else {
			if err := r.ledger.RetryFail(stamped); err != nil {
				return 0, err
			}
			r.logger.Errorf("Failed again to repair %s", stamped.Cmd)
			r.logger.Error(result.Stderr)
		}
	}

	if err := r.ledger.Finish(); err != nil {
		return 0, err
	}
	r.logger.Info("Finished repairing failed ranges")
	return r.ledger.FailedCount(), nil
}
