package repair

import (
	"context"
	"fmt"

	"github.com/cassandra-tools/range-repair/internal/pkg/nodetool"
	"github.com/cassandra-tools/range-repair/internal/pkg/retry"
	"github.com/cassandra-tools/range-repair/internal/pkg/status"
	"github.com/cassandra-tools/range-repair/internal/pkg/token"
)

// repairSubRange is one worker task. It applies the exclusion policy and
// then repairs the sub-range, either as a whole or keyspace by keyspace.
func (d *Dispatcher) repairSubRange(ctx context.Context, subRange token.SubRange, position string) error {
	switch classify(d.cfg.Offset, d.cfg.Exclude, d.cfg.Keyspace, subRange.Step, nodeIndex(position)) {
	case SkipStep:
		d.deps.Logger.Debugf(
			"%s step %04d skipping range (%s, %s) for keyspace %s",
			position, subRange.Step, subRange.Start, subRange.End, orAll(d.cfg.Keyspace),
		)
		return nil
	case SkipKeyspaceOnly:
		return d.repairAroundExcluded(ctx, subRange, position)
	}
	return d.execute(ctx, subRange, position, d.cfg.Keyspace, d.cfg.ColumnFamilies)
}

// repairAroundExcluded runs one repair command per enumerated keyspace,
// leaving out the excluded keyspace, or repairing it without the excluded
// column family when one is named.
func (d *Dispatcher) repairAroundExcluded(ctx context.Context, subRange token.SubRange, position string) error {
	exclude := d.cfg.Exclude
	d.deps.Logger.Infof(
		"Running individual repair commands for each keyspace to exclude %s %s",
		exclude.Keyspace, exclude.ColumnFamily,
	)

	keyspaces, err := d.deps.Keyspaces.Keyspaces(ctx)
	if err != nil {
		return err
	}

	for _, keyspace := range keyspaces.Keys() {
		if keyspace == exclude.Keyspace {
			if exclude.ColumnFamily == "" {
				d.deps.Logger.Debugf(
					"%s step %04d skipping range (%s, %s) for keyspace %s",
					position, subRange.Step, subRange.Start, subRange.End, keyspace,
				)
				continue
			}
			d.deps.Logger.Infof(
				"Repairing all column families except %s for keyspace %s",
				exclude.ColumnFamily, keyspace,
			)
			value, _ := keyspaces.Get(keyspace)
			var families []string
			for _, family := range value.([]string) {
				if family != exclude.ColumnFamily {
					families = append(families, family)
				}
			}
			if err := d.execute(ctx, subRange, position, keyspace, families); err != nil {
				return err
			}
			continue
		}
		if err := d.execute(ctx, subRange, position, keyspace, d.cfg.ColumnFamilies); err != nil {
			return err
		}
	}
	return nil
}

// execute builds and runs one nodetool repair command, recording the
// outcome in the ledger. A failed command is logged and recorded, never
// returned as an error. Dry-run records an immediate success and prints
// the command instead of running it.
func (d *Dispatcher) execute(ctx context.Context, subRange token.SubRange, position, keyspace string, columnFamilies []string) error {
	d.deps.Logger.Debugf(
		"%s step %04d repairing range (%s, %s) for keyspace %s",
		position, subRange.Step, subRange.Start, subRange.End, orAll(keyspace),
	)

	cmd := d.deps.Tool.Repair(keyspace, columnFamilies, d.cfg.Local, d.cfg.Incremental, d.cfg.Snapshot, subRange.Start, subRange.End)
	step := status.NewStep(d.deps.Clock.Now(), cmd.String(), subRange.Step, subRange.Start, subRange.End, position, keyspace, columnFamilies)

	if err := d.deps.Ledger.RepairStart(step); err != nil {
		return err
	}

	if d.cfg.DryRun {
		if err := d.deps.Ledger.RepairSuccess(step); err != nil {
			return err
		}
		fmt.Fprintf(d.deps.Stdout, "%04d/%s %s\n", subRange.Step, position, cmd.String())
		return nil
	}

	result := retry.Do(
		d.cfg.Retry,
		d.deps.Logger,
		d.deps.Sleeper,
		func() nodetool.Result {
			return d.deps.Runner.Run(ctx, cmd.String())
		},
		func(r nodetool.Result) bool {
			return r.Success
		},
	)

	if !result.Success {
		if err := d.deps.Ledger.RepairFail(step); err != nil {
			return err
		}
		d.deps.Logger.Errorf("FAILED: %s step %04d %s", position, subRange.Step, cmd.String())
		d.deps.Logger.Error(result.Stderr)
		return nil
	}

	if err := d.deps.Ledger.RepairSuccess(step); err != nil {
		return err
	}
	d.deps.Logger.Debugf("%s step %04d complete", position, subRange.Step)
	return nil
}
