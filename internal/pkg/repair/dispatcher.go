package repair

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/keboola/go-utils/pkg/orderedmap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cassandra-tools/range-repair/internal/pkg/nodetool"
	"github.com/cassandra-tools/range-repair/internal/pkg/options"
	"github.com/cassandra-tools/range-repair/internal/pkg/retry"
	"github.com/cassandra-tools/range-repair/internal/pkg/status"
	"github.com/cassandra-tools/range-repair/internal/pkg/token"
)

// KeyspaceEnumerator lists all keyspaces with their column families. The
// dispatcher calls it lazily, only when a keyspace-qualified exclusion is
// hit on a run that covers all keyspaces.
type KeyspaceEnumerator interface {
	Keyspaces(ctx context.Context) (*orderedmap.OrderedMap, error)
}

// Config is the repair plan: what to repair and how to split and pace it.
type Config struct {
	Keyspace       string
	ColumnFamilies []string
	Steps          int
	Workers        int
	Local          bool
	Incremental    bool
	Snapshot       bool
	DryRun         bool
	Offset         options.Offset
	Exclude        *options.ExcludeStep
	Retry          retry.Config
}

// Dependencies of the dispatcher, injected so tests can fake the runner,
// the clock and the sleeper.
type Dependencies struct {
	Ring      *token.Ring
	Tool      nodetool.Tool
	Runner    nodetool.Runner
	Keyspaces KeyspaceEnumerator
	Ledger    *status.Ledger
	Logger    *zap.SugaredLogger
	Clock     clockwork.Clock
	Sleeper   retry.Sleeper
	Stdout    io.Writer
}

// Dispatcher walks the owned token ranges and dispatches one repair task
// per sub-range to a bounded worker pool.
type Dispatcher struct {
	cfg  Config
	deps Dependencies
}

func NewDispatcher(cfg Config, deps Dependencies) *Dispatcher {
	return &Dispatcher{cfg: cfg, deps: deps}
}

// Run executes the whole repair plan. Failed repair commands are recorded
// and logged but never abort the run; a keyspace enumeration failure does,
// there is no correct way to continue without the keyspace list.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.deps.Ledger.Start(); err != nil {
		return err
	}

	owned := d.deps.Ring.Owned()
	total := len(owned)
	for i, end := range owned {
		position := fmt.Sprintf("%d/%d", i+1, total)
		if d.cfg.Offset.Node != 0 && i < d.cfg.Offset.Node-1 {
			d.deps.Logger.Infof("[%s] skipping token..", position)
			continue
		}

		start := d.deps.Ring.PrecedingToken(end)
		d.deps.Logger.Infof(
			"[%s] repairing range (%s, %s) in %d steps for keyspace %s",
			position, d.deps.Ring.Format(start), d.deps.Ring.Format(end), d.cfg.Steps, orAll(d.cfg.Keyspace),
		)

		grp, grpCtx := errgroup.WithContext(ctx)
		grp.SetLimit(d.cfg.Workers)
		partitioner := d.deps.Ring.Partition(start, end, d.cfg.Steps)
		for partitioner.Next() {
			subRange := partitioner.SubRange()
			grp.Go(func() error {
				return d.repairSubRange(grpCtx, subRange, position)
			})
		}
		if err := grp.Wait(); err != nil {
			return err
		}
	}

	return d.deps.Ledger.Finish()
}
