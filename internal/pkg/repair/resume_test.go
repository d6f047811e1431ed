package repair

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cassandra-tools/range-repair/internal/pkg/status"
)

func seededLedger(t *testing.T, failedCmds ...string) *status.Ledger {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2017, 4, 26, 0, 0, 0, 0, time.UTC))
	ledger := status.NewLedger(afero.NewMemMapFs(), clock, "status.json")
	require.NoError(t, ledger.Start())
	for i, cmd := range failedCmds {
		step := status.NewStep(clock.Now(), cmd, i+1, "+001", "+002", "1/1", "events", nil)
		require.NoError(t, ledger.RepairFail(step))
	}
	require.NoError(t, ledger.Finish())
	return ledger
}

func TestResumerNoFailedEntries(t *testing.T) {
	t.Parallel()
	ledger := seededLedger(t)
	runner := &fakeRunner{}
	resumer := NewResumer(zap.NewNop().Sugar(), runner, ledger)

	count, err := resumer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, runner.commands())
	require.NotNil(t, ledger.Document().Finished)
}

func TestResumerRerunsStoredCommandsVerbatim(t *testing.T) {
	t.Parallel()
	ledger := seededLedger(t, "nodetool repair a -st +001 -et +002", "nodetool repair b -st +002 -et +003")
	runner := &fakeRunner{}
	resumer := NewResumer(zap.NewNop().Sugar(), runner, ledger)

	count, err := resumer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, []string{
		"nodetool repair a -st +001 -et +002",
		"nodetool repair b -st +002 -et +003",
	}, runner.commands())
	assert.Equal(t, 2, ledger.SuccessfulCount())
	assert.Equal(t, 0, ledger.FailedCount())
	assert.Empty(t, ledger.FailedRepairs())
	require.NotNil(t, ledger.Document().Finished)
}

func TestResumerKeepsEntriesThatFailAgain(t *testing.T) {
	t.Parallel()
	ledger := seededLedger(t, "nodetool repair a -st +001 -et +002", "nodetool repair b -st +002 -et +003")
	runner := &fakeRunner{fail: func(cmd string) bool { return strings.Contains(cmd, "repair b") }}
	resumer := NewResumer(zap.NewNop().Sugar(), runner, ledger)

	count, err := resumer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, ledger.SuccessfulCount())
	assert.Equal(t, 1, ledger.FailedCount())

	failed := ledger.FailedRepairs()
	require.Len(t, failed, 1)
	assert.Equal(t, "nodetool repair b -st +002 -et +003", failed[0].Cmd)
	require.NotNil(t, ledger.Document().Finished)
}

func TestResumerIsRepeatable(t *testing.T) {
	t.Parallel()
	ledger := seededLedger(t, "nodetool repair a -st +001 -et +002")
	runner := &fakeRunner{fail: func(string) bool { return true }}
	resumer := NewResumer(zap.NewNop().Sugar(), runner, ledger)

	count, err := resumer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A second pass sees the same failed entry again.
	count, err = resumer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, runner.commands(), 2)
}
