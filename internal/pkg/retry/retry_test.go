package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingSleeper struct {
	sleeps []time.Duration
}

func (s *recordingSleeper) sleep(d time.Duration) {
	s.sleeps = append(s.sleeps, d)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop().Sugar()
	sleeper := &recordingSleeper{}

	attempts := 0
	cfg := Config{MaxTries: 3, InitialSleep: time.Second, SleepFactor: 2, MaxSleep: 0}
	result := Do(cfg, logger, sleeper.sleep,
		func() int {
			attempts++
			if attempts < 3 {
				return 1
			}
			return 0
		},
		func(exitCode int) bool { return exitCode == 0 },
	)

	assert.Equal(t, 0, result)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.sleeps)
}

func TestDoGivesUpAfterMaxTries(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop().Sugar()
	sleeper := &recordingSleeper{}

	attempts := 0
	cfg := Config{MaxTries: 4, InitialSleep: time.Second, SleepFactor: 2, MaxSleep: 0}
	result := Do(cfg, logger, sleeper.sleep,
		func() int { attempts++; return 1 },
		func(exitCode int) bool { return exitCode == 0 },
	)

	// The executor runs exactly MaxTries times, no sleep after the final
	// attempt, and the last (failed) result is returned.
	assert.Equal(t, 1, result)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.sleeps)
}

func TestDoSingleTryNeverSleeps(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop().Sugar()
	sleeper := &recordingSleeper{}

	attempts := 0
	cfg := Config{MaxTries: 1, InitialSleep: time.Second, SleepFactor: 2, MaxSleep: time.Minute}
	Do(cfg, logger, sleeper.sleep,
		func() int { attempts++; return 1 },
		func(exitCode int) bool { return exitCode == 0 },
	)

	assert.Equal(t, 1, attempts)
	assert.Empty(t, sleeper.sleeps)
}

func TestDoMaxSleepCapsEverySleep(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop().Sugar()
	sleeper := &recordingSleeper{}

	cfg := Config{MaxTries: 5, InitialSleep: time.Second, SleepFactor: 3, MaxSleep: 5 * time.Second}
	Do(cfg, logger, sleeper.sleep,
		func() int { return 1 },
		func(exitCode int) bool { return exitCode == 0 },
	)

	assert.Equal(t, []time.Duration{
		time.Second,
		3 * time.Second,
		5 * time.Second,
		5 * time.Second,
	}, sleeper.sleeps)
}

func TestDoSuccessOnFirstAttempt(t *testing.T) {
	t.Parallel()
	logger := zap.NewNop().Sugar()
	sleeper := &recordingSleeper{}

	cfg := Config{MaxTries: 10, InitialSleep: time.Second, SleepFactor: 2, MaxSleep: 0}
	result := Do(cfg, logger, sleeper.sleep,
		func() string { return "ok" },
		func(out string) bool { return out == "ok" },
	)

	assert.Equal(t, "ok", result)
	assert.Empty(t, sleeper.sleeps)
}
