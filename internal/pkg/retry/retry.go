package retry

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Config mirrors the exponential backoff options. MaxSleep caps a single
// sleep; zero or negative disables the cap.
type Config struct {
	MaxTries     int
	InitialSleep time.Duration
	SleepFactor  float64
	MaxSleep     time.Duration
}

// Sleeper pauses for the given duration. Injectable so tests run without
// real delay.
type Sleeper func(time.Duration)

// RealSleeper sleeps on the wall clock.
func RealSleeper() Sleeper {
	return clockwork.NewRealClock().Sleep
}

func (c Config) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialSleep
	b.Multiplier = c.SleepFactor
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.MaxInterval = math.MaxInt64
	if c.MaxSleep > 0 {
		b.MaxInterval = c.MaxSleep
	}
	b.Reset()
	return b
}

// Do invokes execute up to MaxTries times, sleeping between failed attempts
// with exponentially growing pauses. The last result is returned regardless
// of final success, the caller inspects it. MaxTries of one disables
// retrying. Do knows nothing about what it retries.
func Do[T any](cfg Config, logger *zap.SugaredLogger, sleep Sleeper, execute func() T, succeeded func(T) bool) (result T) {
	b := cfg.newBackOff()
	for i := 0; i < cfg.MaxTries; i++ {
		result = execute()
		if succeeded(result) {
			return result
		}
		logger.Warn("Execution failed.")
		if i == cfg.MaxTries-1 {
			logger.Warn("Giving up execution. Failed too many times.")
			break
		}
		// No reason to sleep if we aren't about to retry.
		next := b.NextBackOff()
		if cfg.MaxSleep > 0 && next > cfg.MaxSleep {
			next = cfg.MaxSleep
		}
		logger.Infof("Sleeping %s until retrying again.", next)
		sleep(next)
	}
	return result
}
