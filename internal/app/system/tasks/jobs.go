// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Job is a named unit of periodic background work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// LimiterSweepJob drops rate-limit buckets whose window has passed, so the
// limiter does not grow with every client address it has ever seen.
func LimiterSweepJob(l *ratelimit.Limiter, window time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "signup-limiter-sweep",
		Interval: 2 * window,
		Run: func(ctx context.Context) error {
			if n := l.Sweep(); n > 0 {
				logger.Debug("swept rate-limit buckets", zap.Int("count", n))
			}
			return nil
		},
	}
}
