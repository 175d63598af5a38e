// internal/app/system/workers/runner.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/teamstats/internal/app/system/tasks"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 30 * time.Second

// Runner executes each registered job on its own ticker until stopped.
type Runner struct {
	jobs   []tasks.Job
	clock  clockwork.Clock
	log    *zap.Logger
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewRunner creates a runner for jobs. A nil clock means the real clock.
func NewRunner(clock clockwork.Clock, logger *zap.Logger, jobs ...tasks.Job) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{
		jobs:   jobs,
		clock:  clock,
		log:    logger,
		stopCh: make(chan struct{}),
	}
}

// Start launches one goroutine per job. Jobs with a non-positive interval
// are skipped.
func (w *Runner) Start() {
	for _, job := range w.jobs {
		if job.Interval <= 0 {
			w.log.Warn("background job has no interval; not scheduled", zap.String("job", job.Name))
			continue
		}
		w.wg.Add(1)
		go w.run(job)
		w.log.Info("background job started",
			zap.String("job", job.Name),
			zap.Duration("interval", job.Interval))
	}
}

// Stop signals every job to stop and waits for in-flight runs to finish.
// It is safe to call more than once.
func (w *Runner) Stop() {
	w.once.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("background jobs stopped")
	})
}

func (w *Runner) run(job tasks.Job) {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.Chan():
			w.runOnce(job)
		}
	}
}

func (w *Runner) runOnce(job tasks.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := job.Run(ctx); err != nil {
		w.log.Error("background job failed", zap.String("job", job.Name), zap.Error(err))
	}
}
