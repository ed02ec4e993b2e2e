// Package scheduler runs periodic background jobs such as HR reminders and
// expired-session cleanup.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job defines a periodic background task.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Schedule returns the interval between runs.
	Schedule() time.Duration

	// Run executes the job once. Implementations should honour ctx cancellation.
	Run(ctx context.Context) error
}

// Runner ticks every registered job on its own schedule. A job's runs never
// overlap: ticks that arrive while it is still running are dropped.
type Runner struct {
	jobs   []Job
	logger *slog.Logger
}

func NewRunner(logger *slog.Logger, jobs ...Job) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{jobs: jobs, logger: logger}
}

// Start blocks until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range r.jobs {
		g.Go(func() error {
			r.loop(gctx, job)
			return nil
		})
	}
	return g.Wait()
}

func (r *Runner) loop(ctx context.Context, job Job) {
	ticker := time.NewTicker(job.Schedule())
	defer ticker.Stop()

	r.logger.Info("scheduler: job registered", "job", job.Name(), "every", job.Schedule())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runOnce(ctx, job)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, job Job) {
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		r.logger.Error("scheduler: job failed", "job", job.Name(), "err", err)
		return
	}
	r.logger.Debug("scheduler: job finished", "job", job.Name(), "took", time.Since(start))
}
