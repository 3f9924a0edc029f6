// Package jobs schedules the periodic maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sachpatra/internal/metrics"
	"go.uber.org/zap"
)

const jobTimeout = 5 * time.Minute

// Backfiller repairs article rows written by older releases.
type Backfiller interface {
	BackfillDefaults(ctx context.Context) (int64, error)
}

// Refresher reloads a cached snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Schedule holds the cron expressions.
type Schedule struct {
	Tabs     string
	Backfill string
}

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New registers the jobs. An empty expression disables that job.
func New(schedule Schedule, articles Backfiller, tabs Refresher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{cron: cron.New(), logger: logger}

	if schedule.Tabs != "" {
		if _, err := s.cron.AddFunc(schedule.Tabs, s.wrap("tabs", func(ctx context.Context) error {
			return tabs.Refresh(ctx)
		})); err != nil {
			return nil, fmt.Errorf("schedule tabs job: %w", err)
		}
	}
	if schedule.Backfill != "" {
		if _, err := s.cron.AddFunc(schedule.Backfill, s.wrap("backfill", func(ctx context.Context) error {
			n, err := articles.BackfillDefaults(ctx)
			if err == nil && n > 0 {
				logger.Info("article defaults backfilled", zap.Int64("rows", n))
			}
			return err
		})); err != nil {
			return nil, fmt.Errorf("schedule backfill job: %w", err)
		}
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Entries reports the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) wrap(name string, fn func(ctx context.Context) error) func() {
	return func() {
		s.run(name, fn)
	}
}

func (s *Scheduler) run(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		metrics.JobRuns.WithLabelValues(name, "error").Inc()
		s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	metrics.JobRuns.WithLabelValues(name, "ok").Inc()
	s.logger.Info("scheduled job completed", zap.String("job", name), zap.Duration("duration", time.Since(start)))
}
