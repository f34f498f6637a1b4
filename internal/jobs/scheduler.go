// Package jobs runs background work for the permit API on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Func is one scheduled run. The context is cancelled when the run exceeds its
// timeout.
type Func func(ctx context.Context)

// Scheduler manages background jobs using cron scheduling.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
	jobs   map[string]cron.EntryID
}

// NewScheduler creates a scheduler whose expressions carry a seconds field.
// Overlapping runs of the same job are skipped and panics are recovered.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Start starts the scheduler. Jobs added before this call will begin running.
func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Int("jobs", len(s.JobNames())))
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers job under name. Examples of cronExpr:
//   - "0 * * * * *" - every minute, on the minute
//   - "*/15 * * * * *" - every 15 seconds
//   - "@every 30s"
func (s *Scheduler) AddJob(name, cronExpr string, timeout time.Duration, job Func) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.run(name, timeout, job)
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("cron_expr", cronExpr))

	return nil
}

// RemoveJob removes a job by name.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.cron.Remove(entryID)
	delete(s.jobs, name)

	s.logger.Info("removed scheduled job", zap.String("job_name", name))
	return nil
}

// JobNames returns the registered job names in sorted order.
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scheduler) run(name string, timeout time.Duration, job Func) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	job(ctx)
	s.logger.Debug("completed scheduled job",
		zap.String("job_name", name),
		zap.Duration("duration", time.Since(start)))
}
