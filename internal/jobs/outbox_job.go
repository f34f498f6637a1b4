package jobs

import (
	"context"
	"time"

	"github.com/adipala-ubp/surat-izin/internal/domain"
	"go.uber.org/zap"
)

// OutboxJobName is the scheduler name of the outbox redelivery job
const OutboxJobName = "outbox_dispatch"

// OutboxDispatcher delivers queued outbox events. Implemented by service.OutboxService.
type OutboxDispatcher interface {
	DispatchPending(ctx context.Context, batchSize int) (*domain.OutboxDispatchResultDTO, error)
}

// OutboxJob retries notifications and audit entries whose delivery after commit failed
type OutboxJob struct {
	dispatcher OutboxDispatcher
	batchSize  int
	logger     *zap.Logger
}

// NewOutboxJob creates a new outbox redelivery job
func NewOutboxJob(dispatcher OutboxDispatcher, batchSize int, logger *zap.Logger) *OutboxJob {
	if batchSize < 1 {
		batchSize = 100
	}
	return &OutboxJob{
		dispatcher: dispatcher,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Run performs one delivery pass
func (j *OutboxJob) Run(ctx context.Context) {
	start := time.Now()
	result, err := j.dispatcher.DispatchPending(ctx, j.batchSize)
	if err != nil {
		j.logger.Error("outbox dispatch failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if result.Delivered > 0 || result.Failed > 0 {
		j.logger.Info("outbox dispatch completed",
			zap.Int("delivered", result.Delivered),
			zap.Int("failed", result.Failed),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterOutboxJob schedules the redelivery job. When runOnStartup is set one pass
// runs in the background right away, picking up events left by a previous process.
func RegisterOutboxJob(scheduler *Scheduler, dispatcher OutboxDispatcher, logger *zap.Logger, cronExpr string, batchSize int, timeout time.Duration, runOnStartup bool) error {
	job := NewOutboxJob(dispatcher, batchSize, logger)
	if timeout <= 0 {
		timeout = time.Minute
	}

	if runOnStartup {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			job.Run(ctx)
		}()
	}

	return scheduler.AddJob(OutboxJobName, cronExpr, timeout, job.Run)
}
