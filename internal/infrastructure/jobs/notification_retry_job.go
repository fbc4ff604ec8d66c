package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"vendor-hub.backend/internal/config"
	"vendor-hub.backend/internal/domain/entities"
	"vendor-hub.backend/pkg/logger"
)

const retryBatchSize = 50

// deliverer redelivers one persisted outbox row
type deliverer interface {
	Deliver(ctx context.Context, n *entities.Notification)
}

// outboxStore is the slice of the notification repository the job needs
type outboxStore interface {
	ListPendingRetry(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Notification, error)
}

// NotificationRetryJob redelivers outbox rows whose last attempt failed or
// never happened. Rows touched within the retry window are left alone so a
// delivery in flight is not duplicated.
type NotificationRetryJob struct {
	repo      outboxStore
	deliverer deliverer
	interval  time.Duration
	window    time.Duration
	stop      chan struct{}
}

func NewNotificationRetryJob(repo outboxStore, d deliverer, cfg config.ModerationConfig) *NotificationRetryJob {
	return &NotificationRetryJob{
		repo:      repo,
		deliverer: d,
		interval:  cfg.NotifyRetryWindow,
		window:    cfg.NotifyRetryWindow,
		stop:      make(chan struct{}),
	}
}

func (j *NotificationRetryJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting notification retry job",
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "notification retry job stopped")
			return
		case <-j.stop:
			logger.Info(ctx, "notification retry job stopped")
			return
		case <-ticker.C:
			j.processOutbox(ctx)
		}
	}
}

func (j *NotificationRetryJob) Stop() {
	close(j.stop)
}

func (j *NotificationRetryJob) processOutbox(ctx context.Context) {
	pending, err := j.repo.ListPendingRetry(ctx, time.Now().Add(-j.window), retryBatchSize)
	if err != nil {
		logger.Error(ctx, "failed to list undelivered notifications", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	for _, n := range pending {
		j.deliverer.Deliver(ctx, n)
	}
	logger.Info(ctx, "notification retry batch done",
		zap.Int("retried", len(pending)))
}
