package usecases

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vendor-hub.backend/internal/domain/entities"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/logger"
	"vendor-hub.backend/pkg/metrics"
)

// NotificationSink delivers user-visible moderation events. Delivery is
// fire-and-forget: a transition never fails because its notification did.
type NotificationSink interface {
	Notify(ctx context.Context, userID uuid.UUID, ntype entities.NotificationType, title, message string, referenceID *uuid.UUID)
}

// NotificationDispatcher pushes one notification to the external sink
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n *entities.Notification) error
}

// NotifierUsecase persists every notification as an outbox row, then
// attempts delivery. Failed rows stay in the outbox for the retry job.
type NotifierUsecase struct {
	notificationRepo repositories.NotificationRepository
	dispatcher       NotificationDispatcher
}

// NewNotifierUsecase creates a new notifier usecase
func NewNotifierUsecase(
	notificationRepo repositories.NotificationRepository,
	dispatcher NotificationDispatcher,
) *NotifierUsecase {
	return &NotifierUsecase{
		notificationRepo: notificationRepo,
		dispatcher:       dispatcher,
	}
}

// Notify records and attempts delivery of one notification. Errors are
// logged, never returned: the calling transition has already committed.
func (u *NotifierUsecase) Notify(ctx context.Context, userID uuid.UUID, ntype entities.NotificationType, title, message string, referenceID *uuid.UUID) {
	n := &entities.Notification{
		UserID:      userID,
		Type:        ntype,
		Title:       title,
		Message:     message,
		ReferenceID: referenceID,
	}
	if err := u.notificationRepo.Create(ctx, n); err != nil {
		logger.Error(ctx, "failed to persist notification",
			zap.String("user_id", userID.String()),
			zap.String("type", string(ntype)),
			zap.Error(err))
		return
	}
	u.Deliver(ctx, n)
}

// Deliver attempts one delivery of a persisted outbox row and records the
// outcome. Shared with the retry job.
func (u *NotifierUsecase) Deliver(ctx context.Context, n *entities.Notification) {
	if err := u.dispatcher.Dispatch(ctx, n); err != nil {
		metrics.NotificationDeliveries.WithLabelValues("failed").Inc()
		logger.Warn(ctx, "notification delivery failed",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err))
		if markErr := u.notificationRepo.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
			logger.Error(ctx, "failed to record delivery failure",
				zap.String("notification_id", n.ID.String()),
				zap.Error(markErr))
		}
		return
	}
	metrics.NotificationDeliveries.WithLabelValues("delivered").Inc()
	if err := u.notificationRepo.MarkDelivered(ctx, n.ID); err != nil {
		logger.Error(ctx, "failed to record delivery",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err))
	}
}

// ListForUser returns a user's notifications, newest first
func (u *NotifierUsecase) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int, error) {
	return u.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

// MarkRead stamps a notification as read by its owner
func (u *NotifierUsecase) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return u.notificationRepo.MarkRead(ctx, id, userID)
}
