package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
)

// NotificationRepository defines notification outbox operations
type NotificationRepository interface {
	Create(ctx context.Context, n *entities.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
	// ListPendingRetry returns failed or never-attempted rows older than
	// the backoff cutoff, capped at limit.
	ListPendingRetry(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
