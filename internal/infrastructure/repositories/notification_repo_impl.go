package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/infrastructure/models"
	"vendor-hub.backend/pkg/utils"
)

// NotificationRepository implements the notification outbox
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create persists an outbox row in PENDING state
func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	if n.Status == "" {
		n.Status = entities.DeliveryPending
	}
	m := &models.Notification{
		ID:          n.ID,
		UserID:      n.UserID,
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		ReferenceID: n.ReferenceID,
		Status:      string(n.Status),
		Attempts:    n.Attempts,
		CreatedAt:   n.CreatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	n.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error) {
	var m models.Notification
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// MarkDelivered records a successful delivery
func (r *NotificationRepository) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(entities.DeliveryDelivered),
			"delivered_at": time.Now(),
			"attempts":     gorm.Expr("attempts + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkFailed records a failed delivery attempt for later retry
func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(entities.DeliveryFailed),
			"last_error": lastError,
			"attempts":   gorm.Expr("attempts + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListPendingRetry returns undelivered rows whose last attempt is older
// than the backoff cutoff
func (r *NotificationRepository) ListPendingRetry(ctx context.Context, cutoff time.Time, limit int) ([]*entities.Notification, error) {
	var ms []models.Notification
	q := r.db.WithContext(ctx).
		Where("status IN ?", []string{string(entities.DeliveryPending), string(entities.DeliveryFailed)}).
		Where("updated_at < ?", cutoff).
		Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Notification, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

// ListByUser returns a user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Notification, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Notification
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*entities.Notification, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, int(total), nil
}

// MarkRead stamps the read time, scoped to the owning user
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// DeleteByUser removes a user's notifications during purge
func (r *NotificationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Notification{}).Error
}

func (r *NotificationRepository) toEntity(m *models.Notification) *entities.Notification {
	return &entities.Notification{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        entities.NotificationType(m.Type),
		Title:       m.Title,
		Message:     m.Message,
		ReferenceID: m.ReferenceID,
		Status:      entities.DeliveryStatus(m.Status),
		Attempts:    m.Attempts,
		LastError:   null.StringFromPtr(m.LastError),
		DeliveredAt: m.DeliveredAt,
		ReadAt:      m.ReadAt,
		CreatedAt:   m.CreatedAt,
	}
}
