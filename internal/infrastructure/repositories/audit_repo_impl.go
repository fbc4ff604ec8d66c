package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/infrastructure/models"
	"vendor-hub.backend/pkg/utils"
)

// AuditRepository implements the append-only moderation ledger
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one immutable ledger entry
func (r *AuditRepository) Append(ctx context.Context, entry *entities.AuditEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = utils.GenerateUUIDv7()
	}
	m := &models.AuditEntry{
		ID:             entry.ID,
		ActorID:        entry.ActorID,
		ActorName:      entry.ActorName,
		Action:         string(entry.Action),
		TargetID:       entry.TargetID,
		TargetName:     entry.TargetName,
		Notes:          entry.Notes.Ptr(),
		FromRiskReview: entry.FromRiskReview,
		CreatedAt:      entry.CreatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	entry.CreatedAt = m.CreatedAt
	return nil
}

// Query filters the ledger for the completed-tasks views
func (r *AuditRepository) Query(ctx context.Context, q entities.AuditQuery) ([]*entities.AuditEntry, int, error) {
	db := r.db.WithContext(ctx).Model(&models.AuditEntry{})
	if q.ActorID != nil {
		db = db.Where("actor_id = ?", *q.ActorID)
	}
	if q.TargetID != nil {
		db = db.Where("target_id = ?", *q.TargetID)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("created_at < ?", *q.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.AuditEntry
	find := db.Order("created_at DESC")
	if q.Limit > 0 {
		find = find.Limit(q.Limit).Offset(q.Offset)
	}
	if err := find.Find(&ms).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domainerrors.ErrNotFound
		}
		return nil, 0, err
	}

	entries := make([]*entities.AuditEntry, 0, len(ms))
	for i := range ms {
		m := ms[i]
		entries = append(entries, &entities.AuditEntry{
			ID:             m.ID,
			ActorID:        m.ActorID,
			ActorName:      m.ActorName,
			Action:         entities.AuditAction(m.Action),
			TargetID:       m.TargetID,
			TargetName:     m.TargetName,
			Notes:          null.StringFromPtr(m.Notes),
			FromRiskReview: m.FromRiskReview,
			CreatedAt:      m.CreatedAt,
		})
	}
	return entries, int(total), nil
}
