package repositories

import (
	"context"
	"encoding/json"
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

// VerificationRepository implements verification request data operations
type VerificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new verification repository
func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// Create opens a new verification cycle
func (r *VerificationRepository) Create(ctx context.Context, req *entities.VerificationRequest) error {
	if req.ID == uuid.Nil {
		req.ID = utils.GenerateUUIDv7()
	}
	if req.Status == "" {
		req.Status = entities.VerificationWaitingForUser
	}
	m := &models.VerificationRequest{
		ID:             req.ID,
		ProfileID:      req.ProfileID,
		RequestedByID:  req.RequestedByID,
		RequestMessage: req.RequestMessage,
		Status:         string(req.Status),
		CreatedAt:      req.CreatedAt,
	}
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	req.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a verification request by ID
func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationRequest, error) {
	var m models.VerificationRequest
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetLatestByProfile returns the current verification cycle for a profile
func (r *VerificationRepository) GetLatestByProfile(ctx context.Context, profileID uuid.UUID) (*entities.VerificationRequest, error) {
	var m models.VerificationRequest
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// MarkResponded records the user's answer, guarded on the request still
// waiting for the user
func (r *VerificationRepository) MarkResponded(ctx context.Context, id uuid.UUID, response string, files []entities.UserFile) error {
	var filesJSON interface{}
	if len(files) > 0 {
		raw, err := json.Marshal(files)
		if err != nil {
			return err
		}
		filesJSON = string(raw)
	}
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Where("id = ?", id).
		Where("status = ?", string(entities.VerificationWaitingForUser)).
		Updates(map[string]interface{}{
			"status":        string(entities.VerificationUserResponded),
			"user_response": response,
			"user_files":    filesJSON,
			"responded_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.WithContext(ctx).Model(&models.VerificationRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrPreconditionFailed
	}
	return nil
}

// ListByProfile returns every verification cycle for a profile, newest first
func (r *VerificationRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*entities.VerificationRequest, error) {
	var ms []models.VerificationRequest
	db := GetDB(ctx, r.db)
	err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entities.VerificationRequest, 0, len(ms))
	for i := range ms {
		out = append(out, r.toEntity(&ms[i]))
	}
	return out, nil
}

// DeleteByProfile removes all verification cycles for a profile during purge
func (r *VerificationRepository) DeleteByProfile(ctx context.Context, profileID uuid.UUID) error {
	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.VerificationRequest{}).Error
}

func (r *VerificationRepository) toEntity(m *models.VerificationRequest) *entities.VerificationRequest {
	req := &entities.VerificationRequest{
		ID:             m.ID,
		ProfileID:      m.ProfileID,
		RequestedByID:  m.RequestedByID,
		RequestMessage: m.RequestMessage,
		Status:         entities.VerificationStatus(m.Status),
		UserResponse:   null.StringFromPtr(m.UserResponse),
		RespondedAt:    m.RespondedAt,
		CreatedAt:      m.CreatedAt,
	}
	if m.UserFiles != nil && *m.UserFiles != "" {
		var files []entities.UserFile
		if err := json.Unmarshal([]byte(*m.UserFiles), &files); err == nil {
			req.UserFiles = files
		}
	}
	return req
}
