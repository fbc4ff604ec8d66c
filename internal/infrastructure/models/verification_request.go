package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationRequest struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ProfileID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestedByID  uuid.UUID `gorm:"type:uuid;not null"`
	RequestMessage string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:varchar(50);not null;index"`
	UserResponse   *string   `gorm:"type:text"`
	UserFiles      *string   `gorm:"type:jsonb"` // serialized []entities.UserFile
	RespondedAt    *time.Time
	CreatedAt      time.Time
}
