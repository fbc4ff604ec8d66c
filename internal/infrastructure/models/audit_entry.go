package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry rows are append-only; there is no UpdatedAt or DeletedAt on
// purpose.
type AuditEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorName      string    `gorm:"type:varchar(100);not null"`
	Action         string    `gorm:"type:varchar(50);not null;index"`
	TargetID       uuid.UUID `gorm:"type:uuid;not null;index"`
	TargetName     string    `gorm:"type:varchar(100);not null"`
	Notes          *string   `gorm:"type:text"`
	FromRiskReview bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"index"`
}
