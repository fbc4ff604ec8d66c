package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName string    `gorm:"type:varchar(100);not null"`

	ApprovalStatus      string  `gorm:"type:varchar(50);not null;index"`
	RejectionReason     *string `gorm:"type:text"`
	ActionRequiredNotes *string `gorm:"type:text"`
	ApprovedByID        *uuid.UUID `gorm:"type:uuid"`
	ApprovedByName      *string    `gorm:"type:varchar(100)"`
	ApprovedAt          *time.Time
	RejectedByID        *uuid.UUID `gorm:"type:uuid"`
	RejectedByName      *string    `gorm:"type:varchar(100)"`
	RejectedAt          *time.Time

	Suspended        bool    `gorm:"not null;default:false;index"`
	SuspensionReason *string `gorm:"type:text"`

	AppealStatus       string  `gorm:"type:varchar(50);not null;default:'NONE'"`
	AppealMessage      *string `gorm:"type:text"`
	AppealSubmittedAt  *time.Time
	AppealDenialReason *string `gorm:"type:text"`

	NeedsRiskReview bool    `gorm:"not null;default:false;index"`
	RiskAssessment  *string `gorm:"type:jsonb"` // serialized entities.RiskAssessment
	RiskAssessedAt  *time.Time

	ApprovalOwnerID   *uuid.UUID `gorm:"type:uuid;index"`
	ApprovalOwnerName *string    `gorm:"type:varchar(100)"`
	RiskOwnerID       *uuid.UUID `gorm:"type:uuid;index"`
	RiskOwnerName     *string    `gorm:"type:varchar(100)"`

	EscalatedTo       *uuid.UUID `gorm:"type:uuid;index"`
	EscalatedCategory *string    `gorm:"type:varchar(50)"`
	EscalatedByID     *uuid.UUID `gorm:"type:uuid"`
	EscalatedByName   *string    `gorm:"type:varchar(100)"`
	EscalationReason  *string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
