package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ApprovalStatus represents a profile's progress through initial vetting
type ApprovalStatus string

const (
	ApprovalStatusPending           ApprovalStatus = "PENDING"
	ApprovalStatusActionRequired    ApprovalStatus = "ACTION_REQUIRED"
	ApprovalStatusUserSubmittedInfo ApprovalStatus = "USER_SUBMITTED_INFO"
	ApprovalStatusApproved          ApprovalStatus = "APPROVED"
	ApprovalStatusRejected          ApprovalStatus = "REJECTED"
)

// AppealStatus represents the state of a user-initiated appeal
type AppealStatus string

const (
	AppealStatusNone     AppealStatus = "NONE"
	AppealStatusPending  AppealStatus = "PENDING"
	AppealStatusApproved AppealStatus = "APPROVED"
	AppealStatusDenied   AppealStatus = "DENIED"
)

// TaskCategory identifies which ownership slot a moderation task uses
type TaskCategory string

const (
	TaskCategoryApproval TaskCategory = "APPROVAL"
	TaskCategoryRisk     TaskCategory = "RISK"
)

// EffectiveStatus is the single user-facing status computed from all
// four state dimensions
type EffectiveStatus string

const (
	EffectiveStatusSuspended    EffectiveStatus = "SUSPENDED"
	EffectiveStatusActive       EffectiveStatus = "ACTIVE"
	EffectiveStatusRejected     EffectiveStatus = "REJECTED"
	EffectiveStatusUnderAppeal  EffectiveStatus = "UNDER_APPEAL"
	EffectiveStatusInReview     EffectiveStatus = "IN_REVIEW"
	EffectiveStatusNeedsInfo    EffectiveStatus = "NEEDS_INFO"
)

// RiskAssessment holds the verdict produced by the external scoring service
type RiskAssessment struct {
	Score      int      `json:"score"`
	Label      string   `json:"label"`
	Summary    string   `json:"summary"`
	GreenFlags []string `json:"greenFlags"`
	RedFlags   []string `json:"redFlags"`
}

// Profile represents a vendor profile under moderation
type Profile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OwnerUserID uuid.UUID `json:"ownerUserId"`
	DisplayName string    `json:"displayName"`

	// Approval dimension
	ApprovalStatus      ApprovalStatus `json:"approvalStatus"`
	RejectionReason     null.String    `json:"rejectionReason,omitempty"`
	ActionRequiredNotes null.String    `json:"actionRequiredNotes,omitempty"`
	ApprovedByID        *uuid.UUID     `json:"approvedById,omitempty"`
	ApprovedByName      null.String    `json:"approvedByName,omitempty"`
	ApprovedAt          *time.Time     `json:"approvedAt,omitempty"`
	RejectedByID        *uuid.UUID     `json:"rejectedById,omitempty"`
	RejectedByName      null.String    `json:"rejectedByName,omitempty"`
	RejectedAt          *time.Time     `json:"rejectedAt,omitempty"`

	// Suspension dimension, orthogonal to approval
	Suspended        bool        `json:"suspended"`
	SuspensionReason null.String `json:"suspensionReason,omitempty"`

	// Appeal dimension, only meaningful when rejected or suspended
	AppealStatus       AppealStatus `json:"appealStatus"`
	AppealMessage      null.String  `json:"appealMessage,omitempty"`
	AppealSubmittedAt  *time.Time   `json:"appealSubmittedAt,omitempty"`
	AppealDenialReason null.String  `json:"appealDenialReason,omitempty"`

	// Risk dimension, independent of the other three
	NeedsRiskReview bool            `json:"needsRiskReview"`
	RiskAssessment  *RiskAssessment `json:"riskAssessment,omitempty" gorm:"-"`
	RiskAssessedAt  *time.Time      `json:"riskAssessedAt,omitempty"`

	// Ownership slots, at most one non-null owner per task category
	ApprovalOwnerID   *uuid.UUID  `json:"approvalOwnerId,omitempty"`
	ApprovalOwnerName null.String `json:"approvalOwnerName,omitempty"`
	RiskOwnerID       *uuid.UUID  `json:"riskOwnerId,omitempty"`
	RiskOwnerName     null.String `json:"riskOwnerName,omitempty"`

	// Escalation metadata, tied to the escalated task category
	EscalatedTo       *uuid.UUID    `json:"escalatedTo,omitempty"`
	EscalatedCategory *TaskCategory `json:"escalatedCategory,omitempty"`
	EscalatedByID     *uuid.UUID    `json:"escalatedById,omitempty"`
	EscalatedByName   null.String   `json:"escalatedByName,omitempty"`
	EscalationReason  null.String   `json:"escalationReason,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}

// Effective computes the user-facing status from the four state dimensions.
// Suspension overrides everything; appeal state is only visible while the
// profile is rejected or suspended.
func (p *Profile) Effective() EffectiveStatus {
	if p.Suspended {
		if p.AppealStatus == AppealStatusPending {
			return EffectiveStatusUnderAppeal
		}
		return EffectiveStatusSuspended
	}
	switch p.ApprovalStatus {
	case ApprovalStatusApproved:
		return EffectiveStatusActive
	case ApprovalStatusRejected:
		if p.AppealStatus == AppealStatusPending {
			return EffectiveStatusUnderAppeal
		}
		return EffectiveStatusRejected
	case ApprovalStatusActionRequired:
		return EffectiveStatusNeedsInfo
	default:
		return EffectiveStatusInReview
	}
}

// AppealEligible reports whether the profile can accept a new appeal
func (p *Profile) AppealEligible() bool {
	if p.AppealStatus != AppealStatusNone {
		return false
	}
	return p.ApprovalStatus == ApprovalStatusRejected || p.Suspended
}

// OwnerID returns the owner slot for a task category
func (p *Profile) OwnerID(category TaskCategory) *uuid.UUID {
	if category == TaskCategoryRisk {
		return p.RiskOwnerID
	}
	return p.ApprovalOwnerID
}

// Actor identifies the person performing a moderation operation
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role UserRole  `json:"role"`
}

// CreateProfileInput represents input for submitting a vendor profile
type CreateProfileInput struct {
	DisplayName string `json:"displayName" binding:"required,min=2,max=100"`
}

// RejectInput carries the required rejection reason
type RejectInput struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestInfoInput carries the note sent back to the profile owner
type RequestInfoInput struct {
	Notes string `json:"notes" binding:"required"`
}

// SuspendInput carries the required suspension reason
type SuspendInput struct {
	Reason string `json:"reason" binding:"required"`
}

// EscalateInput carries the reason a task is routed to the manager
type EscalateInput struct {
	Reason string `json:"reason" binding:"required"`
}

// ResolveEscalationInput carries the manager's resolution note
type ResolveEscalationInput struct {
	Note string `json:"note" binding:"required"`
}

// SubmitAppealInput carries the user's appeal message
type SubmitAppealInput struct {
	Message string `json:"message" binding:"required"`
}

// DenyAppealInput carries the required denial reason
type DenyAppealInput struct {
	Reason string `json:"reason" binding:"required"`
}

// ProfileSnapshot is the authoritative post-transition view returned by
// every engine operation, so callers never need an ambient refresh
type ProfileSnapshot struct {
	Profile         *Profile        `json:"profile"`
	EffectiveStatus EffectiveStatus `json:"effectiveStatus"`
}

// NewSnapshot builds a snapshot from a freshly loaded profile
func NewSnapshot(p *Profile) *ProfileSnapshot {
	return &ProfileSnapshot{Profile: p, EffectiveStatus: p.Effective()}
}
