package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// AuditAction enumerates every moderation action recorded in the ledger
type AuditAction string

const (
	AuditProfileApproved   AuditAction = "PROFILE_APPROVED"
	AuditProfileRejected   AuditAction = "PROFILE_REJECTED"
	AuditActionRequired    AuditAction = "ACTION_REQUIRED"
	AuditUserSuspended     AuditAction = "USER_SUSPENDED"
	AuditUserReinstated    AuditAction = "USER_REINSTATED"
	AuditUserDeleted       AuditAction = "USER_DELETED"
	AuditAppealSubmitted   AuditAction = "APPEAL_SUBMITTED"
	AuditAppealApproved    AuditAction = "APPEAL_APPROVED"
	AuditAppealDenied      AuditAction = "APPEAL_DENIED"
	AuditInfoSubmitted     AuditAction = "USER_SUBMITTED_INFO"
	AuditProfileReviewed   AuditAction = "PROFILE_REVIEWED"
	AuditTaskEscalated     AuditAction = "TASK_ESCALATED"
	AuditRoleChanged       AuditAction = "ROLE_CHANGED"
)

// AuditEntry is an immutable record of a completed moderation action.
// Entries are only ever appended, never updated or deleted.
type AuditEntry struct {
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ActorID        uuid.UUID   `json:"actorId"`
	ActorName      string      `json:"actorName"`
	Action         AuditAction `json:"action"`
	TargetID       uuid.UUID   `json:"targetId"`
	TargetName     string      `json:"targetName"`
	Notes          null.String `json:"notes,omitempty"`
	FromRiskReview bool        `json:"fromRiskReview"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// AuditQuery filters the completed-tasks view
type AuditQuery struct {
	ActorID  *uuid.UUID
	TargetID *uuid.UUID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
