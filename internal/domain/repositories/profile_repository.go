package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
)

// ApprovalTransition describes a guarded approval-dimension update. The
// repository applies it as a single conditional write: the update only
// lands if the profile is currently in one of FromStatuses and, when
// OwnerID is set, the actor still holds the approval slot. A take-over
// between the ownership check and the write therefore voids the write
// instead of letting the dispossessed moderator's decision land.
type ApprovalTransition struct {
	FromStatuses []entities.ApprovalStatus
	To           entities.ApprovalStatus
	OwnerID      *uuid.UUID
	Apply        map[string]interface{}
}

// ProfileRepository defines vendor profile data operations. Every mutator
// is a conditional update: it reports ErrPreconditionFailed (or
// ErrOwnershipConflict for Claim) by returning zero rows affected rather
// than reading then writing.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error)
	GetByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) (*entities.Profile, error)

	// Queue listings. Unassigned excludes owned and escalated tasks;
	// escalated tasks appear only in the escalation target's queue.
	ListUnassigned(ctx context.Context, category entities.TaskCategory, limit, offset int) ([]*entities.Profile, int, error)
	ListAssignedTo(ctx context.Context, category entities.TaskCategory, ownerID uuid.UUID, limit, offset int) ([]*entities.Profile, int, error)
	ListEscalatedTo(ctx context.Context, managerID uuid.UUID, limit, offset int) ([]*entities.Profile, int, error)

	// Ownership slot operations: claim competes, take-over preempts,
	// release returns the task to the pool.
	ClaimOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID, actor entities.Actor) error
	SetOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID, actor entities.Actor) error
	ReleaseOwner(ctx context.Context, category entities.TaskCategory, id uuid.UUID) error
	SetEscalation(ctx context.Context, category entities.TaskCategory, id uuid.UUID, manager, escalatedBy entities.Actor, reason string) error

	// Approval dimension
	ApplyApprovalTransition(ctx context.Context, id uuid.UUID, tr ApprovalTransition) error

	// Suspension dimension
	Suspend(ctx context.Context, id uuid.UUID, reason string) error
	Reinstate(ctx context.Context, id uuid.UUID) error

	// Appeal dimension
	SubmitAppeal(ctx context.Context, id uuid.UUID, message string) error
	ResolveAppeal(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, approved bool, denialReason string) error

	// Risk dimension
	SetRiskAssessment(ctx context.Context, id uuid.UUID, assessment *entities.RiskAssessment) error
	ClearRiskReview(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	ListAwaitingAssessment(ctx context.Context, limit int) ([]*entities.Profile, error)
	ListStaleAssessments(ctx context.Context, olderThan time.Time) ([]*entities.Profile, error)

	// Administrative purge support
	DeleteByOwnerUserID(ctx context.Context, ownerUserID uuid.UUID) error
}
