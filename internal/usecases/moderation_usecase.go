package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/logger"
	"vendor-hub.backend/pkg/metrics"
)

// Statuses a moderator can still decide from. APPROVED and REJECTED are
// terminal for the approval dimension.
var decidableStatuses = []entities.ApprovalStatus{
	entities.ApprovalStatusPending,
	entities.ApprovalStatusActionRequired,
	entities.ApprovalStatusUserSubmittedInfo,
}

// ModerationUsecase applies approval-dimension transitions and the
// suspension operation. Every successful transition writes exactly one
// audit entry and one notification; a failed guard mutates nothing.
type ModerationUsecase struct {
	profileRepo      repositories.ProfileRepository
	auditRepo        repositories.AuditRepository
	verificationRepo repositories.VerificationRepository
	uow              repositories.UnitOfWork
	sink             NotificationSink
}

// NewModerationUsecase creates a new moderation usecase
func NewModerationUsecase(
	profileRepo repositories.ProfileRepository,
	auditRepo repositories.AuditRepository,
	verificationRepo repositories.VerificationRepository,
	uow repositories.UnitOfWork,
	sink NotificationSink,
) *ModerationUsecase {
	return &ModerationUsecase{
		profileRepo:      profileRepo,
		auditRepo:        auditRepo,
		verificationRepo: verificationRepo,
		uow:              uow,
		sink:             sink,
	}
}

// Approve moves the profile to APPROVED, clearing every trace of prior
// rejection and appeal cycles, and releases the approval task.
func (u *ModerationUsecase) Approve(ctx context.Context, profileID uuid.UUID, actor entities.Actor) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(profile, entities.TaskCategoryApproval, actor); err != nil {
		return nil, err
	}

	now := time.Now()
	tr := repositories.ApprovalTransition{
		FromStatuses: decidableStatuses,
		To:           entities.ApprovalStatusApproved,
		OwnerID:      &actor.ID,
		Apply: map[string]interface{}{
			"rejection_reason":      nil,
			"action_required_notes": nil,
			"appeal_status":         string(entities.AppealStatusNone),
			"appeal_message":        nil,
			"appeal_submitted_at":   nil,
			"appeal_denial_reason":  nil,
			"approved_by_id":        actor.ID,
			"approved_by_name":      actor.Name,
			"approved_at":           now,
			"approval_owner_id":     nil,
			"approval_owner_name":   nil,
		},
	}
	if err := u.profileRepo.ApplyApprovalTransition(ctx, profileID, tr); err != nil {
		return nil, err
	}
	metrics.ProfileTransitions.WithLabelValues(string(entities.ApprovalStatusApproved)).Inc()

	u.record(ctx, actor, entities.AuditProfileApproved, profile, "")
	u.sink.Notify(ctx, profile.OwnerUserID, entities.NotificationProfileApproved,
		"Profile approved", "Your vendor profile has been approved and is now live.", &profile.ID)

	return u.snapshot(ctx, profileID)
}

// Reject moves the profile to REJECTED with a required reason and releases
// the approval task
func (u *ModerationUsecase) Reject(ctx context.Context, profileID uuid.UUID, actor entities.Actor, reason string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.Validation("rejection reason is required")
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(profile, entities.TaskCategoryApproval, actor); err != nil {
		return nil, err
	}

	now := time.Now()
	tr := repositories.ApprovalTransition{
		FromStatuses: decidableStatuses,
		To:           entities.ApprovalStatusRejected,
		OwnerID:      &actor.ID,
		Apply: map[string]interface{}{
			"rejection_reason":    reason,
			"rejected_by_id":      actor.ID,
			"rejected_by_name":    actor.Name,
			"rejected_at":         now,
			"approval_owner_id":   nil,
			"approval_owner_name": nil,
		},
	}
	if err := u.profileRepo.ApplyApprovalTransition(ctx, profileID, tr); err != nil {
		return nil, err
	}
	metrics.ProfileTransitions.WithLabelValues(string(entities.ApprovalStatusRejected)).Inc()

	u.record(ctx, actor, entities.AuditProfileRejected, profile, reason)
	u.sink.Notify(ctx, profile.OwnerUserID, entities.NotificationProfileRejected,
		"Profile rejected", reason, &profile.ID)

	return u.snapshot(ctx, profileID)
}

// RequestInfo moves the profile to ACTION_REQUIRED and opens a verification
// cycle in the same transaction. The approval task leaves the pool until the
// user responds.
func (u *ModerationUsecase) RequestInfo(ctx context.Context, profileID uuid.UUID, actor entities.Actor, notes string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, domainerrors.Validation("a note describing the required information is required")
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(profile, entities.TaskCategoryApproval, actor); err != nil {
		return nil, err
	}

	tr := repositories.ApprovalTransition{
		FromStatuses: []entities.ApprovalStatus{
			entities.ApprovalStatusPending,
			entities.ApprovalStatusUserSubmittedInfo,
		},
		To:      entities.ApprovalStatusActionRequired,
		OwnerID: &actor.ID,
		Apply: map[string]interface{}{
			"action_required_notes": notes,
			"approval_owner_id":     nil,
			"approval_owner_name":   nil,
		},
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.profileRepo.ApplyApprovalTransition(txCtx, profileID, tr); err != nil {
			return err
		}
		return u.verificationRepo.Create(txCtx, &entities.VerificationRequest{
			ProfileID:      profileID,
			RequestedByID:  actor.ID,
			RequestMessage: notes,
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.ProfileTransitions.WithLabelValues(string(entities.ApprovalStatusActionRequired)).Inc()

	u.record(ctx, actor, entities.AuditActionRequired, profile, notes)
	u.sink.Notify(ctx, profile.OwnerUserID, entities.NotificationActionRequired,
		"More information needed", notes, &profile.ID)

	return u.snapshot(ctx, profileID)
}

// Suspend sets the suspension flag with a required reason. Orthogonal to
// the approval dimension: an approved profile stays approved underneath.
func (u *ModerationUsecase) Suspend(ctx context.Context, profileID uuid.UUID, actor entities.Actor, reason string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.Validation("suspension reason is required")
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := u.profileRepo.Suspend(ctx, profileID, reason); err != nil {
		return nil, err
	}

	u.record(ctx, actor, entities.AuditUserSuspended, profile, reason)
	u.sink.Notify(ctx, profile.OwnerUserID, entities.NotificationAccountSuspended,
		"Account suspended", reason, &profile.ID)

	return u.snapshot(ctx, profileID)
}

// record appends the audit entry for a committed transition. Audit failure
// is logged, never propagated: the transition already happened.
func (u *ModerationUsecase) record(ctx context.Context, actor entities.Actor, action entities.AuditAction, profile *entities.Profile, notes string) {
	entry := &entities.AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		TargetID:   profile.ID,
		TargetName: profile.DisplayName,
	}
	if notes != "" {
		entry.Notes.SetValid(notes)
	}
	if err := u.auditRepo.Append(ctx, entry); err != nil {
		logger.Error(ctx, "failed to append audit entry",
			zap.String("action", string(action)),
			zap.String("profile_id", profile.ID.String()),
			zap.Error(err))
	}
}

func (u *ModerationUsecase) snapshot(ctx context.Context, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(profile), nil
}

// requireOwner checks that the actor currently holds the ownership slot for
// the task category
func requireOwner(p *entities.Profile, category entities.TaskCategory, actor entities.Actor) error {
	ownerID := p.OwnerID(category)
	if ownerID == nil || *ownerID != actor.ID {
		return domainerrors.Precondition("you do not currently hold this task")
	}
	return nil
}
