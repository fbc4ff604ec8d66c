package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/logger"
)

// EscalationUsecase routes a task to the designated manager and delivers
// the manager's resolution note back to the escalating moderator
type EscalationUsecase struct {
	profileRepo repositories.ProfileRepository
	userRepo    repositories.UserRepository
	auditRepo   repositories.AuditRepository
	sink        NotificationSink
	managerID   uuid.UUID
}

// NewEscalationUsecase creates a new escalation usecase. A nil manager ID
// disables escalation.
func NewEscalationUsecase(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditRepository,
	sink NotificationSink,
	managerID uuid.UUID,
) *EscalationUsecase {
	return &EscalationUsecase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		sink:        sink,
		managerID:   managerID,
	}
}

// Escalate hands the actor's task to the manager with a required reason.
// The task disappears from the pool and the actor's queue, and appears only
// in the manager's escalated queue.
func (u *EscalationUsecase) Escalate(ctx context.Context, category entities.TaskCategory, profileID uuid.UUID, actor entities.Actor, reason string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.Validation("escalation reason is required")
	}
	if u.managerID == uuid.Nil {
		return nil, domainerrors.Precondition("no escalation manager is configured")
	}
	manager, err := u.userRepo.GetByID(ctx, u.managerID)
	if err != nil {
		return nil, err
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := u.profileRepo.SetEscalation(ctx, category, profileID, manager.Actor(), actor, reason); err != nil {
		return nil, err
	}

	entry := &entities.AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     entities.AuditTaskEscalated,
		TargetID:   profile.ID,
		TargetName: profile.DisplayName,
	}
	entry.Notes.SetValid(reason)
	if err := u.auditRepo.Append(ctx, entry); err != nil {
		logger.Error(ctx, "failed to append audit entry",
			zap.String("action", string(entities.AuditTaskEscalated)),
			zap.String("profile_id", profile.ID.String()),
			zap.Error(err))
	}

	u.sink.Notify(ctx, manager.ID, entities.NotificationEscalationNote,
		"Task escalated to you", reason, &profile.ID)

	return u.snapshot(ctx, profileID)
}

// Resolve closes an escalation: the task returns to the unassigned pool and
// the resolution note goes back to the original escalator as a message. The
// escalation itself was already audited; resolution adds no second entry.
func (u *EscalationUsecase) Resolve(ctx context.Context, profileID uuid.UUID, actor entities.Actor, note string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(note) == "" {
		return nil, domainerrors.Validation("resolution note is required")
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.EscalatedTo == nil || *profile.EscalatedTo != actor.ID {
		return nil, domainerrors.Precondition("this task is not escalated to you")
	}

	category := entities.TaskCategoryApproval
	if profile.EscalatedCategory != nil {
		category = *profile.EscalatedCategory
	}
	escalatorID := profile.EscalatedByID

	if err := u.profileRepo.ReleaseOwner(ctx, category, profileID); err != nil {
		return nil, err
	}

	if escalatorID != nil && *escalatorID != actor.ID {
		u.sink.Notify(ctx, *escalatorID, entities.NotificationEscalationNote,
			"Escalation resolved", note, &profile.ID)
	}

	return u.snapshot(ctx, profileID)
}

func (u *EscalationUsecase) snapshot(ctx context.Context, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(profile), nil
}
