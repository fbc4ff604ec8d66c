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

// AppealUsecase handles the appeal dimension: a user-initiated request to
// reverse a rejection or suspension, resolved by a moderator
type AppealUsecase struct {
	profileRepo repositories.ProfileRepository
	auditRepo   repositories.AuditRepository
	uow         repositories.UnitOfWork
	sink        NotificationSink
}

// NewAppealUsecase creates a new appeal usecase
func NewAppealUsecase(
	profileRepo repositories.ProfileRepository,
	auditRepo repositories.AuditRepository,
	uow repositories.UnitOfWork,
	sink NotificationSink,
) *AppealUsecase {
	return &AppealUsecase{
		profileRepo: profileRepo,
		auditRepo:   auditRepo,
		uow:         uow,
		sink:        sink,
	}
}

// Submit opens an appeal on the acting vendor's own profile. Only possible
// from a rejection or suspension, and only once per cycle: a denied appeal
// is terminal until a new rejection or suspension resets it.
func (u *AppealUsecase) Submit(ctx context.Context, ownerUserID uuid.UUID, message string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domainerrors.Validation("appeal message is required")
	}
	profile, err := u.profileRepo.GetByOwnerUserID(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}

	if err := u.profileRepo.SubmitAppeal(ctx, profile.ID, message); err != nil {
		return nil, err
	}

	u.record(ctx, entities.Actor{ID: ownerUserID, Name: profile.DisplayName}, entities.AuditAppealSubmitted, profile, message)

	return u.snapshot(ctx, profile.ID)
}

// Approve resolves a pending appeal in the user's favor. The store reverses
// whichever punishment the appeal was against: a rejection becomes an
// approval, a suspension is lifted. The approval task is released with it.
func (u *AppealUsecase) Approve(ctx context.Context, profileID uuid.UUID, actor entities.Actor) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(profile, entities.TaskCategoryApproval, actor); err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.profileRepo.ResolveAppeal(txCtx, profileID, actor.ID, true, ""); err != nil {
			return err
		}
		return u.profileRepo.ReleaseOwner(txCtx, entities.TaskCategoryApproval, profileID)
	})
	if err != nil {
		return nil, err
	}

	u.record(ctx, actor, entities.AuditAppealApproved, profile, "")
	u.sink.Notify(ctx, profile.OwnerUserID, entities.NotificationAppealApproved,
		"Appeal approved", "Your appeal has been reviewed and approved.", &profile.ID)

	return u.snapshot(ctx, profileID)
}

// Deny resolves a pending appeal against the user with a required reason.
// Denied is terminal for this cycle.
func (u *AppealUsecase) Deny(ctx context.Context, profileID uuid.UUID, actor entities.Actor, reason string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.Validation("denial reason is required")
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(profile, entities.TaskCategoryApproval, actor); err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.profileRepo.ResolveAppeal(txCtx, profileID, actor.ID, false, reason); err != nil {
			return err
		}
		return u.profileRepo.ReleaseOwner(txCtx, entities.TaskCategoryApproval, profileID)
	})
	if err != nil {
		return nil, err
	}

	u.record(ctx, actor, entities.AuditAppealDenied, profile, reason)
	u.sink.Notify(ctx, profile.OwnerUserID, entities.NotificationAppealDenied,
		"Appeal denied", reason, &profile.ID)

	return u.snapshot(ctx, profileID)
}

func (u *AppealUsecase) record(ctx context.Context, actor entities.Actor, action entities.AuditAction, profile *entities.Profile, notes string) {
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

func (u *AppealUsecase) snapshot(ctx context.Context, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(profile), nil
}
