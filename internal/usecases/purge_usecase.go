package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/logger"
)

// PurgeUsecase deletes every record belonging to a user in one transaction.
// Partial failure rolls the whole cascade back rather than leaving orphans.
type PurgeUsecase struct {
	userRepo         repositories.UserRepository
	profileRepo      repositories.ProfileRepository
	verificationRepo repositories.VerificationRepository
	notificationRepo repositories.NotificationRepository
	auditRepo        repositories.AuditRepository
	uow              repositories.UnitOfWork
}

// NewPurgeUsecase creates a new purge usecase
func NewPurgeUsecase(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	verificationRepo repositories.VerificationRepository,
	notificationRepo repositories.NotificationRepository,
	auditRepo repositories.AuditRepository,
	uow repositories.UnitOfWork,
) *PurgeUsecase {
	return &PurgeUsecase{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		verificationRepo: verificationRepo,
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		uow:              uow,
	}
}

// PurgeUser removes the user's account, profile, verification history and
// notifications. Super admin only. The audit ledger is append-only and is
// never purged; the deletion itself is recorded there.
func (u *PurgeUsecase) PurgeUser(ctx context.Context, actor entities.Actor, userID uuid.UUID) error {
	if actor.Role != entities.UserRoleSuperAdmin {
		return domainerrors.Unauthorized("only a super admin may delete a user")
	}

	target, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		profile, err := u.profileRepo.GetByOwnerUserID(txCtx, userID)
		if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
			return err
		}
		if profile != nil {
			if err := u.verificationRepo.DeleteByProfile(txCtx, profile.ID); err != nil {
				return err
			}
			if err := u.profileRepo.DeleteByOwnerUserID(txCtx, userID); err != nil {
				return err
			}
		}
		if err := u.notificationRepo.DeleteByUser(txCtx, userID); err != nil {
			return err
		}
		return u.userRepo.Delete(txCtx, userID)
	})
	if err != nil {
		return err
	}

	entry := &entities.AuditEntry{
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     entities.AuditUserDeleted,
		TargetID:   target.ID,
		TargetName: target.Name,
	}
	if err := u.auditRepo.Append(ctx, entry); err != nil {
		logger.Error(ctx, "failed to append audit entry",
			zap.String("action", string(entities.AuditUserDeleted)),
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
	return nil
}
