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

// VerificationUsecase handles the user side of the information exchange:
// answering the verification request a moderator opened via RequestInfo
type VerificationUsecase struct {
	profileRepo      repositories.ProfileRepository
	verificationRepo repositories.VerificationRepository
	auditRepo        repositories.AuditRepository
	uow              repositories.UnitOfWork
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	profileRepo repositories.ProfileRepository,
	verificationRepo repositories.VerificationRepository,
	auditRepo repositories.AuditRepository,
	uow repositories.UnitOfWork,
) *VerificationUsecase {
	return &VerificationUsecase{
		profileRepo:      profileRepo,
		verificationRepo: verificationRepo,
		auditRepo:        auditRepo,
		uow:              uow,
	}
}

// SubmitUserResponse records the vendor's answer and moves their profile to
// USER_SUBMITTED_INFO, returning the approval task to the unassigned pool.
// Both writes land in one transaction.
func (u *VerificationUsecase) SubmitUserResponse(ctx context.Context, ownerUserID uuid.UUID, message string, files []entities.UserFile) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domainerrors.Validation("response message is required")
	}
	profile, err := u.profileRepo.GetByOwnerUserID(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	request, err := u.verificationRepo.GetLatestByProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	tr := repositories.ApprovalTransition{
		FromStatuses: []entities.ApprovalStatus{entities.ApprovalStatusActionRequired},
		To:           entities.ApprovalStatusUserSubmittedInfo,
		Apply: map[string]interface{}{
			"approval_owner_id":   nil,
			"approval_owner_name": nil,
		},
	}
	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.verificationRepo.MarkResponded(txCtx, request.ID, message, files); err != nil {
			return err
		}
		return u.profileRepo.ApplyApprovalTransition(txCtx, profile.ID, tr)
	})
	if err != nil {
		return nil, err
	}

	entry := &entities.AuditEntry{
		ActorID:    ownerUserID,
		ActorName:  profile.DisplayName,
		Action:     entities.AuditInfoSubmitted,
		TargetID:   profile.ID,
		TargetName: profile.DisplayName,
	}
	entry.Notes.SetValid(message)
	if err := u.auditRepo.Append(ctx, entry); err != nil {
		logger.Error(ctx, "failed to append audit entry",
			zap.String("action", string(entities.AuditInfoSubmitted)),
			zap.String("profile_id", profile.ID.String()),
			zap.Error(err))
	}

	fresh, err := u.profileRepo.GetByID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(fresh), nil
}

// History returns every verification cycle for a profile, newest first
func (u *VerificationUsecase) History(ctx context.Context, profileID uuid.UUID) ([]*entities.VerificationRequest, error) {
	return u.verificationRepo.ListByProfile(ctx, profileID)
}
