package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/logger"
)

// RiskAssessor produces a risk verdict for one profile. Implemented by the
// external scoring provider client.
type RiskAssessor interface {
	Assess(ctx context.Context, profile *entities.Profile) (*entities.RiskAssessment, error)
}

// RiskReviewUsecase manages the risk task category: ingesting provider
// verdicts, reviewing flagged profiles, and suspending from review
type RiskReviewUsecase struct {
	profileRepo repositories.ProfileRepository
	auditRepo   repositories.AuditRepository
	uow         repositories.UnitOfWork
	sink        NotificationSink
	assessor    RiskAssessor
}

// NewRiskReviewUsecase creates a new risk review usecase
func NewRiskReviewUsecase(
	profileRepo repositories.ProfileRepository,
	auditRepo repositories.AuditRepository,
	uow repositories.UnitOfWork,
	sink NotificationSink,
	assessor RiskAssessor,
) *RiskReviewUsecase {
	return &RiskReviewUsecase{
		profileRepo: profileRepo,
		auditRepo:   auditRepo,
		uow:         uow,
		sink:        sink,
		assessor:    assessor,
	}
}

// IngestAssessment stores a provider verdict and flags the profile for risk
// review, independent of approval state
func (u *RiskReviewUsecase) IngestAssessment(ctx context.Context, profileID uuid.UUID, assessment *entities.RiskAssessment) error {
	if assessment == nil || assessment.Score < 0 || assessment.Score > 100 {
		return domainerrors.Validation("risk score must be between 0 and 100")
	}
	return u.profileRepo.SetRiskAssessment(ctx, profileID, assessment)
}

// CompleteReview closes the risk task without touching approval or
// suspension. Calling it twice fails the second time with no state change.
func (u *RiskReviewUsecase) CompleteReview(ctx context.Context, profileID uuid.UUID, actor entities.Actor) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := u.profileRepo.ClearRiskReview(ctx, profileID, actor.ID); err != nil {
		return nil, err
	}

	notes := "risk review completed"
	if profile.RiskAssessment != nil {
		notes = fmt.Sprintf("risk review completed, score %d (%s)",
			profile.RiskAssessment.Score, profile.RiskAssessment.Label)
	}
	u.record(ctx, actor, entities.AuditProfileReviewed, profile, notes, false)

	return u.snapshot(ctx, profileID)
}

// SuspendFromReview suspends the vendor and closes the risk task in one
// transaction: either both land or neither does
func (u *RiskReviewUsecase) SuspendFromReview(ctx context.Context, profileID uuid.UUID, actor entities.Actor, reason string) (*entities.ProfileSnapshot, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domainerrors.Validation("suspension reason is required")
	}
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.profileRepo.Suspend(txCtx, profileID, reason); err != nil {
			return err
		}
		return u.profileRepo.ClearRiskReview(txCtx, profileID, actor.ID)
	})
	if err != nil {
		return nil, err
	}

	u.record(ctx, actor, entities.AuditUserSuspended, profile, reason, true)
	u.sink.Notify(ctx, profile.OwnerUserID, entities.NotificationAccountSuspended,
		"Account suspended", reason, &profile.ID)

	return u.snapshot(ctx, profileID)
}

// UnassignReview returns the risk task to the unassigned pool, leaving the
// review flag set
func (u *RiskReviewUsecase) UnassignReview(ctx context.Context, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	if err := u.profileRepo.ReleaseOwner(ctx, entities.TaskCategoryRisk, profileID); err != nil {
		return nil, err
	}
	return u.snapshot(ctx, profileID)
}

// TriggerMissingAssessments requests a verdict for every profile that lacks
// one and reports how many assessments were started. Individual provider
// failures are logged and retried by the background job.
func (u *RiskReviewUsecase) TriggerMissingAssessments(ctx context.Context) (int, error) {
	profiles, err := u.profileRepo.ListAwaitingAssessment(ctx, 0)
	if err != nil {
		return 0, err
	}

	started := 0
	for _, p := range profiles {
		assessment, err := u.assessor.Assess(ctx, p)
		if err != nil {
			logger.Warn(ctx, "risk assessment failed",
				zap.String("profile_id", p.ID.String()),
				zap.Error(err))
			continue
		}
		if err := u.IngestAssessment(ctx, p.ID, assessment); err != nil {
			logger.Error(ctx, "failed to store risk assessment",
				zap.String("profile_id", p.ID.String()),
				zap.Error(err))
			continue
		}
		started++
	}
	return started, nil
}

func (u *RiskReviewUsecase) record(ctx context.Context, actor entities.Actor, action entities.AuditAction, profile *entities.Profile, notes string, fromRiskReview bool) {
	entry := &entities.AuditEntry{
		ActorID:        actor.ID,
		ActorName:      actor.Name,
		Action:         action,
		TargetID:       profile.ID,
		TargetName:     profile.DisplayName,
		FromRiskReview: fromRiskReview,
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

func (u *RiskReviewUsecase) snapshot(ctx context.Context, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(profile), nil
}
