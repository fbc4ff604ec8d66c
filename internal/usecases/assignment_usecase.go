package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
	"vendor-hub.backend/pkg/metrics"
)

// AssignmentUsecase manages the two per-profile ownership slots and the
// task queue listings
type AssignmentUsecase struct {
	profileRepo repositories.ProfileRepository
}

// NewAssignmentUsecase creates a new assignment usecase
func NewAssignmentUsecase(profileRepo repositories.ProfileRepository) *AssignmentUsecase {
	return &AssignmentUsecase{profileRepo: profileRepo}
}

// Claim takes an unowned task. Losing the race to another moderator is an
// expected outcome and surfaces as OwnershipConflict.
func (u *AssignmentUsecase) Claim(ctx context.Context, category entities.TaskCategory, profileID uuid.UUID, actor entities.Actor) (*entities.ProfileSnapshot, error) {
	if err := u.profileRepo.ClaimOwner(ctx, category, profileID, actor); err != nil {
		if errors.Is(err, domainerrors.ErrOwnershipConflict) {
			metrics.ClaimConflicts.WithLabelValues(string(category)).Inc()
			return nil, domainerrors.OwnershipConflict()
		}
		return nil, err
	}
	return u.snapshot(ctx, profileID)
}

// TakeOver seizes a task regardless of its current owner and clears any
// pending escalation for the category. Used to recover orphaned tasks.
func (u *AssignmentUsecase) TakeOver(ctx context.Context, category entities.TaskCategory, profileID uuid.UUID, actor entities.Actor) (*entities.ProfileSnapshot, error) {
	if err := u.profileRepo.SetOwner(ctx, category, profileID, actor); err != nil {
		return nil, err
	}
	return u.snapshot(ctx, profileID)
}

// Release returns a task to the unassigned pool
func (u *AssignmentUsecase) Release(ctx context.Context, category entities.TaskCategory, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	if err := u.profileRepo.ReleaseOwner(ctx, category, profileID); err != nil {
		return nil, err
	}
	return u.snapshot(ctx, profileID)
}

// ListUnassigned lists the claimable pool for a category
func (u *AssignmentUsecase) ListUnassigned(ctx context.Context, category entities.TaskCategory, limit, offset int) ([]*entities.Profile, int, error) {
	return u.profileRepo.ListUnassigned(ctx, category, limit, offset)
}

// ListMine lists the tasks the actor currently owns in a category
func (u *AssignmentUsecase) ListMine(ctx context.Context, category entities.TaskCategory, actor entities.Actor, limit, offset int) ([]*entities.Profile, int, error) {
	return u.profileRepo.ListAssignedTo(ctx, category, actor.ID, limit, offset)
}

// ListEscalated lists the tasks escalated to the actor
func (u *AssignmentUsecase) ListEscalated(ctx context.Context, actor entities.Actor, limit, offset int) ([]*entities.Profile, int, error) {
	return u.profileRepo.ListEscalatedTo(ctx, actor.ID, limit, offset)
}

func (u *AssignmentUsecase) snapshot(ctx context.Context, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(profile), nil
}
