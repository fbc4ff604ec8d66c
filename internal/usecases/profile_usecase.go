package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
)

// ProfileUsecase handles vendor-side profile operations: submission and
// status lookup. Moderation happens elsewhere.
type ProfileUsecase struct {
	profileRepo repositories.ProfileRepository
}

// NewProfileUsecase creates a new profile usecase
func NewProfileUsecase(profileRepo repositories.ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profileRepo: profileRepo}
}

// Submit creates the vendor's profile in PENDING, unowned, with no risk
// flag. One profile per account.
func (u *ProfileUsecase) Submit(ctx context.Context, ownerUserID uuid.UUID, input *entities.CreateProfileInput) (*entities.ProfileSnapshot, error) {
	existing, err := u.profileRepo.GetByOwnerUserID(ctx, ownerUserID)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domainerrors.NewAppError(409, "ALREADY_EXISTS", "profile already submitted", domainerrors.ErrAlreadyExists)
	}

	profile := &entities.Profile{
		OwnerUserID: ownerUserID,
		DisplayName: input.DisplayName,
	}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	fresh, err := u.profileRepo.GetByID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(fresh), nil
}

// Mine returns the acting vendor's own profile snapshot
func (u *ProfileUsecase) Mine(ctx context.Context, ownerUserID uuid.UUID) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByOwnerUserID(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(profile), nil
}

// Get returns a profile snapshot by id (moderation surface)
func (u *ProfileUsecase) Get(ctx context.Context, profileID uuid.UUID) (*entities.ProfileSnapshot, error) {
	profile, err := u.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return entities.NewSnapshot(profile), nil
}
