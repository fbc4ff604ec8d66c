package repositories

import (
	"context"

	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
)

// VerificationRepository defines verification request data operations
type VerificationRepository interface {
	Create(ctx context.Context, req *entities.VerificationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VerificationRequest, error)
	// GetLatestByProfile returns the current cycle for a profile.
	GetLatestByProfile(ctx context.Context, profileID uuid.UUID) (*entities.VerificationRequest, error)
	// MarkResponded flips the request to USER_RESPONDED; guarded on the
	// request still waiting for the user.
	MarkResponded(ctx context.Context, id uuid.UUID, response string, files []entities.UserFile) error
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*entities.VerificationRequest, error)
	DeleteByProfile(ctx context.Context, profileID uuid.UUID) error
}
