package usecases

import (
	"context"

	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/domain/repositories"
)

// AuditUsecase serves the completed-tasks views over the ledger
type AuditUsecase struct {
	auditRepo repositories.AuditRepository
}

// NewAuditUsecase creates a new audit usecase
func NewAuditUsecase(auditRepo repositories.AuditRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

// Query filters the ledger by actor, target, or time range. Moderation
// roles only.
func (u *AuditUsecase) Query(ctx context.Context, actor entities.Actor, q entities.AuditQuery) ([]*entities.AuditEntry, int, error) {
	switch actor.Role {
	case entities.UserRoleModerator, entities.UserRoleManager, entities.UserRoleSuperAdmin:
	default:
		return nil, 0, domainerrors.Unauthorized("insufficient role")
	}
	return u.auditRepo.Query(ctx, q)
}
