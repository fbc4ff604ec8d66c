package repositories

import (
	"context"

	"vendor-hub.backend/internal/domain/entities"
)

// AuditRepository defines append-only audit ledger operations. There is
// deliberately no update or delete.
type AuditRepository interface {
	Append(ctx context.Context, entry *entities.AuditEntry) error
	Query(ctx context.Context, q entities.AuditQuery) ([]*entities.AuditEntry, int, error)
}
