package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/interfaces/http/middleware"
	"vendor-hub.backend/internal/interfaces/http/response"
	"vendor-hub.backend/internal/usecases"
	"vendor-hub.backend/pkg/utils"
)

// AuditHandler serves the completed-tasks views over the ledger
type AuditHandler struct {
	auditUsecase *usecases.AuditUsecase
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditUsecase *usecases.AuditUsecase) *AuditHandler {
	return &AuditHandler{auditUsecase: auditUsecase}
}

// Query filters the ledger by actor, target profile, or time window
// GET /api/v1/audit
func (h *AuditHandler) Query(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	p := pagination(c)

	q := entities.AuditQuery{
		Limit:  p.Limit,
		Offset: p.CalculateOffset(),
	}
	if raw := c.Query("actorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.Validation("invalid actorId"))
			return
		}
		q.ActorID = &id
	}
	if raw := c.Query("targetId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, domainerrors.Validation("invalid targetId"))
			return
		}
		q.TargetID = &id
	}
	if raw := c.Query("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, domainerrors.Validation("from must be RFC 3339"))
			return
		}
		q.From = &ts
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, domainerrors.Validation("to must be RFC 3339"))
			return
		}
		q.To = &ts
	}

	entries, total, err := h.auditUsecase.Query(c.Request.Context(), actor, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"entries": entries,
		"meta":    utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}
