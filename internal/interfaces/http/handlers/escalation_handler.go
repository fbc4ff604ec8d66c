package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"vendor-hub.backend/internal/domain/entities"
	"vendor-hub.backend/internal/interfaces/http/middleware"
	"vendor-hub.backend/internal/interfaces/http/response"
	"vendor-hub.backend/internal/usecases"
)

// EscalationHandler handles routing tasks to the manager and back
type EscalationHandler struct {
	escalationUsecase *usecases.EscalationUsecase
}

// NewEscalationHandler creates a new escalation handler
func NewEscalationHandler(escalationUsecase *usecases.EscalationUsecase) *EscalationHandler {
	return &EscalationHandler{escalationUsecase: escalationUsecase}
}

// Escalate hands the actor's task to the manager
// POST /api/v1/profiles/:id/escalate
func (h *EscalationHandler) Escalate(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	category, err := taskCategory(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var input entities.EscalateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.escalationUsecase.Escalate(c.Request.Context(), category, id, actor, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// Resolve closes an escalation and messages the note back to the escalator
// POST /api/v1/profiles/:id/escalation/resolve
func (h *EscalationHandler) Resolve(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	var input entities.ResolveEscalationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.escalationUsecase.Resolve(c.Request.Context(), id, actor, input.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}
