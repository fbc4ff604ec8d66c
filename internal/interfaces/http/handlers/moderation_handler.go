package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/interfaces/http/middleware"
	"vendor-hub.backend/internal/interfaces/http/response"
	"vendor-hub.backend/internal/usecases"
)

// ModerationHandler handles moderator actions on profiles: task assignment,
// approval decisions, suspension, and appeal resolution
type ModerationHandler struct {
	assignmentUsecase   *usecases.AssignmentUsecase
	moderationUsecase   *usecases.ModerationUsecase
	appealUsecase       *usecases.AppealUsecase
	verificationUsecase *usecases.VerificationUsecase
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(
	assignmentUsecase *usecases.AssignmentUsecase,
	moderationUsecase *usecases.ModerationUsecase,
	appealUsecase *usecases.AppealUsecase,
	verificationUsecase *usecases.VerificationUsecase,
) *ModerationHandler {
	return &ModerationHandler{
		assignmentUsecase:   assignmentUsecase,
		moderationUsecase:   moderationUsecase,
		appealUsecase:       appealUsecase,
		verificationUsecase: verificationUsecase,
	}
}

func profileID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid profile id"))
		return uuid.Nil, false
	}
	return id, true
}

// Claim takes an unassigned task; exactly one concurrent claimer wins
// POST /api/v1/profiles/:id/claim
func (h *ModerationHandler) Claim(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	category, err := taskCategory(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.assignmentUsecase.Claim(c.Request.Context(), category, id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// TakeOver reassigns a task regardless of its current owner
// POST /api/v1/profiles/:id/take-over
func (h *ModerationHandler) TakeOver(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	category, err := taskCategory(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.assignmentUsecase.TakeOver(c.Request.Context(), category, id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// Release returns a task to the unassigned pool
// POST /api/v1/profiles/:id/release
func (h *ModerationHandler) Release(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	category, err := taskCategory(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshot, err := h.assignmentUsecase.Release(c.Request.Context(), category, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// Approve approves the profile
// POST /api/v1/profiles/:id/approve
func (h *ModerationHandler) Approve(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.moderationUsecase.Approve(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// Reject rejects the profile with a required reason
// POST /api/v1/profiles/:id/reject
func (h *ModerationHandler) Reject(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	var input entities.RejectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.moderationUsecase.Reject(c.Request.Context(), id, actor, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// RequestInfo sends the profile back to its owner for more information
// POST /api/v1/profiles/:id/request-info
func (h *ModerationHandler) RequestInfo(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	var input entities.RequestInfoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.moderationUsecase.RequestInfo(c.Request.Context(), id, actor, input.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// Suspend suspends the vendor regardless of approval state
// POST /api/v1/profiles/:id/suspend
func (h *ModerationHandler) Suspend(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	var input entities.SuspendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.moderationUsecase.Suspend(c.Request.Context(), id, actor, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// ApproveAppeal resolves a pending appeal in the vendor's favor
// POST /api/v1/profiles/:id/appeal/approve
func (h *ModerationHandler) ApproveAppeal(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.appealUsecase.Approve(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// DenyAppeal resolves a pending appeal against the vendor
// POST /api/v1/profiles/:id/appeal/deny
func (h *ModerationHandler) DenyAppeal(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	var input entities.DenyAppealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.appealUsecase.Deny(c.Request.Context(), id, actor, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// VerificationHistory lists every information-request cycle on a profile
// GET /api/v1/profiles/:id/verifications
func (h *ModerationHandler) VerificationHistory(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	history, err := h.verificationUsecase.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verifications": history})
}
