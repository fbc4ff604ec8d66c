package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"vendor-hub.backend/internal/domain/entities"
	"vendor-hub.backend/internal/interfaces/http/middleware"
	"vendor-hub.backend/internal/interfaces/http/response"
	"vendor-hub.backend/internal/usecases"
)

// RiskHandler handles the risk review task category
type RiskHandler struct {
	riskUsecase *usecases.RiskReviewUsecase
}

// NewRiskHandler creates a new risk handler
func NewRiskHandler(riskUsecase *usecases.RiskReviewUsecase) *RiskHandler {
	return &RiskHandler{riskUsecase: riskUsecase}
}

type ingestAssessmentInput struct {
	Score      int      `json:"score"`
	Label      string   `json:"label" binding:"required"`
	Summary    string   `json:"summary"`
	GreenFlags []string `json:"greenFlags"`
	RedFlags   []string `json:"redFlags"`
}

// IngestAssessment receives a verdict pushed by the scoring provider
// POST /api/v1/profiles/:id/risk/assessment
func (h *RiskHandler) IngestAssessment(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	var input ingestAssessmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	err := h.riskUsecase.IngestAssessment(c.Request.Context(), id, &entities.RiskAssessment{
		Score:      input.Score,
		Label:      input.Label,
		Summary:    input.Summary,
		GreenFlags: input.GreenFlags,
		RedFlags:   input.RedFlags,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"message": "assessment recorded"})
}

// CompleteReview closes the risk task with no further action
// POST /api/v1/profiles/:id/risk/complete
func (h *RiskHandler) CompleteReview(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	snapshot, err := h.riskUsecase.CompleteReview(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// SuspendFromReview suspends the vendor and closes the risk task together
// POST /api/v1/profiles/:id/risk/suspend
func (h *RiskHandler) SuspendFromReview(c *gin.Context) {
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

	snapshot, err := h.riskUsecase.SuspendFromReview(c.Request.Context(), id, actor, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// UnassignReview returns the risk task to the pool with the flag still set
// POST /api/v1/profiles/:id/risk/unassign
func (h *RiskHandler) UnassignReview(c *gin.Context) {
	id, ok := profileID(c)
	if !ok {
		return
	}

	snapshot, err := h.riskUsecase.UnassignReview(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// TriggerAssessments requests verdicts for every profile still missing one
// POST /api/v1/risk/trigger
func (h *RiskHandler) TriggerAssessments(c *gin.Context) {
	started, err := h.riskUsecase.TriggerMissingAssessments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"started": started})
}
