package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"vendor-hub.backend/internal/domain/entities"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/interfaces/http/middleware"
	"vendor-hub.backend/internal/interfaces/http/response"
	"vendor-hub.backend/internal/usecases"
	"vendor-hub.backend/pkg/utils"
)

// QueueHandler serves the three moderation work queues
type QueueHandler struct {
	assignmentUsecase *usecases.AssignmentUsecase
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(assignmentUsecase *usecases.AssignmentUsecase) *QueueHandler {
	return &QueueHandler{assignmentUsecase: assignmentUsecase}
}

func taskCategory(c *gin.Context) (entities.TaskCategory, error) {
	switch strings.ToUpper(c.DefaultQuery("category", string(entities.TaskCategoryApproval))) {
	case string(entities.TaskCategoryApproval):
		return entities.TaskCategoryApproval, nil
	case string(entities.TaskCategoryRisk):
		return entities.TaskCategoryRisk, nil
	default:
		return "", domainerrors.Validation("category must be APPROVAL or RISK")
	}
}

func pagination(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return utils.GetPaginationParams(page, limit)
}

type queueResponse struct {
	Profiles []*entities.Profile  `json:"profiles"`
	Meta     utils.PaginationMeta `json:"meta"`
}

// ListPool returns unassigned, unescalated tasks in a category
// GET /api/v1/queues/pool
func (h *QueueHandler) ListPool(c *gin.Context) {
	category, err := taskCategory(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	p := pagination(c)

	profiles, total, err := h.assignmentUsecase.ListUnassigned(c.Request.Context(), category, p.Limit, p.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, queueResponse{
		Profiles: profiles,
		Meta:     utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}

// ListMine returns tasks the acting moderator currently owns
// GET /api/v1/queues/mine
func (h *QueueHandler) ListMine(c *gin.Context) {
	category, err := taskCategory(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)
	p := pagination(c)

	profiles, total, err := h.assignmentUsecase.ListMine(c.Request.Context(), category, actor, p.Limit, p.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, queueResponse{
		Profiles: profiles,
		Meta:     utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}

// ListEscalated returns tasks escalated to the acting manager
// GET /api/v1/queues/escalated
func (h *QueueHandler) ListEscalated(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)
	p := pagination(c)

	profiles, total, err := h.assignmentUsecase.ListEscalated(c.Request.Context(), actor, p.Limit, p.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, queueResponse{
		Profiles: profiles,
		Meta:     utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}
