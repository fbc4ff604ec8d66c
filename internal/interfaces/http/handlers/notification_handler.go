package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domainerrors "vendor-hub.backend/internal/domain/errors"
	"vendor-hub.backend/internal/interfaces/http/middleware"
	"vendor-hub.backend/internal/interfaces/http/response"
	"vendor-hub.backend/internal/usecases"
	"vendor-hub.backend/pkg/utils"
)

// NotificationHandler serves a user's own notifications
type NotificationHandler struct {
	notifierUsecase *usecases.NotifierUsecase
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifierUsecase *usecases.NotifierUsecase) *NotificationHandler {
	return &NotificationHandler{notifierUsecase: notifierUsecase}
}

// List returns the caller's notifications, newest first
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	p := pagination(c)

	notifications, total, err := h.notifierUsecase.ListForUser(c.Request.Context(), userID, p.Limit, p.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"notifications": notifications,
		"meta":          utils.CalculateMeta(int64(total), p.Page, p.Limit),
	})
}

// MarkRead stamps one of the caller's notifications as read
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid notification id"))
		return
	}
	userID, _ := middleware.GetUserID(c)

	if err := h.notifierUsecase.MarkRead(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "marked read"})
}
