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

// AdminHandler handles account administration endpoints
type AdminHandler struct {
	authUsecase  *usecases.AuthUsecase
	purgeUsecase *usecases.PurgeUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authUsecase *usecases.AuthUsecase, purgeUsecase *usecases.PurgeUsecase) *AdminHandler {
	return &AdminHandler{
		authUsecase:  authUsecase,
		purgeUsecase: purgeUsecase,
	}
}

func userID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid user id"))
		return uuid.Nil, false
	}
	return id, true
}

// ListUsers returns accounts, optionally filtered by name or email
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, _ := middleware.CurrentActor(c)

	users, err := h.authUsecase.ListUsers(c.Request.Context(), actor, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// UpdateRole promotes or demotes an account
// PUT /api/v1/admin/users/:id/role
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	var input entities.UpdateRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}
	actor, _ := middleware.CurrentActor(c)

	user, err := h.authUsecase.UpdateRole(c.Request.Context(), actor, id, input.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// PurgeUser removes a user and everything they own in one transaction
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) PurgeUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	actor, _ := middleware.CurrentActor(c)

	if err := h.purgeUsecase.PurgeUser(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "user deleted"})
}
