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

// ProfileHandler handles the vendor-facing profile endpoints
type ProfileHandler struct {
	profileUsecase      *usecases.ProfileUsecase
	appealUsecase       *usecases.AppealUsecase
	verificationUsecase *usecases.VerificationUsecase
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	profileUsecase *usecases.ProfileUsecase,
	appealUsecase *usecases.AppealUsecase,
	verificationUsecase *usecases.VerificationUsecase,
) *ProfileHandler {
	return &ProfileHandler{
		profileUsecase:      profileUsecase,
		appealUsecase:       appealUsecase,
		verificationUsecase: verificationUsecase,
	}
}

// Submit creates the vendor's profile
// POST /api/v1/profiles
func (h *ProfileHandler) Submit(c *gin.Context) {
	var input entities.CreateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	snapshot, err := h.profileUsecase.Submit(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, snapshot)
}

// Mine returns the vendor's own profile
// GET /api/v1/profiles/me
func (h *ProfileHandler) Mine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	snapshot, err := h.profileUsecase.Mine(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// Get returns one profile by id (moderation view)
// GET /api/v1/profiles/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.Validation("invalid profile id"))
		return
	}

	snapshot, err := h.profileUsecase.Get(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// SubmitAppeal opens an appeal against the vendor's rejection or suspension
// POST /api/v1/profiles/me/appeal
func (h *ProfileHandler) SubmitAppeal(c *gin.Context) {
	var input entities.SubmitAppealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	snapshot, err := h.appealUsecase.Submit(c.Request.Context(), userID, input.Message)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}

// SubmitResponse answers the open information request on the vendor's profile
// POST /api/v1/profiles/me/response
func (h *ProfileHandler) SubmitResponse(c *gin.Context) {
	var input entities.SubmitResponseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ValidationError(c, err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	snapshot, err := h.verificationUsecase.SubmitUserResponse(c.Request.Context(), userID, input.Message, input.Files)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, snapshot)
}
