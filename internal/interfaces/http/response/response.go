package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "vendor-hub.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error onto an HTTP response. Usecases mostly return
// *AppError directly; bare sentinels from the repository layer are mapped
// here so handlers never build status codes by hand.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		appErr = fromSentinel(err)
	}

	c.JSON(appErr.Code, gin.H{
		"kind":    appErr.Kind,
		"message": appErr.Message,
	})
}

func fromSentinel(err error) *domainerrors.AppError {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound("resource not found")
	case errors.Is(err, domainerrors.ErrOwnershipConflict):
		return domainerrors.OwnershipConflict()
	case errors.Is(err, domainerrors.ErrPreconditionFailed):
		return domainerrors.Precondition("the profile changed underneath this request")
	case errors.Is(err, domainerrors.ErrAppealNotEligible):
		return domainerrors.Precondition("profile is not eligible for appeal")
	case errors.Is(err, domainerrors.ErrValidationFailed):
		return domainerrors.Validation(err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyExists):
		return domainerrors.NewAppError(http.StatusConflict, "ALREADY_EXISTS", "resource already exists", err)
	case errors.Is(err, domainerrors.ErrUnauthorized), errors.Is(err, domainerrors.ErrInvalidCredentials):
		return domainerrors.Unauthorized("unauthorized")
	case errors.Is(err, domainerrors.ErrForbidden):
		return domainerrors.Forbidden("forbidden")
	case errors.Is(err, domainerrors.ErrDependencyUnavailable):
		return domainerrors.DependencyUnavailable("a dependency is unavailable", err)
	default:
		return domainerrors.InternalError(err)
	}
}

// ValidationError reports a request-binding failure
func ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"kind":    "VALIDATION_FAILED",
		"message": err.Error(),
	})
}
