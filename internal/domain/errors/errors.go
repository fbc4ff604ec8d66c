package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrValidationFailed      = errors.New("validation failed")
	ErrPreconditionFailed    = errors.New("precondition failed")
	ErrOwnershipConflict     = errors.New("task is owned by another moderator")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrTokenExpired          = errors.New("token expired")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrAppealNotEligible     = errors.New("profile is not eligible for appeal")
	ErrStaleAssessment       = errors.New("risk assessment is stale")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(code int, kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message, ErrNotFound)
}

func Validation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "VALIDATION_FAILED", message, ErrValidationFailed)
}

func Precondition(message string) *AppError {
	return NewAppError(http.StatusConflict, "PRECONDITION_FAILED", message, ErrPreconditionFailed)
}

// OwnershipConflict is an expected race outcome, not a bug; the message is
// what the losing moderator sees.
func OwnershipConflict() *AppError {
	return NewAppError(http.StatusConflict, "OWNERSHIP_CONFLICT",
		"This task was just taken by someone else", ErrOwnershipConflict)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, "FORBIDDEN", message, ErrForbidden)
}

func DependencyUnavailable(message string, err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", message,
		errors.Join(ErrDependencyUnavailable, err))
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "INTERNAL", "internal server error", err)
}
