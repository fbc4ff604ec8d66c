package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// VerificationStatus represents the state of an information request
type VerificationStatus string

const (
	VerificationWaitingForUser VerificationStatus = "WAITING_FOR_USER"
	VerificationUserResponded  VerificationStatus = "USER_RESPONDED"
)

// UserFile is a document the user attaches to a verification response
type UserFile struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VerificationRequest is one cycle of the request/response loop a moderator
// uses to get more information from the profile owner
type VerificationRequest struct {
	ID             uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ProfileID      uuid.UUID          `json:"profileId"`
	RequestedByID  uuid.UUID          `json:"requestedById"`
	RequestMessage string             `json:"requestMessage"`
	Status         VerificationStatus `json:"status"`
	UserResponse   null.String        `json:"userResponse,omitempty"`
	UserFiles      []UserFile         `json:"userFiles,omitempty" gorm:"-"`
	RespondedAt    *time.Time         `json:"respondedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// SubmitResponseInput is the user's answer to an information request
type SubmitResponseInput struct {
	Message string     `json:"message" binding:"required"`
	Files   []UserFile `json:"files"`
}
