package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// NotificationType categorizes user-visible moderation events
type NotificationType string

const (
	NotificationProfileApproved   NotificationType = "PROFILE_APPROVED"
	NotificationProfileRejected   NotificationType = "PROFILE_REJECTED"
	NotificationActionRequired    NotificationType = "ACTION_REQUIRED"
	NotificationAccountSuspended  NotificationType = "ACCOUNT_SUSPENDED"
	NotificationAccountReinstated NotificationType = "ACCOUNT_REINSTATED"
	NotificationAppealApproved    NotificationType = "APPEAL_APPROVED"
	NotificationAppealDenied      NotificationType = "APPEAL_DENIED"
	NotificationEscalationNote    NotificationType = "ESCALATION_NOTE"
)

// DeliveryStatus tracks outbox delivery state
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

// Notification is a persisted outbox row for the external notification sink.
// The moderation transition that created it never fails because delivery
// failed; failed rows are retried by a background job.
type Notification struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID        `json:"userId"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	ReferenceID *uuid.UUID       `json:"referenceId,omitempty"`
	Status      DeliveryStatus   `json:"status"`
	Attempts    int              `json:"attempts"`
	LastError   null.String      `json:"-"`
	DeliveredAt *time.Time       `json:"deliveredAt,omitempty"`
	ReadAt      *time.Time       `json:"readAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}
