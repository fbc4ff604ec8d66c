package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type        string     `gorm:"type:varchar(50);not null"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Message     string     `gorm:"type:text;not null"`
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	Status      string     `gorm:"type:varchar(50);not null;index"`
	Attempts    int        `gorm:"not null;default:0"`
	LastError   *string    `gorm:"type:text"`
	DeliveredAt *time.Time
	ReadAt      *time.Time
	UpdatedAt   time.Time
	CreatedAt   time.Time
}
