// Package model contains the GORM persistence models.
package model

import (
	"time"

	"github.com/google/uuid"
)

// SubscriberModel is the GORM model for a registered notification recipient.
type SubscriberModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}

// TableName specifies the table name for the SubscriberModel
func (SubscriberModel) TableName() string {
	return "subscribers"
}
