// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a registered recipient of the daily UV alert mail.
// A subscriber is created on registration and deleted on verified
// unsubscribe; it is never updated in place.
type Subscriber struct {
	ID        uuid.UUID // The unique identifier for the subscriber.
	Email     string    // The recipient address; unique across the store.
	Latitude  float64   // Saved latitude the alerts are computed for.
	Longitude float64   // Saved longitude the alerts are computed for.
	CreatedAt time.Time // Timestamp of when the registration was confirmed.
}
