// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"uvalert/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new subscriber.
type RegisterInput struct {
	Email     string
	Latitude  float64
	Longitude float64
}

// --- Output DTOs ---

// RegisterOutput returns the newly created subscriber and the region label
// resolved for the confirmation mail.
type RegisterOutput struct {
	Subscriber *entity.Subscriber
	Region     entity.RegionLabel
}

// UnsubscribeOutput returns the address removed by a verified opt-out.
type UnsubscribeOutput struct {
	Email string
}

// SubscriptionUsecase defines the interface for registration and opt-out.
// This is the contract that the delivery layer (API handlers) depends on.
type SubscriptionUsecase interface {
	// Register validates the input, stores the subscriber and sends the
	// confirmation mail. When the mail cannot be sent the stored record is
	// deleted again so no silently-registered subscriber remains.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Unsubscribe verifies the opt-out token and removes the subscriber it
	// is bound to.
	Unsubscribe(ctx context.Context, token string) (*UnsubscribeOutput, error)
}
