// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"uvalert/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrSubscriberNotFound is a domain-specific error returned when a subscriber is not found.
var ErrSubscriberNotFound = errors.New("subscriber not found")

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// SubscriberRepository defines the standard operations for subscriber persistence.
// The application layer depends on this interface, not the concrete implementation.
type SubscriberRepository interface {
	// Create persists a new subscriber. Returns ErrDuplicateEmail when the
	// email is already registered.
	Create(ctx context.Context, subscriber *entity.Subscriber) error

	// FindByEmail retrieves a subscriber by address. Returns
	// ErrSubscriberNotFound when no record exists.
	FindByEmail(ctx context.Context, email string) (*entity.Subscriber, error)

	// Delete removes a subscriber by ID. Used by unsubscribe and by the
	// registration rollback when the confirmation mail cannot be sent.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListAll returns every subscriber in stable insertion order.
	ListAll(ctx context.Context) ([]*entity.Subscriber, error)
}
