// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/repository"
	"uvalert/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// subscriberRepository implements the repository.SubscriberRepository interface using GORM.
type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository is the constructor for subscriberRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewSubscriberRepository(db *gorm.DB) repository.SubscriberRepository {
	return &subscriberRepository{db: db}
}

// Create persists a new subscriber. A unique-constraint violation on the
// email column maps to the domain duplicate error.
func (repo *subscriberRepository) Create(ctx context.Context, subscriber *entity.Subscriber) error {
	m := toSubscriberModel(subscriber)

	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateEmail
		}

		return errors.Wrap(err, "failed to create subscriber")
	}

	// Propagate DB-generated fields back to the domain entity.
	subscriber.ID = m.ID
	subscriber.CreatedAt = m.CreatedAt

	return nil
}

// FindByEmail retrieves a single subscriber by address.
func (repo *subscriberRepository) FindByEmail(ctx context.Context, email string) (*entity.Subscriber, error) {
	var m model.SubscriberModel

	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubscriberNotFound
		}

		return nil, errors.Wrap(err, "failed to find subscriber by email")
	}

	return toSubscriberDomain(&m), nil
}

// Delete removes a subscriber by ID. Deleting an already-removed row is
// reported as not found so unsubscribe stays idempotent at the API layer.
func (repo *subscriberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SubscriberModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete subscriber")
	}

	if result.RowsAffected == 0 {
		return repository.ErrSubscriberNotFound
	}

	return nil
}

// ListAll returns every subscriber in insertion order for the daily cycle.
func (repo *subscriberRepository) ListAll(ctx context.Context) ([]*entity.Subscriber, error) {
	var models []model.SubscriberModel

	err := repo.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subscribers")
	}

	subscribers := make([]*entity.Subscriber, 0, len(models))
	for i := range models {
		subscribers = append(subscribers, toSubscriberDomain(&models[i]))
	}

	return subscribers, nil
}

// toSubscriberModel maps a pure domain entity to its persistence model.
func toSubscriberModel(s *entity.Subscriber) *model.SubscriberModel {
	return &model.SubscriberModel{
		ID:        s.ID,
		Email:     s.Email,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		CreatedAt: s.CreatedAt,
	}
}

// toSubscriberDomain maps a persistence model back to a pure domain entity.
func toSubscriberDomain(m *model.SubscriberModel) *entity.Subscriber {
	return &entity.Subscriber{
		ID:        m.ID,
		Email:     m.Email,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		CreatedAt: m.CreatedAt,
	}
}
