package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"uvalert/config"
	"uvalert/internal/domain/entity"
	domainerrors "uvalert/internal/domain/errors"
	"uvalert/internal/domain/repository"
	"uvalert/internal/domain/service"
	"uvalert/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Mail = &config.MailConfig{BaseURL: "http://localhost:5051"}
	cfg.Dispatch = &config.DispatchConfig{Workers: 4}

	return cfg
}

func newSubscriptionService(repo *fakeSubscriberRepo, mailer *fakeMailService) usecase.SubscriptionUsecase {
	return NewSubscriptionService(SubscriptionServiceParams{
		SubscriberRepo: repo,
		GeocodeService: &fakeGeocodeService{},
		TokenService:   &fakeTokenService{},
		MailRenderer:   &fakeMailRenderer{},
		MailService:    mailer,
		Config:         testConfig(),
		Logger:         testLogger(),
	})
}

func TestRegister_Success(t *testing.T) {
	repo := &fakeSubscriberRepo{}
	mailer := &fakeMailService{}
	service := newSubscriptionService(repo, mailer)

	out, err := service.Register(context.Background(), usecase.RegisterInput{
		Email:     "user@example.com",
		Latitude:  -23.55,
		Longitude: -46.63,
	})

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", out.Subscriber.Email)
	assert.Equal(t, "Testópolis – TS", out.Region.Display)

	sent := mailer.sentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "user@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, "Cadastro confirmado")
	assert.Empty(t, repo.deletedIDs(), "no rollback on success")
}

func TestRegister_InvalidEmail(t *testing.T) {
	repo := &fakeSubscriberRepo{}
	service := newSubscriptionService(repo, &fakeMailService{})

	_, err := service.Register(context.Background(), usecase.RegisterInput{
		Email:     "not-an-email",
		Latitude:  -23.55,
		Longitude: -46.63,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidEmail))
	assert.Empty(t, repo.created, "rejected before any side effect")
}

func TestRegister_InvalidCoordinates(t *testing.T) {
	repo := &fakeSubscriberRepo{}
	service := newSubscriptionService(repo, &fakeMailService{})

	_, err := service.Register(context.Background(), usecase.RegisterInput{
		Email:     "user@example.com",
		Latitude:  120.0,
		Longitude: -46.63,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
	assert.Empty(t, repo.created)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeSubscriberRepo{
		createFn: func(_ context.Context, _ *entity.Subscriber) error {
			return repository.ErrDuplicateEmail
		},
	}
	mailer := &fakeMailService{}
	service := newSubscriptionService(repo, mailer)

	_, err := service.Register(context.Background(), usecase.RegisterInput{
		Email:     "user@example.com",
		Latitude:  -23.55,
		Longitude: -46.63,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
	assert.Empty(t, mailer.sentMessages())
}

func TestRegister_MailFailureRollsBack(t *testing.T) {
	repo := &fakeSubscriberRepo{}
	failingMailer := &fakeMailService{
		sendFn: func(_ context.Context, _ service.MailMessage) error {
			return errors.New("smtp: connection refused")
		},
	}

	service := newSubscriptionService(repo, failingMailer)

	_, err := service.Register(context.Background(), usecase.RegisterInput{
		Email:     "user@example.com",
		Latitude:  -23.55,
		Longitude: -46.63,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrMailSendFailed))

	require.Len(t, repo.created, 1)
	deleted := repo.deletedIDs()
	require.Len(t, deleted, 1, "compensating delete must remove the stored record")
	assert.Equal(t, repo.created[0].ID, deleted[0])
}

func TestUnsubscribe_Success(t *testing.T) {
	subscriberID := uuid.New()
	repo := &fakeSubscriberRepo{
		findByEmailFn: func(_ context.Context, email string) (*entity.Subscriber, error) {
			return &entity.Subscriber{ID: subscriberID, Email: email}, nil
		},
	}

	service := NewSubscriptionService(SubscriptionServiceParams{
		SubscriberRepo: repo,
		GeocodeService: &fakeGeocodeService{},
		TokenService: &fakeTokenService{
			verifyFn: func(_ string) (string, error) { return "user@example.com", nil },
		},
		MailRenderer: &fakeMailRenderer{},
		MailService:  &fakeMailService{},
		Config:       testConfig(),
		Logger:       testLogger(),
	})

	out, err := service.Unsubscribe(context.Background(), "valid-token")

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", out.Email)
	assert.Equal(t, []uuid.UUID{subscriberID}, repo.deletedIDs())
}

func TestUnsubscribe_InvalidToken(t *testing.T) {
	service := NewSubscriptionService(SubscriptionServiceParams{
		SubscriberRepo: &fakeSubscriberRepo{},
		GeocodeService: &fakeGeocodeService{},
		TokenService: &fakeTokenService{
			verifyFn: func(_ string) (string, error) { return "", domainerrors.ErrTokenInvalid },
		},
		MailRenderer: &fakeMailRenderer{},
		MailService:  &fakeMailService{},
		Config:       testConfig(),
		Logger:       testLogger(),
	})

	_, err := service.Unsubscribe(context.Background(), "garbage")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestUnsubscribe_ValidTokenUnknownEmail(t *testing.T) {
	repo := &fakeSubscriberRepo{
		findByEmailFn: func(_ context.Context, _ string) (*entity.Subscriber, error) {
			return nil, repository.ErrSubscriberNotFound
		},
	}

	service := NewSubscriptionService(SubscriptionServiceParams{
		SubscriberRepo: repo,
		GeocodeService: &fakeGeocodeService{},
		TokenService: &fakeTokenService{
			verifyFn: func(_ string) (string, error) { return "gone@example.com", nil },
		},
		MailRenderer: &fakeMailRenderer{},
		MailService:  &fakeMailService{},
		Config:       testConfig(),
		Logger:       testLogger(),
	})

	_, err := service.Unsubscribe(context.Background(), "valid-but-stale")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrSubscriberNotFound))
	assert.Empty(t, repo.deletedIDs())
}
