// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"uvalert/config"
	"uvalert/internal/domain/entity"
	domainerrors "uvalert/internal/domain/errors"
	"uvalert/internal/domain/repository"
	"uvalert/internal/domain/service"
	"uvalert/internal/usecase"
	"uvalert/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// subscriptionService implements the SubscriptionUsecase interface.
type subscriptionService struct {
	subscriberRepo repository.SubscriberRepository
	geocodeService service.GeocodeService
	tokenService   service.UnsubscribeTokenService
	mailRenderer   service.MailRenderer
	mailService    service.MailService
	baseURL        string
	logger         *slog.Logger
}

// SubscriptionServiceParams holds dependencies for subscriptionService, injected by Fx.
type SubscriptionServiceParams struct {
	fx.In

	SubscriberRepo repository.SubscriberRepository
	GeocodeService service.GeocodeService
	TokenService   service.UnsubscribeTokenService
	MailRenderer   service.MailRenderer
	MailService    service.MailService
	Config         *config.Config
	Logger         *slog.Logger
}

// NewSubscriptionService is the constructor for subscriptionService.
func NewSubscriptionService(params SubscriptionServiceParams) usecase.SubscriptionUsecase {
	baseURL := ""
	if params.Config != nil && params.Config.Mail != nil {
		baseURL = params.Config.Mail.BaseURL
	}

	return &subscriptionService{
		subscriberRepo: params.SubscriberRepo,
		geocodeService: params.GeocodeService,
		tokenService:   params.TokenService,
		mailRenderer:   params.MailRenderer,
		mailService:    params.MailService,
		baseURL:        baseURL,
		logger:         params.Logger,
	}
}

// Register orchestrates the complete registration process: validate, store,
// resolve the region, mail the confirmation, and roll the stored record back
// if that mail cannot be sent.
func (srv *subscriptionService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if !emailPattern.MatchString(input.Email) {
		return nil, domainerrors.ErrInvalidEmail
	}
	if !util.ValidCoordinate(input.Latitude, input.Longitude) {
		return nil, domainerrors.ErrInvalidInput.WithDetails("latitude/longitude outside valid bounds")
	}

	subscriber := &entity.Subscriber{
		Email:     input.Email,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}

	if err := srv.subscriberRepo.Create(ctx, subscriber); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrDuplicateEmail
		}

		return nil, errors.Wrap(err, "failed to store subscriber")
	}

	// Region resolution never fails; worst case the confirmation shows the
	// raw coordinates.
	region := srv.geocodeService.Resolve(ctx, input.Latitude, input.Longitude)

	if err := srv.sendConfirmation(ctx, subscriber, region); err != nil {
		srv.logger.ErrorContext(ctx, "confirmation mail failed, rolling back registration",
			slog.String("email", input.Email),
			slog.Any("error", err))

		// Compensating delete keeps the store invariant: no subscriber
		// exists that was never told about their registration.
		if delErr := srv.subscriberRepo.Delete(ctx, subscriber.ID); delErr != nil {
			srv.logger.ErrorContext(ctx, "registration rollback failed",
				slog.String("email", input.Email),
				slog.Any("error", delErr))
		}

		return nil, domainerrors.ErrMailSendFailed.WrapMessage(err.Error())
	}

	srv.logger.InfoContext(ctx, "subscriber registered",
		slog.String("email", input.Email),
		slog.String("region", region.Display))

	return &usecase.RegisterOutput{Subscriber: subscriber, Region: region}, nil
}

// Unsubscribe verifies the opt-out token and removes the bound subscriber.
// A valid token for an address that is no longer registered reports not
// found rather than success.
func (srv *subscriptionService) Unsubscribe(ctx context.Context, token string) (*usecase.UnsubscribeOutput, error) {
	email, err := srv.tokenService.Verify(token)
	if err != nil {
		return nil, err
	}

	subscriber, err := srv.subscriberRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return nil, domainerrors.ErrSubscriberNotFound
		}

		return nil, errors.Wrap(err, "failed to find subscriber for unsubscribe")
	}

	if err := srv.subscriberRepo.Delete(ctx, subscriber.ID); err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return nil, domainerrors.ErrSubscriberNotFound
		}

		return nil, errors.Wrap(err, "failed to delete subscriber")
	}

	srv.logger.InfoContext(ctx, "subscriber removed", slog.String("email", email))

	return &usecase.UnsubscribeOutput{Email: email}, nil
}

func (srv *subscriptionService) sendConfirmation(ctx context.Context, subscriber *entity.Subscriber, region entity.RegionLabel) error {
	token, err := srv.tokenService.Issue(subscriber.Email)
	if err != nil {
		return errors.Wrap(err, "failed to issue unsubscribe token")
	}

	body, err := srv.mailRenderer.RenderConfirmation(service.ConfirmationMailData{
		Region:          region,
		Latitude:        subscriber.Latitude,
		Longitude:       subscriber.Longitude,
		UnsubscribeLink: srv.unsubscribeLink(token),
	})
	if err != nil {
		return errors.Wrap(err, "failed to render confirmation mail")
	}

	return srv.mailService.Send(ctx, service.MailMessage{
		To:      subscriber.Email,
		Subject: fmt.Sprintf("Cadastro confirmado - Monitoramento UV (%s)", region.Display),
		Text:    body,
	})
}

func (srv *subscriptionService) unsubscribeLink(token string) string {
	return srv.baseURL + "/unsubscribe?token=" + token
}
