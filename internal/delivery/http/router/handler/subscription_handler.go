// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"uvalert/internal/delivery/http/response"
	domainerrors "uvalert/internal/domain/errors"
	"uvalert/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SubscriptionHandler holds dependencies for registration and opt-out.
type SubscriptionHandler struct {
	uc     usecase.SubscriptionUsecase
	logger *slog.Logger
}

// NewSubscriptionHandler is the constructor for SubscriptionHandler, injected by Fx.
func NewSubscriptionHandler(uc usecase.SubscriptionUsecase, logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		uc:     uc,
		logger: logger,
	}
}

type registerRequest struct {
	Email     string  `json:"email" form:"email" validate:"required,email"`
	Latitude  float64 `json:"latitude" form:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" form:"longitude" validate:"min=-180,max=180"`
}

type registerResponse struct {
	Email  string `json:"email"`
	Region string `json:"region"`
}

// Register handles the subscription request.
func (h *SubscriptionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, domainerrors.ErrInvalidInput.ErrorCode(), domainerrors.ErrInvalidInput.Message())
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, domainerrors.ErrInvalidInput.ErrorCode(), domainerrors.ErrInvalidInput.Message())
	}

	output, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		Email:     req.Email,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, registerResponse{
		Email:  output.Subscriber.Email,
		Region: output.Region.Display,
	}, "Cadastro feito com sucesso! Verifique seu e-mail.")
}

type unsubscribeRequest struct {
	Token string `json:"token" form:"token" query:"token"`
}

// Unsubscribe handles the opt-out request. The token arrives via query
// string from mail links and via body from the confirmation page.
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	var req unsubscribeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, domainerrors.ErrTokenInvalid.ErrorCode(), domainerrors.ErrTokenInvalid.Message())
	}
	if req.Token == "" {
		req.Token = c.QueryParam("token")
	}
	if req.Token == "" {
		return response.BadRequest(c, domainerrors.ErrTokenInvalid.ErrorCode(), domainerrors.ErrTokenInvalid.Message())
	}

	output, err := h.uc.Unsubscribe(c.Request().Context(), req.Token)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"email": output.Email},
		"Descadastro realizado com sucesso.")
}
