package handler

import (
	"log/slog"
	"net/http"

	"uvalert/internal/delivery/http/response"
	"uvalert/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DispatchHandler exposes the manual trigger for the daily cycle.
type DispatchHandler struct {
	uc     usecase.DispatchUsecase
	logger *slog.Logger
}

// NewDispatchHandler is the constructor for DispatchHandler, injected by Fx.
func NewDispatchHandler(uc usecase.DispatchUsecase, logger *slog.Logger) *DispatchHandler {
	return &DispatchHandler{
		uc:     uc,
		logger: logger,
	}
}

// Run triggers one dispatch cycle unless one is already in flight.
func (h *DispatchHandler) Run(c echo.Context) error {
	report, started, err := h.uc.TryRunCycle(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}
	if !started {
		return response.Conflict(c, "CYCLE_RUNNING", "Um ciclo de envio já está em andamento.")
	}

	return response.Success(c, http.StatusOK, report, "Ciclo de envio concluído.")
}
