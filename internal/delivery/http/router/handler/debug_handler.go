package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"uvalert/internal/delivery/http/response"
	domainerrors "uvalert/internal/domain/errors"
	"uvalert/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DebugHandler exposes the UV and geocoding diagnostics.
type DebugHandler struct {
	uc     usecase.DiagnosticsUsecase
	logger *slog.Logger
}

// NewDebugHandler is the constructor for DebugHandler, injected by Fx.
func NewDebugHandler(uc usecase.DiagnosticsUsecase, logger *slog.Logger) *DebugHandler {
	return &DebugHandler{
		uc:     uc,
		logger: logger,
	}
}

// Snapshot shows everything an alert mail would contain for a coordinate
// pair, without sending anything.
func (h *DebugHandler) Snapshot(c echo.Context) error {
	lat, lon, err := coordinateParams(c)
	if err != nil {
		return response.BadRequest(c, domainerrors.ErrInvalidInput.ErrorCode(), domainerrors.ErrInvalidInput.Message())
	}

	snapshot, err := h.uc.Snapshot(c.Request().Context(), lat, lon)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, snapshot, "")
}

// Inspect verifies the provider answered for a grid point near the
// requested coordinates.
func (h *DebugHandler) Inspect(c echo.Context) error {
	lat, lon, err := coordinateParams(c)
	if err != nil {
		return response.BadRequest(c, domainerrors.ErrInvalidInput.ErrorCode(), domainerrors.ErrInvalidInput.Message())
	}

	inspection, err := h.uc.InspectUV(c.Request().Context(), lat, lon)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, inspection, "")
}

// InspectSubscribers runs the grid-distance check over the registered
// addresses (capped), reusing region lookups for shared coordinates.
func (h *DebugHandler) InspectSubscribers(c echo.Context) error {
	results, err := h.uc.InspectSubscribers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, results, "")
}

func coordinateParams(c echo.Context) (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return 0, 0, err
	}

	lon, err = strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return 0, 0, err
	}

	return lat, lon, nil
}
