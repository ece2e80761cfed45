package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"uvalert/internal/delivery/http/response"
	"uvalert/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReportHandler serves the pre-computed incidence and forecast series.
type ReportHandler struct {
	uc     usecase.ReportUsecase
	logger *slog.Logger
}

// NewReportHandler is the constructor for ReportHandler, injected by Fx.
func NewReportHandler(uc usecase.ReportUsecase, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		uc:     uc,
		logger: logger,
	}
}

// AnnualIncidence returns yearly case counts.
func (h *ReportHandler) AnnualIncidence(c echo.Context) error {
	start, end := yearRangeParams(c)

	rows, err := h.uc.AnnualIncidence(c.Request().Context(), start, end)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, rows, "")
}

// Forecast returns the pre-computed forecast series for one model.
func (h *ReportHandler) Forecast(c echo.Context) error {
	rows, err := h.uc.Forecast(c.Request().Context(), c.QueryParam("model"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, rows, "")
}

// Correlation returns yearly incidence joined with mean UV.
func (h *ReportHandler) Correlation(c echo.Context) error {
	start, end := yearRangeParams(c)

	rows, err := h.uc.Correlation(c.Request().Context(), start, end)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, rows, "")
}

// Charts returns every dashboard series in one payload.
func (h *ReportHandler) Charts(c echo.Context) error {
	start, end := yearRangeParams(c)

	out, err := h.uc.Charts(c.Request().Context(), start, end)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, out, "")
}

// yearRangeParams parses start/end; zero means "use the default window".
func yearRangeParams(c echo.Context) (start, end int) {
	start, _ = strconv.Atoi(c.QueryParam("start"))
	end, _ = strconv.Atoi(c.QueryParam("end"))

	return start, end
}
