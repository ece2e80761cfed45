package usecase

import (
	"context"

	"uvalert/internal/domain/entity"
)

// ChartsOutput bundles every series the dashboard draws in one response.
type ChartsOutput struct {
	Incidence   []entity.AnnualIncidence `json:"incidence"`
	ARIMA       []entity.ForecastPoint   `json:"arima"`
	ETS         []entity.ForecastPoint   `json:"ets"`
	Correlation []entity.CorrelationRow  `json:"correlation"`
}

// ReportUsecase reads the externally pre-computed analytical series.
type ReportUsecase interface {
	AnnualIncidence(ctx context.Context, start, end int) ([]entity.AnnualIncidence, error)
	Forecast(ctx context.Context, model string) ([]entity.ForecastPoint, error)
	Correlation(ctx context.Context, start, end int) ([]entity.CorrelationRow, error)
	Charts(ctx context.Context, start, end int) (*ChartsOutput, error)
}
