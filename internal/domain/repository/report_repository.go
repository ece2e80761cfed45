package repository

import (
	"context"

	"uvalert/internal/domain/entity"
)

// ReportRepository reads the externally pre-computed incidence and forecast
// tables. Pure read-and-reshape; no statistics are produced in-process.
type ReportRepository interface {
	// AnnualIncidence returns yearly case counts within [start, end].
	AnnualIncidence(ctx context.Context, start, end int) ([]entity.AnnualIncidence, error)

	// Forecast returns the pre-computed forecast series for one model
	// ("ARIMA" or "ETS").
	Forecast(ctx context.Context, model string) ([]entity.ForecastPoint, error)

	// Correlation returns yearly incidence joined with mean UV within
	// [start, end].
	Correlation(ctx context.Context, start, end int) ([]entity.CorrelationRow, error)
}
