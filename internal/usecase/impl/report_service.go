package impl

import (
	"context"
	"log/slog"

	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/repository"
	"uvalert/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Default year window when the caller provides none.
const (
	defaultReportStartYear = 2000
	defaultReportEndYear   = 2023
)

// reportService implements the ReportUsecase interface.
type reportService struct {
	reportRepo repository.ReportRepository
	logger     *slog.Logger
}

// ReportServiceParams holds dependencies for reportService, injected by Fx.
type ReportServiceParams struct {
	fx.In

	ReportRepo repository.ReportRepository
	Logger     *slog.Logger
}

// NewReportService is the constructor for reportService.
func NewReportService(params ReportServiceParams) usecase.ReportUsecase {
	return &reportService{
		reportRepo: params.ReportRepo,
		logger:     params.Logger,
	}
}

func (srv *reportService) AnnualIncidence(ctx context.Context, start, end int) ([]entity.AnnualIncidence, error) {
	start, end = normalizeYearRange(start, end)

	return srv.reportRepo.AnnualIncidence(ctx, start, end)
}

func (srv *reportService) Forecast(ctx context.Context, model string) ([]entity.ForecastPoint, error) {
	return srv.reportRepo.Forecast(ctx, model)
}

func (srv *reportService) Correlation(ctx context.Context, start, end int) ([]entity.CorrelationRow, error) {
	start, end = normalizeYearRange(start, end)

	return srv.reportRepo.Correlation(ctx, start, end)
}

// Charts aggregates every dashboard series in one call.
func (srv *reportService) Charts(ctx context.Context, start, end int) (*usecase.ChartsOutput, error) {
	start, end = normalizeYearRange(start, end)

	incidence, err := srv.reportRepo.AnnualIncidence(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "charts: incidence series")
	}

	arima, err := srv.reportRepo.Forecast(ctx, "ARIMA")
	if err != nil {
		return nil, errors.Wrap(err, "charts: arima series")
	}

	ets, err := srv.reportRepo.Forecast(ctx, "ETS")
	if err != nil {
		return nil, errors.Wrap(err, "charts: ets series")
	}

	correlation, err := srv.reportRepo.Correlation(ctx, start, end)
	if err != nil {
		return nil, errors.Wrap(err, "charts: correlation series")
	}

	return &usecase.ChartsOutput{
		Incidence:   incidence,
		ARIMA:       arima,
		ETS:         ets,
		Correlation: correlation,
	}, nil
}

func normalizeYearRange(start, end int) (int, int) {
	if start <= 0 {
		start = defaultReportStartYear
	}
	if end <= 0 {
		end = defaultReportEndYear
	}
	if end < start {
		start, end = end, start
	}

	return start, end
}
