package impl

import (
	"context"
	"log/slog"

	"uvalert/internal/domain/entity"
	domainerrors "uvalert/internal/domain/errors"
	"uvalert/internal/domain/repository"
	"uvalert/internal/domain/service"
	"uvalert/internal/usecase"
	"uvalert/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxInspectedSubscribers caps the batch diagnostic; inspecting the whole
// table would hammer the provider from a single request.
const maxInspectedSubscribers = 50

// diagnosticsService implements the DiagnosticsUsecase interface.
type diagnosticsService struct {
	subscriberRepo repository.SubscriberRepository
	uvService      service.UVService
	geocodeService service.GeocodeService
	logger         *slog.Logger
}

// DiagnosticsServiceParams holds dependencies for diagnosticsService, injected by Fx.
type DiagnosticsServiceParams struct {
	fx.In

	SubscriberRepo repository.SubscriberRepository
	UVService      service.UVService
	GeocodeService service.GeocodeService
	Logger         *slog.Logger
}

// NewDiagnosticsService is the constructor for diagnosticsService.
func NewDiagnosticsService(params DiagnosticsServiceParams) usecase.DiagnosticsUsecase {
	return &diagnosticsService{
		subscriberRepo: params.SubscriberRepo,
		uvService:      params.UVService,
		geocodeService: params.GeocodeService,
		logger:         params.Logger,
	}
}

// InspectUV surfaces provider errors directly; the diagnostic endpoint has
// no degraded mode, an operator wants to see the failure.
func (srv *diagnosticsService) InspectUV(ctx context.Context, lat, lon float64) (*entity.UVInspection, error) {
	if !util.ValidCoordinate(lat, lon) {
		return nil, domainerrors.ErrInvalidInput.WithDetails("latitude/longitude outside valid bounds")
	}

	inspection, err := srv.uvService.Inspect(ctx, lat, lon)
	if err != nil {
		srv.logger.WarnContext(ctx, "uv inspection failed",
			slog.Float64("lat", lat),
			slog.Float64("lon", lon),
			slog.Any("error", err))

		return nil, domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	}

	return inspection, nil
}

// InspectSubscribers runs the grid-distance check over the first
// maxInspectedSubscribers registered addresses. Resolved region labels are
// cached per coordinate pair so co-located subscribers cost one lookup.
// A provider failure lands in that subscriber's entry, never aborts the batch.
func (srv *diagnosticsService) InspectSubscribers(ctx context.Context) ([]usecase.SubscriberInspection, error) {
	subscribers, err := srv.subscriberRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subscribers for inspection")
	}

	if len(subscribers) > maxInspectedSubscribers {
		subscribers = subscribers[:maxInspectedSubscribers]
	}

	regionCache := make(map[string]entity.RegionLabel, len(subscribers))
	results := make([]usecase.SubscriberInspection, 0, len(subscribers))
	for _, subscriber := range subscribers {
		cacheKey := util.FormatCoordinates(subscriber.Latitude, subscriber.Longitude)
		region, cached := regionCache[cacheKey]
		if !cached {
			region = srv.geocodeService.Resolve(ctx, subscriber.Latitude, subscriber.Longitude)
			regionCache[cacheKey] = region
		}

		entry := usecase.SubscriberInspection{
			Email:  subscriber.Email,
			Region: region,
		}

		inspection, err := srv.uvService.Inspect(ctx, subscriber.Latitude, subscriber.Longitude)
		if err != nil {
			srv.logger.WarnContext(ctx, "subscriber uv inspection failed",
				slog.String("email", subscriber.Email),
				slog.Any("error", err))
			entry.Error = err.Error()
		} else {
			entry.Inspection = inspection
		}

		results = append(results, entry)
	}

	return results, nil
}

// Snapshot runs the same lookups a dispatch cycle would for one coordinate
// pair, without touching any subscriber or sending mail.
func (srv *diagnosticsService) Snapshot(ctx context.Context, lat, lon float64) (*usecase.UVSnapshot, error) {
	if !util.ValidCoordinate(lat, lon) {
		return nil, domainerrors.ErrInvalidInput.WithDetails("latitude/longitude outside valid bounds")
	}

	region := srv.geocodeService.Resolve(ctx, lat, lon)
	dailyMax := srv.uvService.DailyMax(ctx, lat, lon)
	current := srv.uvService.Current(ctx, lat, lon)

	return &usecase.UVSnapshot{
		Region:   region,
		DailyMax: dailyMax,
		Current:  current,
		Advisory: selectAdvisory(dailyMax, current),
	}, nil
}
