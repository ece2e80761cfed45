package usecase

import (
	"context"

	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/guidance"
)

// UVSnapshot is the diagnostic view of everything an alert mail would
// contain for a coordinate pair, without sending anything.
type UVSnapshot struct {
	Region   entity.RegionLabel `json:"region"`
	DailyMax entity.UVReading   `json:"daily_max"`
	Current  entity.UVReading   `json:"current"`
	Advisory guidance.Advisory  `json:"advisory"`
}

// SubscriberInspection pairs one registered address with the grid-distance
// check for its stored coordinates. Error carries a per-subscriber provider
// failure; the rest of the batch is unaffected.
type SubscriberInspection struct {
	Email      string               `json:"email"`
	Region     entity.RegionLabel   `json:"region"`
	Inspection *entity.UVInspection `json:"inspection,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// DiagnosticsUsecase backs the operator-facing debug endpoints.
type DiagnosticsUsecase interface {
	// InspectUV fetches an instantaneous reading and checks how far the
	// provider's answering grid point sits from the requested coordinates.
	InspectUV(ctx context.Context, lat, lon float64) (*entity.UVInspection, error)

	// InspectSubscribers runs the grid-distance check over the registered
	// addresses, capped to keep the endpoint cheap.
	InspectSubscribers(ctx context.Context) ([]SubscriberInspection, error)

	// Snapshot resolves region, readings and advisory for a coordinate
	// pair exactly as the dispatch cycle would.
	Snapshot(ctx context.Context, lat, lon float64) (*UVSnapshot, error)
}
