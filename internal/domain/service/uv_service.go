package service

import (
	"context"

	"uvalert/internal/domain/entity"
)

// UVService resolves UV index readings for a coordinate pair.
//
// DailyMax and Current never return transport errors: any provider failure
// degrades to a reading with Source=NONE so the dispatch cycle can fall
// through to the "unavailable" guidance path.
type UVService interface {
	// DailyMax resolves today's peak UV index. The primary daily forecast is
	// tried first; on any failure or missing field the short-horizon
	// forecast endpoint fills in (today's samples preferred, whole window as
	// a last resort).
	DailyMax(ctx context.Context, lat, lon float64) entity.UVReading

	// Current resolves the instantaneous UV index. No fallback; it is a
	// secondary display value only.
	Current(ctx context.Context, lat, lon float64) entity.UVReading

	// Inspect fetches the instantaneous reading together with the
	// coordinates the provider actually answered for. Unlike the resolvers
	// above it returns transport failures to the caller; the diagnostic
	// surface has no degraded mode.
	Inspect(ctx context.Context, lat, lon float64) (*entity.UVInspection, error)
}
