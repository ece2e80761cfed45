package service

import (
	"context"

	"uvalert/internal/domain/entity"
)

// GeocodeService reverse-geocodes coordinates into a region label.
// Resolve never fails: any lookup error degrades to the raw-coordinate
// label.
type GeocodeService interface {
	Resolve(ctx context.Context, lat, lon float64) entity.RegionLabel
}
