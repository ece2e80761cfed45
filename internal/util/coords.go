package util

import (
	"fmt"
	"math"
)

// FormatCoordinates renders a lat/lon pair to 4 decimal places, the degraded
// region label used when reverse geocoding yields nothing.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// ValidCoordinate reports whether a lat/lon pair is inside Earth bounds and
// free of NaN/Inf.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
