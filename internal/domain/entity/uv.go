package entity

import "time"

// UVSource identifies which provider endpoint actually produced a reading.
type UVSource string

const (
	// UVSourcePrimary means the one-call daily forecast answered.
	UVSourcePrimary UVSource = "PRIMARY"
	// UVSourceFallback means the free forecast endpoint filled the gap.
	UVSourceFallback UVSource = "FALLBACK"
	// UVSourceInstant means the instantaneous index endpoint answered.
	UVSourceInstant UVSource = "INSTANT"
	// UVSourceNone means no usable value could be obtained anywhere.
	UVSourceNone UVSource = "NONE"
)

// UVReading is an ephemeral UV index value produced fresh per notification
// cycle. Value is nil when Source is UVSourceNone.
type UVReading struct {
	Value      *float64  `json:"value"`
	Source     UVSource  `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
}

// HasValue reports whether the reading carries a usable UV index.
func (r UVReading) HasValue() bool {
	return r.Value != nil
}

// RegionLabel is the human-readable place derived from coordinates.
// When every lookup field is absent the label degrades to the raw
// coordinates formatted to 4 decimal places.
type RegionLabel struct {
	Display        string `json:"display"`
	RawCoordinates bool   `json:"raw_coordinates"`
}

// UVInspection is the diagnostic result comparing the requested coordinates
// against the grid point the provider actually answered for.
type UVInspection struct {
	InputLatitude     float64   `json:"input_lat"`
	InputLongitude    float64   `json:"input_lon"`
	ProviderLatitude  float64   `json:"provider_lat"`
	ProviderLongitude float64   `json:"provider_lon"`
	DistanceKm        float64   `json:"distance_km"`
	UVValue           *float64  `json:"uv"`
	ObservedAt        time.Time `json:"at"`
	Valid             bool      `json:"ok"`
}
