package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm_SamePointIsZero(t *testing.T) {
	assert.InDelta(t, 0, HaversineKm(-23.55, -46.63, -23.55, -46.63), 1e-9)
}

func TestHaversineKm_KnownCityPair(t *testing.T) {
	// São Paulo to Rio de Janeiro, roughly 360 km great-circle.
	dist := HaversineKm(-23.5505, -46.6333, -22.9068, -43.1729)
	assert.InDelta(t, 360.75, dist, 4.0)
}

func TestHaversineKm_Symmetric(t *testing.T) {
	d1 := HaversineKm(10, 20, 30, 40)
	d2 := HaversineKm(30, 40, 10, 20)
	assert.InDelta(t, d1, d2, 1e-9)
}
