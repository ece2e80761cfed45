package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"uvalert/config"
	"uvalert/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) service.GeocodeService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Nominatim: &config.NominatimConfig{
			BaseURL:   srv.URL,
			Zoom:      14,
			UserAgent: "uvalert-test/1.0",
			Timeout:   2 * time.Second,
		},
	}

	return New(Params{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestResolve_CityAndState(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, reversePath, r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "14", r.URL.Query().Get("zoom"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		assert.Equal(t, "uvalert-test/1.0", r.Header.Get("User-Agent"))

		_, _ = w.Write([]byte(`{"address":{"city":"São Paulo","state":"São Paulo"}}`))
	}))

	label := client.Resolve(context.Background(), -23.55, -46.63)

	assert.Equal(t, "São Paulo – São Paulo", label.Display)
	assert.False(t, label.RawCoordinates)
}

func TestResolve_CityFieldPriority(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{
			name:    "town over village",
			address: `{"town":"Paraty","village":"Trindade","state":"Rio de Janeiro"}`,
			want:    "Paraty – Rio de Janeiro",
		},
		{
			name:    "municipality when no city or town",
			address: `{"municipality":"Campinas","state":"São Paulo"}`,
			want:    "Campinas – São Paulo",
		},
		{
			name:    "hamlet as last city-like field",
			address: `{"hamlet":"Vila Pequena"}`,
			want:    "Vila Pequena",
		},
		{
			name:    "region when no state",
			address: `{"city":"Manaus","region":"Norte"}`,
			want:    "Manaus – Norte",
		},
		{
			name:    "state only",
			address: `{"state_district":"Grande São Paulo"}`,
			want:    "Grande São Paulo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"address":` + tt.address + `}`))
			}))

			label := client.Resolve(context.Background(), -23.55, -46.63)

			assert.Equal(t, tt.want, label.Display)
			assert.False(t, label.RawCoordinates)
		})
	}
}

func TestResolve_EmptyAddressFallsBackToCoordinates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"address":{}}`))
	}))

	label := client.Resolve(context.Background(), -23.55, -46.63)

	assert.Equal(t, "-23.5500, -46.6300", label.Display)
	assert.True(t, label.RawCoordinates)
}

func TestResolve_TransportErrorFallsBackToCoordinates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	label := client.Resolve(context.Background(), -23.5501, -46.6333)

	assert.Equal(t, "-23.5501, -46.6333", label.Display)
	assert.True(t, label.RawCoordinates)
}
