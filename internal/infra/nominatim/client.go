// Package nominatim reverse-geocodes coordinates through the OpenStreetMap
// Nominatim API into the region label shown in alert mails.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"uvalert/config"
	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/service"
	"uvalert/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const reversePath = "/reverse"

// Params defines the parameters required for the geocoding client
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

type client struct {
	baseURL    string
	zoom       int
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates the Nominatim-backed geocode service.
func New(params Params) service.GeocodeService {
	cfg := params.Config.Nominatim

	return &client{
		baseURL:   cfg.BaseURL,
		zoom:      cfg.Zoom,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: params.Logger,
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		City          string `json:"city"`
		Town          string `json:"town"`
		Municipality  string `json:"municipality"`
		Village       string `json:"village"`
		Hamlet        string `json:"hamlet"`
		State         string `json:"state"`
		Region        string `json:"region"`
		StateDistrict string `json:"state_district"`
	} `json:"address"`
}

// Resolve turns coordinates into a "City – State" label, degrading to the
// best available single field and finally to the raw coordinates. Lookup
// failures are logged and never propagated.
func (c *client) Resolve(ctx context.Context, lat, lon float64) entity.RegionLabel {
	place, err := c.reverse(ctx, lat, lon)
	if err != nil {
		c.logger.WarnContext(ctx, "reverse geocode failed",
			slog.Float64("lat", lat),
			slog.Float64("lon", lon),
			slog.Any("error", err))

		return coordinateLabel(lat, lon)
	}

	city := firstNonEmpty(
		place.Address.City,
		place.Address.Town,
		place.Address.Municipality,
		place.Address.Village,
		place.Address.Hamlet,
	)
	state := firstNonEmpty(
		place.Address.State,
		place.Address.Region,
		place.Address.StateDistrict,
	)

	switch {
	case city != "" && state != "":
		return entity.RegionLabel{Display: city + " – " + state}
	case city != "":
		return entity.RegionLabel{Display: city}
	case state != "":
		return entity.RegionLabel{Display: state}
	default:
		return coordinateLabel(lat, lon)
	}
}

func (c *client) reverse(ctx context.Context, lat, lon float64) (*reverseResponse, error) {
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("zoom", strconv.Itoa(c.zoom))
	query.Set("addressdetails", "1")

	endpoint := c.baseURL + reversePath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build reverse geocode request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "reverse geocode request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

		return nil, errors.Errorf("reverse geocode error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var payload reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode reverse geocode response")
	}

	return &payload, nil
}

func coordinateLabel(lat, lon float64) entity.RegionLabel {
	return entity.RegionLabel{
		Display:        util.FormatCoordinates(lat, lon),
		RawCoordinates: true,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
