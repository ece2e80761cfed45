// Package openweather resolves UV index readings from the OpenWeatherMap
// API, chaining the paid one-call forecast with the free short-horizon
// forecast endpoint.
package openweather

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"uvalert/config"
	"uvalert/internal/domain"
	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/service"
	"uvalert/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	oneCallPath     = "/data/2.5/onecall"
	uviPath         = "/data/2.5/uvi"
	uviForecastPath = "/data/2.5/uvi/forecast"

	// forecastCount bounds the fallback window to ~24h of 3-hour buckets.
	forecastCount = 8

	// maxGridDistanceKm is how far the provider's answering grid point may
	// sit from the requested coordinates before a diagnostic reading is
	// flagged as not representative.
	maxGridDistanceKm = 5.0
)

// Params defines the parameters required for the UV client
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates the OpenWeatherMap-backed UV service.
func New(params Params) service.UVService {
	cfg := params.Config.OpenWeather

	return &client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: params.Logger,
	}
}

func (c *client) DailyMax(ctx context.Context, lat, lon float64) entity.UVReading {
	degraded := entity.UVReading{
		Source:     entity.UVSourceNone,
		ObservedAt: domain.Clock().Now().UTC(),
	}

	return util.ResolveWithFallback(ctx,
		func(ctx context.Context) (entity.UVReading, error) {
			return c.oneCallDailyMax(ctx, lat, lon)
		},
		entity.UVReading.HasValue,
		func(ctx context.Context) (entity.UVReading, error) {
			return c.forecastDailyMax(ctx, lat, lon)
		},
		degraded,
	)
}

func (c *client) Current(ctx context.Context, lat, lon float64) entity.UVReading {
	raw, err := c.fetchInstant(ctx, lat, lon)
	if err != nil {
		c.logger.WarnContext(ctx, "instant uv lookup failed",
			slog.Float64("lat", lat),
			slog.Float64("lon", lon),
			slog.Any("error", err))

		return entity.UVReading{
			Source:     entity.UVSourceNone,
			ObservedAt: domain.Clock().Now().UTC(),
		}
	}

	// A 200 without a value field carries no reading; treating it as 0.0
	// would misreport a low index.
	if raw.Value == nil {
		c.logger.WarnContext(ctx, "instant uv response carried no value",
			slog.Float64("lat", lat),
			slog.Float64("lon", lon))

		return entity.UVReading{
			Source:     entity.UVSourceNone,
			ObservedAt: domain.Clock().Now().UTC(),
		}
	}

	value := *raw.Value

	return entity.UVReading{
		Value:      &value,
		Source:     entity.UVSourceInstant,
		ObservedAt: parseObservedAt(raw.DateISO),
	}
}

func (c *client) Inspect(ctx context.Context, lat, lon float64) (*entity.UVInspection, error) {
	raw, err := c.fetchInstant(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	distance := util.HaversineKm(lat, lon, raw.Lat, raw.Lon)

	var value *float64
	if raw.Value != nil {
		v := *raw.Value
		value = &v
	}

	return &entity.UVInspection{
		InputLatitude:     lat,
		InputLongitude:    lon,
		ProviderLatitude:  raw.Lat,
		ProviderLongitude: raw.Lon,
		DistanceKm:        distance,
		UVValue:           value,
		ObservedAt:        parseObservedAt(raw.DateISO),
		Valid:             value != nil && distance <= maxGridDistanceKm,
	}, nil
}

type oneCallResponse struct {
	Daily []struct {
		UVI *float64 `json:"uvi"`
	} `json:"daily"`
}

// oneCallDailyMax resolves today's forecast peak from the one-call API.
// A response without daily[0].uvi yields a source-less reading so the
// caller falls through to the forecast endpoint.
func (c *client) oneCallDailyMax(ctx context.Context, lat, lon float64) (entity.UVReading, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("exclude", "minutely,hourly,alerts")
	query.Set("appid", c.apiKey)

	var payload oneCallResponse
	if err := c.getJSON(ctx, oneCallPath, query, &payload); err != nil {
		return entity.UVReading{Source: entity.UVSourceNone}, err
	}

	if len(payload.Daily) == 0 || payload.Daily[0].UVI == nil {
		return entity.UVReading{Source: entity.UVSourceNone}, nil
	}

	value := *payload.Daily[0].UVI

	return entity.UVReading{
		Value:      &value,
		Source:     entity.UVSourcePrimary,
		ObservedAt: domain.Clock().Now().UTC(),
	}, nil
}

type forecastEntry struct {
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	DateISO string   `json:"date_iso"`
	Value   *float64 `json:"value"`
}

// forecastDailyMax resolves the peak from the free forecast endpoint.
// Samples stamped with the current UTC calendar day are preferred; when
// none match the whole returned window is used as a last resort.
func (c *client) forecastDailyMax(ctx context.Context, lat, lon float64) (entity.UVReading, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("cnt", strconv.Itoa(forecastCount))
	query.Set("appid", c.apiKey)

	var samples []forecastEntry
	if err := c.getJSON(ctx, uviForecastPath, query, &samples); err != nil {
		return entity.UVReading{Source: entity.UVSourceNone}, err
	}

	today := domain.Clock().Now().UTC().Format(time.DateOnly)

	var (
		todayMax   float64
		todaySeen  bool
		windowMax  float64
		windowSeen bool
	)
	for _, sample := range samples {
		// Samples without a value carry no reading and never count.
		if sample.Value == nil {
			continue
		}

		v := *sample.Value
		if !windowSeen || v > windowMax {
			windowMax = v
			windowSeen = true
		}
		if len(sample.DateISO) >= len(today) && sample.DateISO[:len(today)] == today {
			if !todaySeen || v > todayMax {
				todayMax = v
				todaySeen = true
			}
		}
	}

	if !windowSeen {
		return entity.UVReading{Source: entity.UVSourceNone}, nil
	}

	value := windowMax
	if todaySeen {
		value = todayMax
	} else {
		c.logger.WarnContext(ctx, "no forecast sample for today, using window max",
			slog.Float64("lat", lat),
			slog.Float64("lon", lon))
	}

	return entity.UVReading{
		Value:      &value,
		Source:     entity.UVSourceFallback,
		ObservedAt: domain.Clock().Now().UTC(),
	}, nil
}

type instantResponse struct {
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	DateISO string   `json:"date_iso"`
	Value   *float64 `json:"value"`
}

func (c *client) fetchInstant(ctx context.Context, lat, lon float64) (*instantResponse, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("appid", c.apiKey)

	var payload instantResponse
	if err := c.getJSON(ctx, uviPath, query, &payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build uv request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "uv request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

		return errors.Errorf("uv request error: path=%s status=%d body=%s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode uv response")
	}

	return nil
}

func parseObservedAt(dateISO string) time.Time {
	if ts, err := time.Parse(time.RFC3339, dateISO); err == nil {
		return ts
	}

	return domain.Clock().Now().UTC()
}
