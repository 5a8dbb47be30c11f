package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rmrobinson/weatherbox/services/weather"
	"go.uber.org/zap"
)

const (
	// DefaultEndpoint is the public OpenWeatherMap API.
	DefaultEndpoint = "https://api.openweathermap.org"

	currentPath = "/data/2.5/weather"
	geocodePath = "/geo/1.0/direct"
)

var (
	// ErrUnexpectedStatus is returned if the API responds with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrMalformedReport is returned if a current conditions response is missing required fields.
	ErrMalformedReport = errors.New("malformed weather report")
)

// Option customizes a Service.
type Option func(*Service)

// WithEndpoint overrides the API base URL.
func WithEndpoint(endpoint string) Option {
	return func(s *Service) {
		s.endpoint = endpoint
	}
}

// WithHTTPClient overrides the client used to make requests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// Service retrieves current conditions and place names from OpenWeatherMap.
// All values are requested in metric units.
type Service struct {
	logger *zap.Logger

	endpoint string
	apiKey   string
	client   *http.Client
}

// NewService creates a new OpenWeatherMap service using the supplied API key.
func NewService(logger *zap.Logger, apiKey string, opts ...Option) *Service {
	s := &Service{
		logger:   logger,
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCurrentReport retrieves the current conditions for the named city.
func (s *Service) GetCurrentReport(ctx context.Context, city string) (*weather.Report, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", s.apiKey)
	params.Set("units", "metric")

	body := &currentResponse{}
	if err := s.get(ctx, currentPath, params, body); err != nil {
		return nil, err
	}

	if body.Name == "" || body.Sys == nil || body.Main == nil || body.Wind == nil || len(body.Weather) < 1 {
		s.logger.Info("report missing conditions",
			zap.String("city", city),
		)
		return nil, ErrMalformedReport
	}

	report := &weather.Report{
		Name:               body.Name,
		Country:            body.Sys.Country,
		TemperatureCelsius: body.Main.Temp,
		FeelsLikeCelsius:   body.Main.FeelsLike,
		HumidityPercentage: body.Main.Humidity,
		WindSpeedMPerSec:   body.Wind.Speed,
		Condition:          body.Weather[0].Main,
		Description:        body.Weather[0].Description,
	}
	return report, nil
}

// FindPlaces retrieves up to limit places matching the free-text query.
// A response which isn't a JSON array is treated as having no places.
func (s *Service) FindPlaces(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("appid", s.apiKey)

	var raw json.RawMessage
	if err := s.get(ctx, geocodePath, params, &raw); err != nil {
		return nil, err
	}

	var entries []geocodeEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Debug("geocode response is not a list",
			zap.String("query", query),
			zap.Error(err),
		)
		return nil, nil
	}

	places := make([]weather.Place, 0, len(entries))
	for _, entry := range entries {
		places = append(places, weather.Place{
			Name:    entry.Name,
			State:   entry.State,
			Country: entry.Country,
		})
	}
	return places, nil
}

func (s *Service) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	u := s.endpoint + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		s.logger.Warn("error creating new request",
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("error performing request",
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.logger.Info("received non-OK response",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		s.logger.Warn("error decoding response",
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	return nil
}
