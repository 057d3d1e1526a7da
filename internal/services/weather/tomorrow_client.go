package weather

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/logger"
)

const (
	DefaultTomorrowURL = "https://api.tomorrow.io/v4/weather/realtime"

	tracerName = "github.com/Nazarious-ucu/weather-lookup/weather"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientTomorrow fetches the realtime temperature from tomorrow.io.
type ClientTomorrow struct {
	APIKey string
	apiURL string
	strict bool
	client HTTPClient
	logger zerolog.Logger
	tracer trace.Tracer
}

type Option func(*ClientTomorrow)

// WithUnknownFieldsAllowed relaxes decoding so extra payload fields are ignored.
func WithUnknownFieldsAllowed() Option {
	return func(c *ClientTomorrow) {
		c.strict = false
	}
}

func NewClientTomorrow(
	apiKey, apiURL string,
	httpClient HTTPClient,
	logger zerolog.Logger,
	opts ...Option,
) *ClientTomorrow {
	c := &ClientTomorrow{
		APIKey: apiKey,
		apiURL: apiURL,
		strict: true,
		client: httpClient,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTemperature runs one request/response round trip and returns the
// Celsius reading. It never retries and never caches.
func (s *ClientTomorrow) FetchTemperature(ctx context.Context, city string) (models.WeatherResult, error) {
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "tomorrow.FetchTemperature",
		trace.WithAttributes(attribute.String("weather.city", city)))
	defer span.End()

	result, err := s.fetch(ctx, city)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorLabel(err))
		s.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("city", city).
			Str("state", "failed").
			Str("kind", ErrorLabel(err)).
			Dur("duration_ms", time.Since(start)).
			Msg("tomorrow.io fetch failed")
		return models.WeatherResult{}, err
	}

	s.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Str("state", "done").
		Float64("temperature_c", result.TemperatureCelsius).
		Dur("duration_ms", time.Since(start)).
		Msg("successfully fetched temperature")

	return result, nil
}

func (s *ClientTomorrow) fetch(ctx context.Context, city string) (models.WeatherResult, error) {
	s.state(ctx, city, "building_request")
	endpoint, err := s.buildURL(city)
	if err != nil {
		return models.WeatherResult{}, newFetchError(InvalidURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.WeatherResult{}, newFetchError(InvalidURL, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	s.state(ctx, city, "awaiting_response")
	resp, err := s.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = logger.RedactURL(uerr.URL)
		}
		return models.WeatherResult{}, &TransportError{Err: err}
	}
	if resp == nil {
		return models.WeatherResult{}, newFetchError(InvalidResponse, errors.New("no HTTP response"))
	}
	defer func() {
		if resp.Body == nil {
			return
		}
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error().
				Ctx(ctx).
				Err(cerr).
				Str("city", city).
				Msg("failed to close response body")
		}
	}()

	s.state(ctx, city, "validating_status")
	if resp.StatusCode != http.StatusOK {
		return models.WeatherResult{}, &FetchError{Kind: InvalidResponse, StatusCode: resp.StatusCode}
	}
	if resp.Body == nil {
		return models.WeatherResult{}, newFetchError(InvalidData, errors.New("empty body"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherResult{}, &TransportError{Err: err}
	}

	s.state(ctx, city, "decoding_body")
	raw, err := decodeResponse(body, s.strict)
	if err != nil {
		return models.WeatherResult{}, newFetchError(InvalidData, err)
	}

	return models.WeatherResult{TemperatureCelsius: *raw.Data.Values.Temperature}, nil
}

// buildURL composes the request URL. The base endpoint must be absolute.
func (s *ClientTomorrow) buildURL(city string) (string, error) {
	u, err := url.Parse(s.apiURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("endpoint must be an absolute URL: " + s.apiURL)
	}

	q := u.Query()
	q.Set("location", city)
	q.Set("apikey", s.APIKey)
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (s *ClientTomorrow) state(ctx context.Context, city, state string) {
	s.logger.Debug().
		Ctx(ctx).
		Str("city", city).
		Str("state", state).
		Msg("tomorrow.io pipeline")
}
