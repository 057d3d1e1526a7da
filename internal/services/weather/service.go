package weather

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

// ErrEmptyCity is returned before any network call when the city is blank.
var ErrEmptyCity = errors.New("city must not be empty")

type client interface {
	FetchTemperature(ctx context.Context, city string) (models.WeatherResult, error)
}

type fetchRecorder interface {
	ObserveFetch(outcome string, d time.Duration)
}

// Outcome is delivered once per asynchronous lookup.
type Outcome struct {
	City   string
	Result models.WeatherResult
	Err    error
}

type ServiceProvider struct {
	logger   zerolog.Logger
	client   client
	recorder fetchRecorder
}

func NewService(logger zerolog.Logger, cl client, recorder fetchRecorder) *ServiceProvider {
	return &ServiceProvider{client: cl, logger: logger, recorder: recorder}
}

// GetByCity guards the query and runs the fetch pipeline once.
func (s *ServiceProvider) GetByCity(ctx context.Context, city string) (models.WeatherResult, error) {
	if city == "" {
		s.logger.Warn().
			Ctx(ctx).
			Msg("rejected lookup with empty city")
		return models.WeatherResult{}, ErrEmptyCity
	}

	s.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Msg("calling FetchTemperature")

	start := time.Now()
	data, err := s.client.FetchTemperature(ctx, city)
	s.observe(err, time.Since(start))
	if err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Str("kind", ErrorLabel(err)).
			Err(err).
			Msg("fetch failed")
		return models.WeatherResult{}, err
	}

	if math.IsNaN(data.TemperatureCelsius) {
		s.logger.Warn().
			Ctx(ctx).
			Str("city", city).
			Msg("temperature is NaN")
	}

	s.logger.Info().
		Ctx(ctx).
		Str("city", city).
		Float64("temperature_c", data.TemperatureCelsius).
		Msg("fetch succeeded")
	return data, nil
}

// FetchAsync starts the lookup in its own goroutine. The returned channel
// yields exactly one Outcome and is then closed. Overlapping calls are not
// coordinated.
func (s *ServiceProvider) FetchAsync(ctx context.Context, query models.WeatherQuery) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		res, err := s.GetByCity(ctx, query.City)
		out <- Outcome{City: query.City, Result: res, Err: err}
	}()
	return out
}

func (s *ServiceProvider) observe(err error, d time.Duration) {
	if s.recorder == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = ErrorLabel(err)
	}
	s.recorder.ObserveFetch(outcome, d)
}
