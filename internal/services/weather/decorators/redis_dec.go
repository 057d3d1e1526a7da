package decorators

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
	"github.com/Nazarious-ucu/weather-lookup/internal/services/cache"
)

type weatherGetterService interface {
	GetByCity(ctx context.Context, city string) (models.WeatherResult, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedService is a read-through cache in front of the lookup service. Only
// successful results are stored, so failures are always fresh.
type CachedService struct {
	inner  weatherGetterService
	cache  cacheClient[models.WeatherResult]
	logger zerolog.Logger
}

func NewCachedService(
	inner weatherGetterService,
	cache cacheClient[models.WeatherResult],
	logger zerolog.Logger,
) *CachedService {
	return &CachedService{inner: inner, cache: cache, logger: logger}
}

func Key(city string) string {
	return "weather:temperature:" + strings.ToLower(strings.TrimSpace(city))
}

func (s *CachedService) GetByCity(ctx context.Context, city string) (models.WeatherResult, error) {
	if city == "" {
		return s.inner.GetByCity(ctx, city)
	}
	key := Key(city)

	result, err := s.cache.Get(ctx, key)
	if err == nil {
		s.logger.Info().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Msg("cache hit")
		return result, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().
			Ctx(ctx).
			Str("key", key).
			Err(err).
			Msg("cache unavailable, falling through")
	}

	result, err = s.inner.GetByCity(ctx, city)
	if err != nil {
		return models.WeatherResult{}, err
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("city", city).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return result, nil
}
