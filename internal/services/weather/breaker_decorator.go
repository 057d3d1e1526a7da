package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// BreakerClient short-circuits calls while the provider looks down. It never
// retries: an open circuit fails the call immediately.
type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped client
}

func NewBreakerClient(name string, cfg BreakerConfig, wrapped client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: providerHealthy,
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) FetchTemperature(ctx context.Context, city string) (models.WeatherResult, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.wrapped.FetchTemperature(ctx, city)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return models.WeatherResult{}, &TransportError{Err: fmt.Errorf("%s unavailable: %w", b.name, err)}
	}
	if err != nil {
		return models.WeatherResult{}, fmt.Errorf("%s unavailable: %w", b.name, err)
	}
	res, ok := result.(models.WeatherResult)
	if !ok {
		return models.WeatherResult{},
			fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}

// providerHealthy reports whether err says nothing bad about the provider
// itself. Bad input and unknown cities must not open the circuit.
func providerHealthy(err error) bool {
	if err == nil {
		return true
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case InvalidResponse:
			return fe.StatusCode != 0 && fe.StatusCode < http.StatusInternalServerError
		case InvalidURL:
			return true
		case InvalidData:
			return false
		}
	}
	return errors.Is(err, context.Canceled)
}
