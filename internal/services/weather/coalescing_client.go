package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Nazarious-ucu/weather-lookup/internal/models"
)

const defaultSharedCallTimeout = 10 * time.Second

// CoalescingClient keeps an in-flight request map keyed by city so concurrent
// lookups of the same city share one upstream call. It is opt-in; without it
// overlapping lookups race.
type CoalescingClient struct {
	group   singleflight.Group
	wrapped client
	logger  zerolog.Logger
	timeout time.Duration
}

// NewCoalescingClient wraps a client. timeout bounds every shared call so a
// provider that never answers cannot pin a city's in-flight entry; a
// non-positive value falls back to ten seconds.
func NewCoalescingClient(wrapped client, logger zerolog.Logger, timeout time.Duration) *CoalescingClient {
	if timeout <= 0 {
		timeout = defaultSharedCallTimeout
	}
	return &CoalescingClient{wrapped: wrapped, logger: logger, timeout: timeout}
}

func (c *CoalescingClient) FetchTemperature(ctx context.Context, city string) (models.WeatherResult, error) {
	ch := c.group.DoChan(city, func() (interface{}, error) {
		// The shared call outlives any single caller's cancellation, not its own deadline.
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.wrapped.FetchTemperature(sharedCtx, city)
	})

	select {
	case <-ctx.Done():
		return models.WeatherResult{}, &TransportError{Err: ctx.Err()}
	case res := <-ch:
		if res.Shared {
			c.logger.Debug().
				Ctx(ctx).
				Str("city", city).
				Msg("joined in-flight request")
		}
		if res.Err != nil {
			return models.WeatherResult{}, res.Err
		}
		data, ok := res.Val.(models.WeatherResult)
		if !ok {
			return models.WeatherResult{}, fmt.Errorf("coalesced call returned %T", res.Val)
		}
		return data, nil
	}
}
