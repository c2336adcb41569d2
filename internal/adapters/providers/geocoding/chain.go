package geocoding

import (
	"context"
	"time"

	"github.com/carepath/snf-navigator/internal/infrastructure/observability"

	"github.com/carepath/snf-navigator/internal/domain/providers"

	apperrors "github.com/carepath/snf-navigator/pkg/errors"
)

// Chain tries an ordered list of geocoders until one succeeds. Each provider
// call is bounded by a per-provider timeout; exhausting the chain yields a
// GEOCODING_FAILED error.
type Chain struct {
	geocoders []providers.Geocoder
	timeout   time.Duration
}

// NewChain creates a geocoder chain with the given provider order
func NewChain(timeout time.Duration, geocoders ...providers.Geocoder) *Chain {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &Chain{
		geocoders: geocoders,
		timeout:   timeout,
	}
}

// Name identifies the chain itself when used as a Geocoder
func (c *Chain) Name() string {
	return "chain"
}

// Geocode tries each provider in order and returns the first success.
func (c *Chain) Geocode(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, error) {
	result, _, err := c.Resolve(ctx, req)
	return result, err
}

// Resolve geocodes through the chain and reports which provider won.
func (c *Chain) Resolve(ctx context.Context, req providers.GeocodeRequest) (*providers.GeocodeResult, string, error) {
	logger := observability.LoggerFromContext(ctx)

	var lastErr error
	for _, geocoder := range c.geocoders {
		providerCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := geocoder.Geocode(providerCtx, req)
		cancel()

		if err == nil && result != nil {
			return result, geocoder.Name(), nil
		}
		lastErr = err
		logger.Debug().Err(err).Str("provider", geocoder.Name()).
			Str("city", req.City).Str("state", req.State).
			Msg("geocoder provider failed, trying next")
	}

	return nil, "", apperrors.NewGeocodingError("all geocoding providers failed", lastErr)
}
