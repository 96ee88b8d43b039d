package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-locations/internal/weather"
)

type reverseFunc func(geocoder.Location) ([]geocoder.Address, error)

// GoogleReverseGeocoder names coordinates with the Google Geocoding API.
type GoogleReverseGeocoder struct {
	lookup  reverseFunc
	timeout time.Duration
}

// NewGoogleReverseGeocoder returns nil when apiKey is empty so callers fall
// back to coordinate names. Each lookup is bounded by timeout.
func NewGoogleReverseGeocoder(apiKey string, timeout time.Duration) *GoogleReverseGeocoder {
	if apiKey == "" {
		return nil
	}
	// The client reads its key from a package variable.
	geocoder.ApiKey = apiKey
	return &GoogleReverseGeocoder{lookup: geocoder.GeocodingReverse, timeout: timeout}
}

type reverseResult struct {
	addresses []geocoder.Address
	err       error
}

// Reverse returns the first address for the coordinates. The geocoder client
// takes no context and has no timeout of its own, so the lookup runs in its
// own goroutine and ctx plus the configured timeout bound how long we wait.
func (g *GoogleReverseGeocoder) Reverse(ctx context.Context, lat, lon float64) (weather.Place, error) {
	if g == nil {
		return weather.Place{}, weather.NewError(weather.ErrUnavailable, "reverse geocoding is not configured")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	done := make(chan reverseResult, 1)
	go func() {
		addrs, err := g.lookup(geocoder.Location{Latitude: lat, Longitude: lon})
		done <- reverseResult{addresses: addrs, err: err}
	}()

	var res reverseResult
	select {
	case <-ctx.Done():
		return weather.Place{}, fmt.Errorf("reverse geocoding: %w: %w", weather.ErrUnavailable, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return weather.Place{}, res.err
	}
	if len(res.addresses) == 0 {
		return weather.Place{}, weather.NewError(weather.ErrNotFound, "no address for coordinates")
	}

	addr := res.addresses[0]
	name := addr.City
	if name == "" {
		name = addr.FormattedAddress
	}
	return weather.Place{
		Name:      name,
		Region:    addr.State,
		Country:   addr.Country,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}
