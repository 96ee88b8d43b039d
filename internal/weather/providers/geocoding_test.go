package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-locations/internal/weather"
)

func TestDisplayName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, region, country, want string
	}{
		{"Austin", "Texas", "United States", "Austin, Texas"},
		{"Paris", "Île-de-France", "France", "Paris, Île-de-France, France"},
		{"Monaco", "", "Monaco", "Monaco, Monaco"},
		{"Nowhere", "", "United States", "Nowhere"},
		{"Atlantis", "", "", "Atlantis"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, displayName(tt.name, tt.region, tt.country))
	}
}

func TestSearchLocation_FirstResult(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("name"))
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		w.Write([]byte(`{"results":[{"name":"Paris","admin1":"Île-de-France","country":"France","latitude":48.85341,"longitude":2.3488}]}`))
	}))
	defer server.Close()

	g := NewOpenMeteoGeocoder(server.URL, testHTTPConfig(server.Client(), 0))
	place, err := g.SearchLocation(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, weather.Place{
		Name:      "Paris, Île-de-France, France",
		Region:    "Île-de-France",
		Country:   "France",
		Latitude:  48.85341,
		Longitude: 2.3488,
	}, place)
}

func TestSearchLocation_NoResults(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generationtime_ms":0.2}`))
	}))
	defer server.Close()

	g := NewOpenMeteoGeocoder(server.URL, testHTTPConfig(server.Client(), 0))
	_, err := g.SearchLocation(context.Background(), "Qwertyuiop")
	assert.ErrorIs(t, err, weather.ErrNotFound)
	assert.Equal(t, "Location not found. Please check the spelling and try again.", err.Error())
}

func TestSearchLocation_ServiceDown(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := NewOpenMeteoGeocoder(server.URL, testHTTPConfig(server.Client(), 0))
	_, err := g.SearchLocation(context.Background(), "Paris")
	var upstream *weather.UpstreamError
	assert.True(t, errors.As(err, &upstream))
}

func TestReverse_UsesCityName(t *testing.T) {
	t.Parallel()
	g := &GoogleReverseGeocoder{lookup: func(loc geocoder.Location) ([]geocoder.Address, error) {
		assert.Equal(t, 51.5074, loc.Latitude)
		return []geocoder.Address{{City: "London", State: "England", Country: "United Kingdom"}}, nil
	}}

	place, err := g.Reverse(context.Background(), 51.5074, -0.1278)
	require.NoError(t, err)
	assert.Equal(t, "London", place.Name)
	assert.Equal(t, "England", place.Region)
	assert.Equal(t, "United Kingdom", place.Country)
}

func TestReverse_NoAddresses(t *testing.T) {
	t.Parallel()
	g := &GoogleReverseGeocoder{lookup: func(geocoder.Location) ([]geocoder.Address, error) {
		return nil, nil
	}}
	_, err := g.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, weather.ErrNotFound)
}

func TestReverse_HonoursContext(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)
	g := &GoogleReverseGeocoder{lookup: func(geocoder.Location) ([]geocoder.Address, error) {
		<-release
		return nil, nil
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := g.Reverse(ctx, 0, 0)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, weather.ErrUnavailable)
}

func TestReverse_TimesOutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)
	g := &GoogleReverseGeocoder{
		lookup: func(geocoder.Location) ([]geocoder.Address, error) {
			<-release
			return nil, nil
		},
		timeout: 20 * time.Millisecond,
	}

	start := time.Now()
	_, err := g.Reverse(context.Background(), 40.7128, -74.006)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewGoogleReverseGeocoder_DisabledWithoutKey(t *testing.T) {
	t.Parallel()
	g := NewGoogleReverseGeocoder("", time.Second)
	assert.Nil(t, g)

	_, err := g.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, weather.ErrUnavailable)
}
