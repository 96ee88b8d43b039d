package providers

import (
	"context"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-locations/internal/weather"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1"

	geocodingProviderName = "Location search service"
	unitedStates          = "United States"
)

// OpenMeteoGeocoder implements weather.Geocoder with the Open-Meteo
// geocoding search API.
type OpenMeteoGeocoder struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoGeocoder(baseURL string, cfg HTTPClientConfig) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &OpenMeteoGeocoder{
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("openmeteo-geocoding", cfg.Logger),
	}
}

type geocodingPayload struct {
	Results []struct {
		Name      string   `json:"name"`
		Admin1    string   `json:"admin1"`
		Country   string   `json:"country"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"results"`
}

// SearchLocation returns the best match for query.
func (g *OpenMeteoGeocoder) SearchLocation(ctx context.Context, query string) (weather.Place, error) {
	values := url.Values{}
	values.Set("name", query)
	values.Set("count", "1")
	values.Set("language", "en")
	values.Set("format", "json")

	var payload geocodingPayload
	if err := getJSON(ctx, geocodingProviderName, g.baseURL+"/search?"+values.Encode(), g.httpCfg, g.circuit, &payload); err != nil {
		return weather.Place{}, err
	}
	if len(payload.Results) == 0 {
		return weather.Place{}, weather.NewError(weather.ErrNotFound,
			"Location not found. Please check the spelling and try again.")
	}

	r := payload.Results[0]
	if r.Latitude == nil || r.Longitude == nil {
		return weather.Place{}, &weather.MalformedDataError{Provider: geocodingProviderName, Field: "results.latitude"}
	}
	return weather.Place{
		Name:      displayName(r.Name, r.Admin1, r.Country),
		Region:    r.Admin1,
		Country:   r.Country,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}, nil
}

// displayName drops the country for US places and the region when unknown.
func displayName(name, region, country string) string {
	switch {
	case region != "" && country == unitedStates:
		return name + ", " + region
	case region != "" && country != "":
		return name + ", " + region + ", " + country
	case country != "" && country != unitedStates:
		return name + ", " + country
	default:
		return name
	}
}
