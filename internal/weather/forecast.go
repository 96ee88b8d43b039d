package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	nycLatitude  = 40.7128
	nycLongitude = -74.0060
	nycTimezone  = "America/New_York"

	forecastDays         = 7
	currentLocationLabel = "Current Location"
	geocodeKeyPrefix     = "geocode:"
)

var nycPlace = Place{
	Name:      "New York City",
	Region:    "New York",
	Country:   "United States",
	Latitude:  nycLatitude,
	Longitude: nycLongitude,
}

// ForecastOptions tunes ForecastService.
type ForecastOptions struct {
	// HourlyLimit caps the next-hours list of the current-location view.
	HourlyLimit int
	// GeocodeTTL is how long search results stay cached.
	GeocodeTTL time.Duration
}

// ForecastService serves live forecasts and location search.
type ForecastService struct {
	provider  ForecastProvider
	geocoder  Geocoder
	reverse   ReverseGeocoder
	cache     Cache
	formatter *Formatter
	opts      ForecastOptions
	logger    *zap.Logger
}

// NewForecastService wires a ForecastService. reverse and cache may be nil.
func NewForecastService(provider ForecastProvider, geocoder Geocoder, reverse ReverseGeocoder,
	cache Cache, formatter *Formatter, opts ForecastOptions, logger *zap.Logger) *ForecastService {
	if opts.HourlyLimit <= 0 {
		opts.HourlyLimit = 12
	}
	return &ForecastService{
		provider:  provider,
		geocoder:  geocoder,
		reverse:   reverse,
		cache:     cache,
		formatter: formatter,
		opts:      opts,
		logger:    logger,
	}
}

// NYCForecast returns the fixed seven-day New York City forecast.
func (s *ForecastService) NYCForecast(ctx context.Context) (WeatherResponse, error) {
	fc, err := s.provider.FetchForecast(ctx, nycLatitude, nycLongitude, forecastDays, nycTimezone)
	if err != nil {
		return WeatherResponse{}, fmt.Errorf("fetch nyc forecast: %w", err)
	}
	return s.formatter.Weather(fc, nycPlace), nil
}

// CurrentLocationHourly returns current conditions plus the next hours for a
// coordinate pair.
func (s *ForecastService) CurrentLocationHourly(ctx context.Context, lat, lon float64) (HourlyResponse, error) {
	fc, err := s.provider.FetchForecast(ctx, lat, lon, 1, "auto")
	if err != nil {
		return HourlyResponse{}, fmt.Errorf("fetch hourly forecast: %w", err)
	}
	place := s.namePlace(ctx, lat, lon)
	return HourlyResponse{
		Location: LocationInfo{
			Name:      place.Name,
			Region:    place.Region,
			Country:   place.Country,
			Localtime: s.formatter.Localtime(),
		},
		Current: s.formatter.Current(fc.Current),
		Hourly:  s.formatter.Hourly(fc.Hourly, "", s.opts.HourlyLimit),
	}, nil
}

// LocationForecast returns the seven-day forecast for a coordinate pair.
func (s *ForecastService) LocationForecast(ctx context.Context, lat, lon float64) (WeatherResponse, error) {
	fc, err := s.provider.FetchForecast(ctx, lat, lon, forecastDays, "auto")
	if err != nil {
		return WeatherResponse{}, fmt.Errorf("fetch location forecast: %w", err)
	}
	return s.formatter.Weather(fc, s.namePlace(ctx, lat, lon)), nil
}

// namePlace reverse geocodes when configured and falls back to the bare
// coordinates otherwise.
func (s *ForecastService) namePlace(ctx context.Context, lat, lon float64) Place {
	fallback := FormatCoordinatesLocation(lat, lon, currentLocationLabel)
	if s.reverse == nil {
		return fallback
	}
	place, err := s.reverse.Reverse(ctx, lat, lon)
	if err != nil || place.Name == "" {
		s.logger.Debug("reverse geocoding unavailable, using coordinates",
			zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		return fallback
	}
	return place
}

// SearchLocation geocodes a free-text query, serving repeated queries from the cache.
func (s *ForecastService) SearchLocation(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, NewError(ErrValidation, "Location is required")
	}
	key := geocodeKeyPrefix + strings.ToLower(query)

	if s.cache != nil {
		var cached Place
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("geocode cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	place, err := s.geocoder.SearchLocation(ctx, query)
	if err != nil {
		return Place{}, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, place, s.opts.GeocodeTTL); err != nil {
			s.logger.Warn("geocode cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return place, nil
}
