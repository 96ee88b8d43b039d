package weather

import (
	"context"
	"time"
)

// ForecastProvider fetches current conditions and forecasts by coordinates.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, lat, lon float64, days int, timezone string) (Forecast, error)
}

// HistoryProvider fetches daily observations from the historical archive.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, lat, lon float64, start, end time.Time, timezone string) ([]DailyObservation, error)
}

// Geocoder resolves a free-text query to a place.
type Geocoder interface {
	SearchLocation(ctx context.Context, query string) (Place, error)
}

// ReverseGeocoder names a coordinate pair.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// Cache stores JSON-encodable values with a TTL.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// UserStore persists users. Lookups return ErrNotFound when absent and
// CreateUser returns ErrConflict when the email is taken.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (User, error)
	CreateUser(ctx context.Context, email string, at time.Time) (User, error)
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) (User, error)
}

// LocationStore persists locations and per-user saved locations.
type LocationStore interface {
	// FindLocationsInWindow returns locations whose coordinates fall in the
	// closed box [minLat, maxLat] x [minLon, maxLon].
	FindLocationsInWindow(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]Location, error)
	ListLocations(ctx context.Context) ([]Location, error)
	// CreateLocation returns ErrConflict when the rounded coordinates already exist.
	CreateLocation(ctx context.Context, name string, lat, lon float64) (Location, error)

	FindSavedLocation(ctx context.Context, userID, locationID int64) (SavedLocation, error)
	// CreateSavedLocation returns ErrConflict when the pair is already saved.
	CreateSavedLocation(ctx context.Context, saved SavedLocation) (SavedLocation, error)
	// ListSavedLocations returns the user's saved locations, newest first.
	ListSavedLocations(ctx context.Context, userID int64) ([]SavedLocation, error)
	GetSavedLocation(ctx context.Context, userID, savedID int64) (SavedLocation, error)
	DeleteSavedLocation(ctx context.Context, userID, savedID int64) error
	// ListTrackedLocations returns every location saved by at least one user.
	ListTrackedLocations(ctx context.Context) ([]Location, error)
}

// HistoryStore persists daily history rows keyed by (location, date).
type HistoryStore interface {
	ListHistory(ctx context.Context, locationID int64, start, end time.Time, limit int) ([]HistoryRecord, error)
	UpsertHistory(ctx context.Context, record HistoryRecord) error
}
