package weather

import (
	"time"
)

// DateLayout is the calendar-day format used by the provider and the history table.
const DateLayout = "2006-01-02"

// User is an account identified by its email address.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
}

// Location is a physical point shared by every user who saved it.
// Coordinates are stored at provider precision and compared after rounding
// to four decimals.
type Location struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// SameSpot reports whether two coordinate pairs resolve to the same location.
func SameSpot(lat1, lon1, lat2, lon2 float64) bool {
	return RoundCoordinate(lat1) == RoundCoordinate(lat2) &&
		RoundCoordinate(lon1) == RoundCoordinate(lon2)
}

// SavedLocation links a user to a location, optionally under a custom name.
type SavedLocation struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	LocationID int64     `json:"location_id"`
	CustomName *string   `json:"custom_name"`
	AddedAt    time.Time `json:"added_at"`

	// Location is populated by store reads that join the locations table.
	Location Location `json:"-"`
}

// DisplayName returns the custom name when set, else the location's name.
func (s SavedLocation) DisplayName() string {
	if s.CustomName != nil && *s.CustomName != "" {
		return *s.CustomName
	}
	return s.Location.Name
}

// HistoryRecord is one calendar day of observed weather for one location.
type HistoryRecord struct {
	LocationID    int64
	Date          time.Time // UTC midnight of the calendar day
	TempMaxC      *float64
	TempMinC      *float64
	Humidity      *int
	Precipitation float64
	WindSpeed     float64
	Condition     string // weather code as text
	Description   string
}

// DateKey returns the record's date as YYYY-MM-DD.
func (r HistoryRecord) DateKey() string {
	return r.Date.Format(DateLayout)
}

// Place is a geocoded location.
type Place struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentConditions is the provider's "current" block.
type CurrentConditions struct {
	Time                 string
	TemperatureC         float64
	ApparentTemperatureC float64
	Humidity             float64
	WeatherCode          int
	WindSpeedMph         float64
	WindDirection        float64
	PressureHpa          *float64
	IsDay                bool
}

// HourlyPoint is one hour of forecast. Time is local, formatted 2006-01-02T15:04.
type HourlyPoint struct {
	Time                     string
	TemperatureC             float64
	Humidity                 float64
	WeatherCode              int
	WindSpeedMph             float64
	WindDirection            float64
	PrecipitationProbability *float64
}

// DailyPoint is one day of forecast.
type DailyPoint struct {
	Date                        string
	WeatherCode                 int
	TempMaxC                    float64
	TempMinC                    float64
	PrecipitationProbabilityMax *float64
	WindSpeedMaxMph             float64
	HumidityMean                float64
}

// Forecast is a normalized forecast response.
type Forecast struct {
	Timezone string
	Current  CurrentConditions
	Hourly   []HourlyPoint
	Daily    []DailyPoint
}

// DailyObservation is one day from the historical archive. Any value may be
// missing upstream.
type DailyObservation struct {
	Date             string
	WeatherCode      *int
	TempMaxC         *float64
	TempMinC         *float64
	HumidityMean     *float64
	PrecipitationSum *float64
	WindSpeedMax     *float64
}

// Day truncates t to its calendar day, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first and last calendar day of the given month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
