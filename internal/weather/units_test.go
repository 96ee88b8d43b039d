package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTemperatureRoundTrip(t *testing.T) {
	for _, c := range []float64{-40, 0, 37, 100} {
		assert.InDelta(t, c, FahrenheitToCelsius(CelsiusToFahrenheit(c)), 1e-9)
	}
	assert.Equal(t, -40.0, CelsiusToFahrenheit(-40))
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.Equal(t, 212.0, CelsiusToFahrenheit(100))
	assert.InDelta(t, 98.6, CelsiusToFahrenheit(37), 1e-9)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 12.3, Round(12.34, 1))
	assert.Equal(t, 12.4, Round(12.36, 1))
	assert.Equal(t, -3.0, Round(-2.5, 0))
	assert.Equal(t, 0.03, Round(0.0251, 2))
	assert.Equal(t, 48.8534, RoundCoordinate(48.85341))
	assert.Equal(t, -74.006, RoundCoordinate(-74.00601))
}

func TestRoundCoordinate_MatchesNumericRounding(t *testing.T) {
	// Binary rounding would give 35.6895 and 0.0001 for the first two.
	assert.Equal(t, 35.6896, RoundCoordinate(35.68955))
	assert.Equal(t, 0.0002, RoundCoordinate(0.00015))
	assert.Equal(t, -35.6896, RoundCoordinate(-35.68955))
	assert.Equal(t, 139.6917, RoundCoordinate(139.69171))
	assert.True(t, SameSpot(35.68955, 0, 35.6896, 0))
}

func TestDegreesToCompass(t *testing.T) {
	assert.Equal(t, "N", DegreesToCompass(0))
	assert.Equal(t, "N", DegreesToCompass(355))
	assert.Equal(t, "NE", DegreesToCompass(45))
	assert.Equal(t, "SSW", DegreesToCompass(202.5))
	assert.Equal(t, "W", DegreesToCompass(-90))
}

func TestFormatCoordinatesLocation(t *testing.T) {
	p := FormatCoordinatesLocation(40.71278, -74.00597, "Current Location")
	assert.Equal(t, "Current Location (40.71, -74.01)", p.Name)
	assert.Equal(t, "Unknown", p.Region)
	assert.Equal(t, "Unknown", p.Country)
	assert.Equal(t, 40.71278, p.Latitude)
}

func TestSameSpot(t *testing.T) {
	assert.True(t, SameSpot(48.85341, 2.3488, 48.853412, 2.348801))
	assert.False(t, SameSpot(48.8534, 2.3488, 48.8535, 2.3488))
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, 2)
	assert.Equal(t, "2024-02-01", start.Format(DateLayout))
	assert.Equal(t, "2024-02-29", end.Format(DateLayout))

	start, end = MonthRange(2023, 12)
	assert.Equal(t, "2023-12-01", start.Format(DateLayout))
	assert.Equal(t, "2023-12-31", end.Format(DateLayout))
}
