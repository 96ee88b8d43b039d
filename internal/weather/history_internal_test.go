package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rec(date time.Time) HistoryRecord {
	return HistoryRecord{Date: date, TempMaxC: f64(1), TempMinC: f64(0)}
}

func TestCoversRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	full := []HistoryRecord{rec(start), rec(start.AddDate(0, 0, 1)), rec(end)}
	assert.True(t, coversRange(full, start, end))

	assert.False(t, coversRange(full[:2], start, end), "too few rows")

	// Right count, wrong days: a duplicate hides the missing middle day.
	dup := []HistoryRecord{rec(start), rec(start), rec(end)}
	assert.False(t, coversRange(dup, start, end))

	// Right count, misaligned: rows for a neighbouring day.
	shifted := []HistoryRecord{rec(start), rec(end), rec(end.AddDate(0, 0, 1))}
	assert.False(t, coversRange(shifted, start, end))

	assert.True(t, coversRange([]HistoryRecord{rec(start)}, start, start))
}

func TestNormalizeDay(t *testing.T) {
	code := 63
	humidity := 78.6

	r, ok := normalizeDay(7, DailyObservation{
		Date: "2024-03-05", WeatherCode: &code, TempMaxC: f64(11.2), TempMinC: f64(4.1), HumidityMean: &humidity,
	})
	assert.True(t, ok)
	assert.Equal(t, int64(7), r.LocationID)
	assert.Equal(t, "2024-03-05", r.DateKey())
	assert.Equal(t, "63", r.Condition)
	assert.Equal(t, "Moderate rain", r.Description)
	assert.Equal(t, 78, *r.Humidity)
	assert.Zero(t, r.Precipitation)
	assert.Zero(t, r.WindSpeed)

	_, ok = normalizeDay(7, DailyObservation{Date: "2024-03-05", TempMaxC: f64(1), TempMinC: f64(0)})
	assert.False(t, ok, "missing weather code")

	_, ok = normalizeDay(7, DailyObservation{Date: "2024-03-05", WeatherCode: &code, TempMinC: f64(0)})
	assert.False(t, ok, "missing max temperature")

	_, ok = normalizeDay(7, DailyObservation{Date: "bad", WeatherCode: &code, TempMaxC: f64(1), TempMinC: f64(0)})
	assert.False(t, ok, "unparseable date")
}
