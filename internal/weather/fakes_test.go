package weather_test

import (
	"context"
	"sync"
	"time"

	"github.com/i474232898/weather-locations/internal/weather"
)

type historyCall struct {
	Start, End string
	Timezone   string
}

// fakeArchive produces one observation per requested day through day().
type fakeArchive struct {
	mu    sync.Mutex
	calls []historyCall
	day   func(date time.Time) (weather.DailyObservation, bool)
	err   error
}

func completeDay(date time.Time) (weather.DailyObservation, bool) {
	code := 3
	hi := 10.0 + float64(date.Day())/10
	lo := 2.0
	humidity := 70.0
	precip := 0.4
	wind := 11.0
	return weather.DailyObservation{
		Date:             date.Format(weather.DateLayout),
		WeatherCode:      &code,
		TempMaxC:         &hi,
		TempMinC:         &lo,
		HumidityMean:     &humidity,
		PrecipitationSum: &precip,
		WindSpeedMax:     &wind,
	}, true
}

func (f *fakeArchive) FetchHistory(_ context.Context, _, _ float64, start, end time.Time, timezone string) ([]weather.DailyObservation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, historyCall{
		Start:    start.Format(weather.DateLayout),
		End:      end.Format(weather.DateLayout),
		Timezone: timezone,
	})
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	gen := f.day
	if gen == nil {
		gen = completeDay
	}
	var out []weather.DailyObservation
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if obs, ok := gen(d); ok {
			out = append(out, obs)
		}
	}
	return out, nil
}

func (f *fakeArchive) Calls() []historyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]historyCall(nil), f.calls...)
}

type forecastCall struct {
	Lat, Lon float64
	Days     int
	Timezone string
}

type fakeForecaster struct {
	calls    []forecastCall
	forecast weather.Forecast
	err      error
}

func (f *fakeForecaster) FetchForecast(_ context.Context, lat, lon float64, days int, timezone string) (weather.Forecast, error) {
	f.calls = append(f.calls, forecastCall{Lat: lat, Lon: lon, Days: days, Timezone: timezone})
	if f.err != nil {
		return weather.Forecast{}, f.err
	}
	return f.forecast, nil
}

type fakeGeocoder struct {
	calls int
	place weather.Place
	err   error
}

func (g *fakeGeocoder) SearchLocation(context.Context, string) (weather.Place, error) {
	g.calls++
	return g.place, g.err
}

type fakeReverse struct {
	place weather.Place
	err   error
}

func (r fakeReverse) Reverse(context.Context, float64, float64) (weather.Place, error) {
	return r.place, r.err
}

// mapCache is a minimal weather.Cache keeping values as-is.
type mapCache struct {
	mu   sync.Mutex
	data map[string]weather.Place
}

func newMapCache() *mapCache { return &mapCache{data: map[string]weather.Place{}} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.data[key]
	if ok {
		*dest.(*weather.Place) = p
	}
	return ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(weather.Place)
	return nil
}

func sampleForecast() weather.Forecast {
	return weather.Forecast{
		Timezone: "America/New_York",
		Current: weather.CurrentConditions{
			Time: "2024-03-10T14:00", TemperatureC: 12, ApparentTemperatureC: 10,
			Humidity: 60, WeatherCode: 0, WindSpeedMph: 5, WindDirection: 180, IsDay: true,
		},
		Hourly: []weather.HourlyPoint{
			{Time: "2024-03-10T13:00", TemperatureC: 11, WeatherCode: 0},
			{Time: "2024-03-10T14:00", TemperatureC: 12, WeatherCode: 0},
			{Time: "2024-03-10T15:00", TemperatureC: 13, WeatherCode: 1},
		},
		Daily: []weather.DailyPoint{
			{Date: "2024-03-10", WeatherCode: 0, TempMaxC: 14, TempMinC: 3},
		},
	}
}
