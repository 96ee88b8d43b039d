package providers

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-locations/internal/weather"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
	DefaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"

	forecastProviderName = "Weather API"
	archiveProviderName  = "Historical Weather API"
)

var (
	currentFields = []string{
		"temperature_2m", "relative_humidity_2m", "apparent_temperature", "is_day",
		"weather_code", "wind_speed_10m", "wind_direction_10m", "pressure_msl",
	}
	hourlyFields = []string{
		"temperature_2m", "relative_humidity_2m", "weather_code",
		"wind_speed_10m", "wind_direction_10m", "precipitation_probability",
	}
	dailyForecastFields = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min",
		"precipitation_probability_max", "wind_speed_10m_max", "relative_humidity_2m_mean",
	}
	dailyArchiveFields = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min",
		"relative_humidity_2m_mean", "precipitation_sum", "wind_speed_10m_max",
	}
)

// OpenMeteoProvider implements weather.ForecastProvider and
// weather.HistoryProvider against the Open-Meteo forecast and archive APIs.
type OpenMeteoProvider struct {
	forecastURL     string
	archiveURL      string
	httpCfg         HTTPClientConfig
	forecastBreaker *gobreaker.CircuitBreaker
	archiveBreaker  *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the provider. Empty URLs fall back to the
// public Open-Meteo endpoints.
func NewOpenMeteoProvider(forecastURL, archiveURL string, cfg HTTPClientConfig) *OpenMeteoProvider {
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	return &OpenMeteoProvider{
		forecastURL:     forecastURL,
		archiveURL:      archiveURL,
		httpCfg:         cfg,
		forecastBreaker: newCircuitBreaker("openmeteo-forecast", cfg.Logger),
		archiveBreaker:  newCircuitBreaker("openmeteo-archive", cfg.Logger),
	}
}

type forecastPayload struct {
	Timezone string `json:"timezone"`
	Current  *struct {
		Time                string   `json:"time"`
		Temperature         *float64 `json:"temperature_2m"`
		Humidity            *float64 `json:"relative_humidity_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		IsDay               *int     `json:"is_day"`
		WeatherCode         *int     `json:"weather_code"`
		WindSpeed           *float64 `json:"wind_speed_10m"`
		WindDirection       *float64 `json:"wind_direction_10m"`
		PressureMSL         *float64 `json:"pressure_msl"`
	} `json:"current"`
	Hourly *struct {
		Time                     []string   `json:"time"`
		Temperature              []*float64 `json:"temperature_2m"`
		Humidity                 []*float64 `json:"relative_humidity_2m"`
		WeatherCode              []*int     `json:"weather_code"`
		WindSpeed                []*float64 `json:"wind_speed_10m"`
		WindDirection            []*float64 `json:"wind_direction_10m"`
		PrecipitationProbability []*float64 `json:"precipitation_probability"`
	} `json:"hourly"`
	Daily *struct {
		Time                        []string   `json:"time"`
		WeatherCode                 []*int     `json:"weather_code"`
		TemperatureMax              []*float64 `json:"temperature_2m_max"`
		TemperatureMin              []*float64 `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
		WindSpeedMax                []*float64 `json:"wind_speed_10m_max"`
		HumidityMean                []*float64 `json:"relative_humidity_2m_mean"`
	} `json:"daily"`
}

type archivePayload struct {
	Daily *struct {
		Time           []string   `json:"time"`
		WeatherCode    []*int     `json:"weather_code"`
		TemperatureMax []*float64 `json:"temperature_2m_max"`
		TemperatureMin []*float64 `json:"temperature_2m_min"`
		HumidityMean   []*float64 `json:"relative_humidity_2m_mean"`
		Precipitation  []*float64 `json:"precipitation_sum"`
		WindSpeedMax   []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// FetchForecast returns current conditions plus hourly and daily forecast
// blocks in °C, mph and mm.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, lat, lon float64, days int, timezone string) (weather.Forecast, error) {
	if days <= 0 {
		return weather.Forecast{}, weather.NewError(weather.ErrValidation, "forecast days must be greater than zero")
	}

	values := coordinateValues(lat, lon, timezone)
	values.Set("current", strings.Join(currentFields, ","))
	values.Set("hourly", strings.Join(hourlyFields, ","))
	values.Set("daily", strings.Join(dailyForecastFields, ","))
	values.Set("temperature_unit", "celsius")
	values.Set("wind_speed_unit", "mph")
	values.Set("precipitation_unit", "mm")
	values.Set("forecast_days", strconv.Itoa(days))

	var payload forecastPayload
	if err := getJSON(ctx, forecastProviderName, p.forecastURL+"?"+values.Encode(), p.httpCfg, p.forecastBreaker, &payload); err != nil {
		return weather.Forecast{}, err
	}
	return parseForecast(payload)
}

// FetchHistory returns one observation per day in [start, end]. Values the
// archive does not have are left nil.
func (p *OpenMeteoProvider) FetchHistory(ctx context.Context, lat, lon float64, start, end time.Time, timezone string) ([]weather.DailyObservation, error) {
	values := coordinateValues(lat, lon, timezone)
	values.Set("start_date", start.Format(weather.DateLayout))
	values.Set("end_date", end.Format(weather.DateLayout))
	values.Set("daily", strings.Join(dailyArchiveFields, ","))

	var payload archivePayload
	if err := getJSON(ctx, archiveProviderName, p.archiveURL+"?"+values.Encode(), p.httpCfg, p.archiveBreaker, &payload); err != nil {
		return nil, err
	}
	return parseArchive(payload)
}

func coordinateValues(lat, lon float64, timezone string) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	if timezone == "" {
		timezone = "auto"
	}
	values.Set("timezone", timezone)
	return values
}

func parseForecast(payload forecastPayload) (weather.Forecast, error) {
	malformed := func(field string) error {
		return &weather.MalformedDataError{Provider: forecastProviderName, Field: field}
	}

	c := payload.Current
	switch {
	case c == nil:
		return weather.Forecast{}, malformed("current")
	case c.Temperature == nil:
		return weather.Forecast{}, malformed("current.temperature_2m")
	case c.WeatherCode == nil:
		return weather.Forecast{}, malformed("current.weather_code")
	case payload.Hourly == nil:
		return weather.Forecast{}, malformed("hourly")
	case payload.Daily == nil:
		return weather.Forecast{}, malformed("daily")
	}

	fc := weather.Forecast{
		Timezone: payload.Timezone,
		Current: weather.CurrentConditions{
			Time:                 c.Time,
			TemperatureC:         *c.Temperature,
			ApparentTemperatureC: valueOr(c.ApparentTemperature, *c.Temperature),
			Humidity:             valueOr(c.Humidity, 0),
			WeatherCode:          *c.WeatherCode,
			WindSpeedMph:         valueOr(c.WindSpeed, 0),
			WindDirection:        valueOr(c.WindDirection, 0),
			PressureHpa:          c.PressureMSL,
			IsDay:                c.IsDay == nil || *c.IsDay == 1,
		},
	}

	h := payload.Hourly
	n := len(h.Time)
	if len(h.Temperature) < n || len(h.WeatherCode) < n {
		return weather.Forecast{}, malformed("hourly.temperature_2m")
	}
	fc.Hourly = make([]weather.HourlyPoint, 0, n)
	for i, ts := range h.Time {
		fc.Hourly = append(fc.Hourly, weather.HourlyPoint{
			Time:                     ts,
			TemperatureC:             valueOr(h.Temperature[i], 0),
			Humidity:                 valueOr(at(h.Humidity, i), 0),
			WeatherCode:              valueOr(h.WeatherCode[i], 0),
			WindSpeedMph:             valueOr(at(h.WindSpeed, i), 0),
			WindDirection:            valueOr(at(h.WindDirection, i), 0),
			PrecipitationProbability: at(h.PrecipitationProbability, i),
		})
	}

	d := payload.Daily
	n = len(d.Time)
	if len(d.TemperatureMax) < n || len(d.TemperatureMin) < n || len(d.WeatherCode) < n {
		return weather.Forecast{}, malformed("daily.temperature_2m_max")
	}
	fc.Daily = make([]weather.DailyPoint, 0, n)
	for i, date := range d.Time {
		fc.Daily = append(fc.Daily, weather.DailyPoint{
			Date:                        date,
			WeatherCode:                 valueOr(d.WeatherCode[i], 0),
			TempMaxC:                    valueOr(d.TemperatureMax[i], 0),
			TempMinC:                    valueOr(d.TemperatureMin[i], 0),
			PrecipitationProbabilityMax: at(d.PrecipitationProbabilityMax, i),
			WindSpeedMaxMph:             valueOr(at(d.WindSpeedMax, i), 0),
			HumidityMean:                valueOr(at(d.HumidityMean, i), 0),
		})
	}
	return fc, nil
}

func parseArchive(payload archivePayload) ([]weather.DailyObservation, error) {
	d := payload.Daily
	if d == nil {
		return nil, &weather.MalformedDataError{Provider: archiveProviderName, Field: "daily"}
	}

	out := make([]weather.DailyObservation, 0, len(d.Time))
	for i, date := range d.Time {
		out = append(out, weather.DailyObservation{
			Date:             date,
			WeatherCode:      at(d.WeatherCode, i),
			TempMaxC:         at(d.TemperatureMax, i),
			TempMinC:         at(d.TemperatureMin, i),
			HumidityMean:     at(d.HumidityMean, i),
			PrecipitationSum: at(d.Precipitation, i),
			WindSpeedMax:     at(d.WindSpeedMax, i),
		})
	}
	return out, nil
}

// at returns s[i], or nil when the series is shorter than the time axis.
func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
