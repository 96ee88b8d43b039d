package weather

import (
	"strconv"
	"strings"
	"time"
)

const (
	hourLayout      = "2006-01-02T15:04"
	localtimeLayout = "2006-01-02 15:04"
)

// LocationInfo is the location block of every weather payload.
type LocationInfo struct {
	Name      string   `json:"name"`
	Region    string   `json:"region"`
	Country   string   `json:"country"`
	Localtime string   `json:"localtime,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type CurrentWeather struct {
	TempF      float64 `json:"temp_f"`
	TempC      float64 `json:"temp_c"`
	Condition  string  `json:"condition"`
	Icon       string  `json:"icon"`
	Humidity   int     `json:"humidity"`
	WindMph    float64 `json:"wind_mph"`
	WindDir    string  `json:"wind_dir"`
	PressureIn float64 `json:"pressure_in"`
	FeelsLikeF float64 `json:"feelslike_f"`
	FeelsLikeC float64 `json:"feelslike_c"`
}

type HourlyWeather struct {
	Time         string  `json:"time"`
	TempF        float64 `json:"temp_f"`
	TempC        float64 `json:"temp_c"`
	Condition    string  `json:"condition"`
	Icon         string  `json:"icon"`
	ChanceOfRain int     `json:"chance_of_rain"`
	WindMph      float64 `json:"wind_mph"`
	WindDir      string  `json:"wind_dir"`
	Humidity     int     `json:"humidity"`
}

type DailyForecast struct {
	Date         string          `json:"date"`
	DayName      string          `json:"day_name"`
	MaxTempF     float64         `json:"max_temp_f"`
	MaxTempC     float64         `json:"max_temp_c"`
	MinTempF     float64         `json:"min_temp_f"`
	MinTempC     float64         `json:"min_temp_c"`
	Condition    string          `json:"condition"`
	Icon         string          `json:"icon"`
	ChanceOfRain int             `json:"chance_of_rain"`
	Humidity     int             `json:"humidity"`
	WindMph      float64         `json:"wind_mph"`
	Hourly       []HourlyWeather `json:"hourly"`
}

// WeatherResponse is the current-plus-forecast payload.
type WeatherResponse struct {
	Location LocationInfo    `json:"location"`
	Current  CurrentWeather  `json:"current"`
	Forecast []DailyForecast `json:"forecast"`
}

// HourlyResponse is the current-plus-next-hours payload.
type HourlyResponse struct {
	Location LocationInfo    `json:"location"`
	Current  CurrentWeather  `json:"current"`
	Hourly   []HourlyWeather `json:"hourly"`
}

type HistoricalDay struct {
	Date          string  `json:"date"`
	DayName       string  `json:"day_name"`
	MaxTempF      float64 `json:"max_temp_f"`
	MaxTempC      float64 `json:"max_temp_c"`
	MinTempF      float64 `json:"min_temp_f"`
	MinTempC      float64 `json:"min_temp_c"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Precipitation float64 `json:"precipitation"`
	Humidity      int     `json:"humidity"`
	WindMph       float64 `json:"wind_mph"`
}

type Period struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	TotalDays int     `json:"total_days"`
}

// HistoricalResponse is the history payload.
type HistoricalResponse struct {
	Location       LocationInfo    `json:"location"`
	HistoricalData []HistoricalDay `json:"historical_data"`
	Period         Period          `json:"period"`
	FromCache      bool            `json:"from_cache"`
}

// Formatter shapes provider and store rows into outward payloads.
type Formatter struct {
	now func() time.Time
}

func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

// SetClock replaces the clock used for the current-hour filter and localtime.
func (f *Formatter) SetClock(now func() time.Time) {
	f.now = now
}

func (f *Formatter) Localtime() string {
	return f.now().Format(localtimeLayout)
}

func (f *Formatter) Current(c CurrentConditions) CurrentWeather {
	pressure := 1013.0
	if c.PressureHpa != nil {
		pressure = *c.PressureHpa
	}
	return CurrentWeather{
		TempF:      Round(CelsiusToFahrenheit(c.TemperatureC), 1),
		TempC:      Round(c.TemperatureC, 1),
		Condition:  Describe(c.WeatherCode),
		Icon:       Icon(c.WeatherCode, c.IsDay),
		Humidity:   int(Round(c.Humidity, 0)),
		WindMph:    Round(c.WindSpeedMph, 1),
		WindDir:    DegreesToCompass(c.WindDirection),
		PressureIn: Round(HectopascalToInHg(pressure), 2),
		FeelsLikeF: Round(CelsiusToFahrenheit(c.ApparentTemperatureC), 1),
		FeelsLikeC: Round(c.ApparentTemperatureC, 1),
	}
}

// Hourly formats hourly points. A non-empty date keeps only that day's hours.
// A positive limit keeps only hours at or after the current hour and caps the
// result at limit entries.
func (f *Formatter) Hourly(points []HourlyPoint, date string, limit int) []HourlyWeather {
	out := make([]HourlyWeather, 0, len(points))
	currentHour := f.now().Hour()

	for _, p := range points {
		if date != "" {
			day, _, _ := strings.Cut(p.Time, "T")
			if day != date {
				continue
			}
		}

		if limit > 0 {
			ts, err := time.Parse(hourLayout, p.Time)
			if err != nil || ts.Hour() < currentHour {
				continue
			}
			if len(out) >= limit {
				break
			}
		}

		out = append(out, HourlyWeather{
			Time:         p.Time,
			TempF:        Round(CelsiusToFahrenheit(p.TemperatureC), 1),
			TempC:        Round(p.TemperatureC, 1),
			Condition:    Describe(p.WeatherCode),
			Icon:         Icon(p.WeatherCode, true),
			ChanceOfRain: percent(p.PrecipitationProbability),
			WindMph:      Round(p.WindSpeedMph, 1),
			WindDir:      DegreesToCompass(p.WindDirection),
			Humidity:     int(Round(p.Humidity, 0)),
		})
	}
	return out
}

// Daily formats daily points, each with its own hourly breakdown.
func (f *Formatter) Daily(days []DailyPoint, hourly []HourlyPoint) []DailyForecast {
	out := make([]DailyForecast, 0, len(days))
	for _, d := range days {
		out = append(out, DailyForecast{
			Date:         d.Date,
			DayName:      dayName(d.Date),
			MaxTempF:     Round(CelsiusToFahrenheit(d.TempMaxC), 1),
			MaxTempC:     Round(d.TempMaxC, 1),
			MinTempF:     Round(CelsiusToFahrenheit(d.TempMinC), 1),
			MinTempC:     Round(d.TempMinC, 1),
			Condition:    Describe(d.WeatherCode),
			Icon:         Icon(d.WeatherCode, true),
			ChanceOfRain: percent(d.PrecipitationProbabilityMax),
			Humidity:     int(Round(d.HumidityMean, 0)),
			WindMph:      Round(d.WindSpeedMaxMph, 1),
			Hourly:       f.Hourly(hourly, d.Date, 0),
		})
	}
	return out
}

// Weather builds the full current-plus-forecast payload.
func (f *Formatter) Weather(fc Forecast, place Place) WeatherResponse {
	return WeatherResponse{
		Location: LocationInfo{
			Name:      place.Name,
			Region:    place.Region,
			Country:   place.Country,
			Localtime: f.Localtime(),
		},
		Current:  f.Current(fc.Current),
		Forecast: f.Daily(fc.Daily, fc.Hourly),
	}
}

// History formats stored history rows. Rows missing a max or min temperature
// are skipped; the period bounds still come from the first and last stored row.
func (f *Formatter) History(records []HistoryRecord, info LocationInfo, fromCache bool) HistoricalResponse {
	days := make([]HistoricalDay, 0, len(records))
	for _, r := range records {
		if r.TempMaxC == nil || r.TempMinC == nil {
			continue
		}
		code, _ := strconv.Atoi(r.Condition)
		humidity := 0
		if r.Humidity != nil {
			humidity = *r.Humidity
		}
		days = append(days, HistoricalDay{
			Date:          r.DateKey(),
			DayName:       r.Date.Weekday().String(),
			MaxTempF:      Round(CelsiusToFahrenheit(*r.TempMaxC), 1),
			MaxTempC:      Round(*r.TempMaxC, 1),
			MinTempF:      Round(CelsiusToFahrenheit(*r.TempMinC), 1),
			MinTempC:      Round(*r.TempMinC, 1),
			Condition:     r.Description,
			Icon:          Icon(code, true),
			Precipitation: Round(r.Precipitation, 2),
			Humidity:      humidity,
			WindMph:       Round(r.WindSpeed, 1),
		})
	}

	period := Period{TotalDays: len(days)}
	if len(records) > 0 {
		first, last := records[0].DateKey(), records[len(records)-1].DateKey()
		period.StartDate, period.EndDate = &first, &last
	}

	return HistoricalResponse{
		Location:       info,
		HistoricalData: days,
		Period:         period,
		FromCache:      fromCache,
	}
}

func percent(v *float64) int {
	if v == nil {
		return 0
	}
	return int(Round(*v, 0))
}

func dayName(date string) string {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()
}
