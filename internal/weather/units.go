package weather

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	coordinatePlaces = 4
	hpaToInHg        = 0.02953
)

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// RoundCoordinate rounds a latitude or longitude to the precision used for
// location deduplication. It follows Postgres ROUND(v::numeric, 4): the float
// is first cut to 15 significant digits, then rounded half away from zero in
// decimal, so it agrees with the unique index on the locations table.
func RoundCoordinate(v float64) float64 {
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'e', 14, 64))
	if err != nil {
		return Round(v, coordinatePlaces)
	}
	return d.Round(coordinatePlaces).InexactFloat64()
}

// HectopascalToInHg converts pressure from hPa to inches of mercury.
func HectopascalToInHg(hpa float64) float64 {
	return hpa * hpaToInHg
}

var compassPoints = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// DegreesToCompass maps a wind direction in degrees to a 16-point compass label.
func DegreesToCompass(deg float64) string {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(deg/22.5)) % len(compassPoints)
	return compassPoints[idx]
}

// FormatCoordinatesLocation names a bare coordinate pair.
func FormatCoordinatesLocation(lat, lon float64, prefix string) Place {
	return Place{
		Name:      fmt.Sprintf("%s (%.2f, %.2f)", prefix, lat, lon),
		Region:    "Unknown",
		Country:   "Unknown",
		Latitude:  lat,
		Longitude: lon,
	}
}
