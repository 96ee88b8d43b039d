package weather

const (
	unknownDescription = "Unknown"
	sunIcon            = "☀️"
	moonIcon           = "🌙"
)

// WMO weather interpretation codes as reported by Open-Meteo.
var descriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

var icons = map[int]string{
	2:  "⛅",
	3:  "☁️",
	45: "🌫️",
	48: "🌫️",
	51: "🌦️",
	53: "🌦️",
	55: "🌧️",
	61: "🌧️",
	63: "🌧️",
	65: "⛈️",
	95: "⛈️",
	96: "⛈️",
	99: "⛈️",
	71: "🌨️",
	75: "🌨️",
	73: "❄️",
}

// Describe returns the human description for a weather code.
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return unknownDescription
}

// Icon returns the glyph for a weather code. Clear and mainly-clear skies,
// and unknown codes, switch to the moon at night.
func Icon(code int, isDay bool) string {
	switch code {
	case 1:
		if isDay {
			return "🌤️"
		}
		return moonIcon
	}
	if icon, ok := icons[code]; ok {
		return icon
	}
	if isDay {
		return sunIcon
	}
	return moonIcon
}
