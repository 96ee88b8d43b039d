package store

import (
	"time"

	"github.com/i474232898/weather-locations/internal/weather"
)

// UserModel maps the users table.
type UserModel struct {
	ID        int64 `gorm:"primaryKey"`
	Email     string
	LastLogin *time.Time
	CreatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) toDomain() weather.User {
	u := weather.User{ID: m.ID, Email: m.Email, CreatedAt: m.CreatedAt}
	if m.LastLogin != nil {
		u.LastLogin = *m.LastLogin
	}
	return u
}

// LocationModel maps the locations table.
type LocationModel struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	Latitude  float64
	Longitude float64
	CreatedAt time.Time
}

func (LocationModel) TableName() string { return "locations" }

func (m LocationModel) toDomain() weather.Location {
	return weather.Location{
		ID:        m.ID,
		Name:      m.Name,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		CreatedAt: m.CreatedAt,
	}
}

// UserLocationModel maps the user_locations table.
type UserLocationModel struct {
	ID         int64 `gorm:"primaryKey"`
	UserID     int64
	LocationID int64
	CustomName *string
	AddedAt    time.Time     `gorm:"autoCreateTime"`
	Location   LocationModel `gorm:"foreignKey:LocationID"`
}

func (UserLocationModel) TableName() string { return "user_locations" }

func (m UserLocationModel) toDomain() weather.SavedLocation {
	return weather.SavedLocation{
		ID:         m.ID,
		UserID:     m.UserID,
		LocationID: m.LocationID,
		CustomName: m.CustomName,
		AddedAt:    m.AddedAt,
		Location:   m.Location.toDomain(),
	}
}

// HistoryModel maps the location_history table.
type HistoryModel struct {
	ID                 int64 `gorm:"primaryKey"`
	LocationID         int64
	WeatherDate        time.Time `gorm:"type:date"`
	TemperatureMax     *float64
	TemperatureMin     *float64
	Humidity           *int
	Precipitation      float64
	WindSpeed          float64
	WeatherCondition   string
	WeatherDescription string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (HistoryModel) TableName() string { return "location_history" }

func historyModel(r weather.HistoryRecord) HistoryModel {
	return HistoryModel{
		LocationID:         r.LocationID,
		WeatherDate:        weather.Day(r.Date),
		TemperatureMax:     r.TempMaxC,
		TemperatureMin:     r.TempMinC,
		Humidity:           r.Humidity,
		Precipitation:      r.Precipitation,
		WindSpeed:          r.WindSpeed,
		WeatherCondition:   r.Condition,
		WeatherDescription: r.Description,
	}
}

func (m HistoryModel) toDomain() weather.HistoryRecord {
	return weather.HistoryRecord{
		LocationID:    m.LocationID,
		Date:          weather.Day(m.WeatherDate),
		TempMaxC:      m.TemperatureMax,
		TempMinC:      m.TemperatureMin,
		Humidity:      m.Humidity,
		Precipitation: m.Precipitation,
		WindSpeed:     m.WindSpeed,
		Condition:     m.WeatherCondition,
		Description:   m.WeatherDescription,
	}
}
