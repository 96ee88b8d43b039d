package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/i474232898/weather-locations/internal/common"
	"github.com/i474232898/weather-locations/internal/weather"
)

// ConnectPostgres opens a gorm connection and tunes the pool.
func ConnectPostgres(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(databaseURL), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// ClosePostgres closes the underlying connection pool.
func ClosePostgres(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PostgresStore implements the user, location and history stores on gorm.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// translate maps gorm errors onto the weather sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return weather.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), common.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", weather.ErrConflict, err)
	default:
		return err
	}
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (weather.User, error) {
	var m UserModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return weather.User{}, translate(err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, email string, at time.Time) (weather.User, error) {
	m := UserModel{Email: email, LastLogin: &at, CreatedAt: at}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return weather.User{}, translate(err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) TouchLastLogin(ctx context.Context, userID int64, at time.Time) (weather.User, error) {
	res := s.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", userID).Update("last_login", at)
	if res.Error != nil {
		return weather.User{}, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return weather.User{}, weather.ErrNotFound
	}

	var m UserModel
	if err := s.db.WithContext(ctx).First(&m, userID).Error; err != nil {
		return weather.User{}, translate(err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) FindLocationsInWindow(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]weather.Location, error) {
	var models []LocationModel
	err := s.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?", minLat, maxLat, minLon, maxLon).
		Order("id").
		Find(&models).Error
	if err != nil {
		return nil, translate(err)
	}
	return locations(models), nil
}

func (s *PostgresStore) ListLocations(ctx context.Context) ([]weather.Location, error) {
	var models []LocationModel
	if err := s.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, translate(err)
	}
	return locations(models), nil
}

func (s *PostgresStore) CreateLocation(ctx context.Context, name string, lat, lon float64) (weather.Location, error) {
	m := LocationModel{Name: name, Latitude: lat, Longitude: lon}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return weather.Location{}, translate(err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) FindSavedLocation(ctx context.Context, userID, locationID int64) (weather.SavedLocation, error) {
	var m UserLocationModel
	err := s.db.WithContext(ctx).
		Preload("Location").
		Where("user_id = ? AND location_id = ?", userID, locationID).
		First(&m).Error
	if err != nil {
		return weather.SavedLocation{}, translate(err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) CreateSavedLocation(ctx context.Context, saved weather.SavedLocation) (weather.SavedLocation, error) {
	m := UserLocationModel{
		UserID:     saved.UserID,
		LocationID: saved.LocationID,
		CustomName: saved.CustomName,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return weather.SavedLocation{}, translate(err)
	}
	return s.GetSavedLocation(ctx, saved.UserID, m.ID)
}

func (s *PostgresStore) ListSavedLocations(ctx context.Context, userID int64) ([]weather.SavedLocation, error) {
	var models []UserLocationModel
	err := s.db.WithContext(ctx).
		Preload("Location").
		Where("user_id = ?", userID).
		Order("added_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make([]weather.SavedLocation, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (s *PostgresStore) GetSavedLocation(ctx context.Context, userID, savedID int64) (weather.SavedLocation, error) {
	var m UserLocationModel
	err := s.db.WithContext(ctx).
		Preload("Location").
		Where("id = ? AND user_id = ?", savedID, userID).
		First(&m).Error
	if err != nil {
		return weather.SavedLocation{}, translate(err)
	}
	return m.toDomain(), nil
}

func (s *PostgresStore) DeleteSavedLocation(ctx context.Context, userID, savedID int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", savedID, userID).
		Delete(&UserLocationModel{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return weather.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListTrackedLocations(ctx context.Context) ([]weather.Location, error) {
	var models []LocationModel
	tracked := s.db.Model(&UserLocationModel{}).Select("location_id")
	if err := s.db.WithContext(ctx).Where("id IN (?)", tracked).Order("id").Find(&models).Error; err != nil {
		return nil, translate(err)
	}
	return locations(models), nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, locationID int64, start, end time.Time, limit int) ([]weather.HistoryRecord, error) {
	var models []HistoryModel
	q := s.db.WithContext(ctx).
		Where("location_id = ? AND weather_date BETWEEN ? AND ?",
			locationID, start.Format(weather.DateLayout), end.Format(weather.DateLayout)).
		Order("weather_date")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, translate(err)
	}

	out := make([]weather.HistoryRecord, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out, nil
}

// UpsertHistory inserts the row or overwrites the existing one for the same
// location and date.
func (s *PostgresStore) UpsertHistory(ctx context.Context, record weather.HistoryRecord) error {
	m := historyModel(record)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "location_id"}, {Name: "weather_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"temperature_max", "temperature_min", "humidity", "precipitation",
				"wind_speed", "weather_condition", "weather_description", "updated_at",
			}),
		}).
		Create(&m).Error
	return translate(err)
}

func locations(models []LocationModel) []weather.Location {
	out := make([]weather.Location, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}
	return out
}
