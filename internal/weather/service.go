package weather

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LocationSummary is a saved location as listed to its owner.
type LocationSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveRequest describes a location a user wants to save.
type SaveRequest struct {
	Email      string
	Name       string
	Latitude   float64
	Longitude  float64
	CustomName *string
}

// Service is the entry point used by the transport layer. It resolves users
// by email and delegates to the per-concern services.
type Service struct {
	users     *UserService
	locations *LocationService
	forecasts *ForecastService
	history   *HistoryEngine
	formatter *Formatter
	logger    *zap.Logger
}

// NewService creates a new Service.
func NewService(users *UserService, locations *LocationService, forecasts *ForecastService,
	history *HistoryEngine, formatter *Formatter, logger *zap.Logger) *Service {
	return &Service{
		users:     users,
		locations: locations,
		forecasts: forecasts,
		history:   history,
		formatter: formatter,
		logger:    logger,
	}
}

func (s *Service) Login(ctx context.Context, email string) (LoginResult, error) {
	return s.users.Login(ctx, email)
}

// ListLocations returns the user's saved locations, newest first.
func (s *Service) ListLocations(ctx context.Context, email string) ([]LocationSummary, error) {
	userID, err := s.users.UserIDByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	saved, err := s.locations.ListUserLocations(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]LocationSummary, 0, len(saved))
	for _, sl := range saved {
		out = append(out, LocationSummary{
			ID:        sl.ID,
			Name:      sl.DisplayName(),
			Latitude:  sl.Location.Latitude,
			Longitude: sl.Location.Longitude,
			CreatedAt: sl.AddedAt,
		})
	}
	return out, nil
}

// SaveLocation finds or creates the location and saves it for the user.
// Saving a location twice fails with ErrConflict.
func (s *Service) SaveLocation(ctx context.Context, req SaveRequest) (SavedLocation, error) {
	userID, err := s.users.UserIDByEmail(ctx, req.Email)
	if err != nil {
		return SavedLocation{}, err
	}
	locationID, err := s.locations.FindOrCreateLocation(ctx, req.Name, req.Latitude, req.Longitude)
	if err != nil {
		return SavedLocation{}, err
	}

	saved, ok, err := s.locations.SaveUserLocation(ctx, userID, locationID, req.CustomName)
	if err != nil {
		return SavedLocation{}, err
	}
	if !ok {
		return SavedLocation{}, Errorf(ErrConflict, "%s is already in your saved locations", req.Name)
	}
	return saved, nil
}

// RemoveLocation deletes one of the user's saved locations and returns the
// name it was saved under.
func (s *Service) RemoveLocation(ctx context.Context, email string, savedID int64) (string, error) {
	userID, err := s.users.UserIDByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	name, ok, err := s.locations.RemoveUserLocation(ctx, userID, savedID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", NewError(ErrNotFound, "Location not found")
	}
	return name, nil
}

func (s *Service) SearchLocation(ctx context.Context, query string) (Place, error) {
	return s.forecasts.SearchLocation(ctx, query)
}

func (s *Service) NYCForecast(ctx context.Context) (WeatherResponse, error) {
	return s.forecasts.NYCForecast(ctx)
}

func (s *Service) CurrentLocationHourly(ctx context.Context, lat, lon float64) (HourlyResponse, error) {
	return s.forecasts.CurrentLocationHourly(ctx, lat, lon)
}

func (s *Service) LocationForecast(ctx context.Context, lat, lon float64) (WeatherResponse, error) {
	return s.forecasts.LocationForecast(ctx, lat, lon)
}

// MonthlyHistory returns daily history for one month of a user's saved
// location. The current month is served up to today.
func (s *Service) MonthlyHistory(ctx context.Context, email string, savedID int64, year int, month time.Month) (HistoricalResponse, error) {
	if month < time.January || month > time.December {
		return HistoricalResponse{}, Errorf(ErrValidation, "invalid month %d", month)
	}
	userID, err := s.users.UserIDByEmail(ctx, email)
	if err != nil {
		return HistoricalResponse{}, err
	}
	saved, err := s.locations.GetUserLocation(ctx, userID, savedID)
	if err != nil {
		return HistoricalResponse{}, err
	}

	start, end := MonthRange(year, month)
	result, err := s.history.GetHistory(ctx, saved.Location, start, end)
	if err != nil {
		return HistoricalResponse{}, err
	}
	s.logger.Debug("served monthly history",
		zap.Int64("location_id", saved.LocationID),
		zap.String("month", fmt.Sprintf("%04d-%02d", year, int(month))),
		zap.Bool("from_cache", result.ServedFromCache))

	lat, lon := saved.Location.Latitude, saved.Location.Longitude
	info := LocationInfo{
		Name:      saved.DisplayName(),
		Latitude:  &lat,
		Longitude: &lon,
	}
	return s.formatter.History(result.Records, info, result.ServedFromCache), nil
}
