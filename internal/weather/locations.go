package weather

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// coordinateWindow is the half-width of the pre-check scan around rounded
// coordinates.
const coordinateWindow = 0.00005

// LocationService deduplicates locations and manages saved locations.
type LocationService struct {
	store  LocationStore
	logger *zap.Logger
}

func NewLocationService(store LocationStore, logger *zap.Logger) *LocationService {
	return &LocationService{store: store, logger: logger}
}

// FindOrCreateLocation returns the id of the location whose coordinates round
// to the same four-decimal values, creating it when none exists.
func (s *LocationService) FindOrCreateLocation(ctx context.Context, name string, lat, lon float64) (int64, error) {
	rlat, rlon := RoundCoordinate(lat), RoundCoordinate(lon)

	candidates, err := s.store.FindLocationsInWindow(ctx,
		rlat-coordinateWindow, rlat+coordinateWindow,
		rlon-coordinateWindow, rlon+coordinateWindow)
	if err != nil {
		// The insert below is still guarded by the unique index.
		s.logger.Warn("failed to scan for existing location", zap.Error(err))
	}
	if loc, ok := matchRounded(candidates, lat, lon); ok {
		s.logger.Debug("found existing location",
			zap.Int64("location_id", loc.ID), zap.Float64("lat", rlat), zap.Float64("lon", rlon))
		return loc.ID, nil
	}

	created, err := s.store.CreateLocation(ctx, name, lat, lon)
	if err == nil {
		s.logger.Info("created location",
			zap.Int64("location_id", created.ID), zap.String("name", name),
			zap.Float64("lat", lat), zap.Float64("lon", lon))
		return created.ID, nil
	}
	if !errors.Is(err, ErrConflict) {
		return 0, fmt.Errorf("create location %q: %w", name, err)
	}

	s.logger.Info("location insert hit unique constraint, searching again", zap.String("name", name))
	all, err := s.store.ListLocations(ctx)
	if err != nil {
		return 0, fmt.Errorf("list locations after conflict: %w", err)
	}
	if loc, ok := matchRounded(all, lat, lon); ok {
		return loc.ID, nil
	}
	return 0, fmt.Errorf("could not find or create location %s at %v, %v", name, lat, lon)
}

func matchRounded(locs []Location, lat, lon float64) (Location, bool) {
	for _, loc := range locs {
		if SameSpot(loc.Latitude, loc.Longitude, lat, lon) {
			return loc, true
		}
	}
	return Location{}, false
}

// SaveUserLocation saves a location for a user. saved is false, with a nil
// error, when the user already saved that location.
func (s *LocationService) SaveUserLocation(ctx context.Context, userID, locationID int64, customName *string) (SavedLocation, bool, error) {
	_, err := s.store.FindSavedLocation(ctx, userID, locationID)
	if err == nil {
		return SavedLocation{}, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return SavedLocation{}, false, fmt.Errorf("find saved location: %w", err)
	}

	if customName != nil && *customName == "" {
		customName = nil
	}
	created, err := s.store.CreateSavedLocation(ctx, SavedLocation{
		UserID:     userID,
		LocationID: locationID,
		CustomName: customName,
	})
	if errors.Is(err, ErrConflict) {
		return SavedLocation{}, false, nil
	}
	if err != nil {
		return SavedLocation{}, false, fmt.Errorf("save location: %w", err)
	}
	return created, true, nil
}

// RemoveUserLocation deletes a saved location owned by the user and returns
// its display name. removed is false when no such saved location exists for
// that user.
func (s *LocationService) RemoveUserLocation(ctx context.Context, userID, savedID int64) (string, bool, error) {
	saved, err := s.store.GetSavedLocation(ctx, userID, savedID)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find saved location: %w", err)
	}

	if err := s.store.DeleteSavedLocation(ctx, userID, savedID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("delete saved location: %w", err)
	}
	return saved.DisplayName(), true, nil
}

// ListUserLocations returns the user's saved locations, newest first.
func (s *LocationService) ListUserLocations(ctx context.Context, userID int64) ([]SavedLocation, error) {
	saved, err := s.store.ListSavedLocations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved locations: %w", err)
	}
	return saved, nil
}

// GetUserLocation returns a saved location with its location, scoped to the user.
func (s *LocationService) GetUserLocation(ctx context.Context, userID, savedID int64) (SavedLocation, error) {
	saved, err := s.store.GetSavedLocation(ctx, userID, savedID)
	if errors.Is(err, ErrNotFound) {
		return SavedLocation{}, NewError(ErrNotFound, "Location not found or access denied")
	}
	if err != nil {
		return SavedLocation{}, fmt.Errorf("find saved location: %w", err)
	}
	return saved, nil
}

// TrackedLocations returns every location saved by at least one user.
func (s *LocationService) TrackedLocations(ctx context.Context) ([]Location, error) {
	locs, err := s.store.ListTrackedLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tracked locations: %w", err)
	}
	return locs, nil
}
