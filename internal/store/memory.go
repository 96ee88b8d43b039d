package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-locations/internal/weather"
)

type historyKey struct {
	locationID int64
	date       string
}

// MemoryStore is a concurrency-safe in-memory implementation of the user,
// location and history stores. It enforces the same uniqueness rules as the
// Postgres schema.
type MemoryStore struct {
	mu sync.RWMutex

	users     map[int64]weather.User
	locations map[int64]weather.Location
	saved     map[int64]weather.SavedLocation
	history   map[historyKey]weather.HistoryRecord

	nextID int64
	now    func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int64]weather.User),
		locations: make(map[int64]weather.Location),
		saved:     make(map[int64]weather.SavedLocation),
		history:   make(map[historyKey]weather.HistoryRecord),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (weather.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return weather.User{}, weather.ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, email string, at time.Time) (weather.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return weather.User{}, weather.ErrConflict
		}
	}
	u := weather.User{ID: s.id(), Email: email, LastLogin: at, CreatedAt: at}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) TouchLastLogin(_ context.Context, userID int64, at time.Time) (weather.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return weather.User{}, weather.ErrNotFound
	}
	u.LastLogin = at
	s.users[userID] = u
	return u, nil
}

func (s *MemoryStore) FindLocationsInWindow(_ context.Context, minLat, maxLat, minLon, maxLon float64) ([]weather.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []weather.Location
	for _, loc := range s.sortedLocations() {
		if loc.Latitude >= minLat && loc.Latitude <= maxLat &&
			loc.Longitude >= minLon && loc.Longitude <= maxLon {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (s *MemoryStore) ListLocations(_ context.Context) ([]weather.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocations(), nil
}

func (s *MemoryStore) sortedLocations() []weather.Location {
	out := make([]weather.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateLocation rejects coordinates that round to an existing location,
// mirroring the rounded-coordinate unique index.
func (s *MemoryStore) CreateLocation(_ context.Context, name string, lat, lon float64) (weather.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loc := range s.locations {
		if weather.SameSpot(loc.Latitude, loc.Longitude, lat, lon) {
			return weather.Location{}, weather.ErrConflict
		}
	}
	loc := weather.Location{ID: s.id(), Name: name, Latitude: lat, Longitude: lon, CreatedAt: s.now()}
	s.locations[loc.ID] = loc
	return loc, nil
}

func (s *MemoryStore) FindSavedLocation(_ context.Context, userID, locationID int64) (weather.SavedLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sl := range s.saved {
		if sl.UserID == userID && sl.LocationID == locationID {
			return s.withLocation(sl), nil
		}
	}
	return weather.SavedLocation{}, weather.ErrNotFound
}

func (s *MemoryStore) CreateSavedLocation(_ context.Context, saved weather.SavedLocation) (weather.SavedLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[saved.UserID]; !ok {
		return weather.SavedLocation{}, weather.Errorf(weather.ErrNotFound, "user %d not found", saved.UserID)
	}
	if _, ok := s.locations[saved.LocationID]; !ok {
		return weather.SavedLocation{}, weather.Errorf(weather.ErrNotFound, "location %d not found", saved.LocationID)
	}
	for _, sl := range s.saved {
		if sl.UserID == saved.UserID && sl.LocationID == saved.LocationID {
			return weather.SavedLocation{}, weather.ErrConflict
		}
	}

	saved.ID = s.id()
	saved.AddedAt = s.now()
	s.saved[saved.ID] = saved
	return s.withLocation(saved), nil
}

func (s *MemoryStore) ListSavedLocations(_ context.Context, userID int64) ([]weather.SavedLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []weather.SavedLocation
	for _, sl := range s.saved {
		if sl.UserID == userID {
			out = append(out, s.withLocation(sl))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetSavedLocation(_ context.Context, userID, savedID int64) (weather.SavedLocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.saved[savedID]
	if !ok || sl.UserID != userID {
		return weather.SavedLocation{}, weather.ErrNotFound
	}
	return s.withLocation(sl), nil
}

func (s *MemoryStore) DeleteSavedLocation(_ context.Context, userID, savedID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.saved[savedID]
	if !ok || sl.UserID != userID {
		return weather.ErrNotFound
	}
	delete(s.saved, savedID)
	return nil
}

func (s *MemoryStore) ListTrackedLocations(_ context.Context) ([]weather.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tracked := make(map[int64]struct{})
	for _, sl := range s.saved {
		tracked[sl.LocationID] = struct{}{}
	}
	var out []weather.Location
	for _, loc := range s.sortedLocations() {
		if _, ok := tracked[loc.ID]; ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (s *MemoryStore) withLocation(sl weather.SavedLocation) weather.SavedLocation {
	sl.Location = s.locations[sl.LocationID]
	return sl
}

// ListHistory returns rows for the location in [start, end] ordered by date,
// capped at limit when limit is positive.
func (s *MemoryStore) ListHistory(_ context.Context, locationID int64, start, end time.Time, limit int) ([]weather.HistoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := start.Format(weather.DateLayout), end.Format(weather.DateLayout)
	var out []weather.HistoryRecord
	for key, rec := range s.history {
		if key.locationID == locationID && key.date >= from && key.date <= to {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpsertHistory inserts or replaces the row for (location, date).
func (s *MemoryStore) UpsertHistory(_ context.Context, record weather.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[record.LocationID]; !ok {
		return weather.Errorf(weather.ErrNotFound, "location %d not found", record.LocationID)
	}
	record.Date = weather.Day(record.Date)
	s.history[historyKey{locationID: record.LocationID, date: record.DateKey()}] = record
	return nil
}
