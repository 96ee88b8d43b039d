package weather_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/weather-locations/internal/store"
	"github.com/i474232898/weather-locations/internal/weather"
)

func TestFindOrCreateLocation_DeduplicatesByRoundedCoordinates(t *testing.T) {
	st := store.NewMemoryStore()
	svc := weather.NewLocationService(st, zap.NewNop())
	ctx := context.Background()

	id, err := svc.FindOrCreateLocation(ctx, "Paris, France", 48.85341, 2.3488)
	require.NoError(t, err)

	again, err := svc.FindOrCreateLocation(ctx, "Paris", 48.853412, 2.348801)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	other, err := svc.FindOrCreateLocation(ctx, "Not quite Paris", 48.8536, 2.3488)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	all, err := st.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindOrCreateLocation_HalfwayCoordinatesResolveToOneLocation(t *testing.T) {
	st := store.NewMemoryStore()
	svc := weather.NewLocationService(st, zap.NewNop())
	ctx := context.Background()

	id, err := svc.FindOrCreateLocation(ctx, "Tokyo, Japan", 35.68955, 139.69171)
	require.NoError(t, err)
	again, err := svc.FindOrCreateLocation(ctx, "Tokyo", 35.6896, 139.69171)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

// blindStore hides existing rows from the window scan, as if another request
// inserted them between the scan and the insert.
type blindStore struct {
	*store.MemoryStore
	rejectAll bool
}

func (b *blindStore) FindLocationsInWindow(context.Context, float64, float64, float64, float64) ([]weather.Location, error) {
	return nil, nil
}

func (b *blindStore) CreateLocation(ctx context.Context, name string, lat, lon float64) (weather.Location, error) {
	if b.rejectAll {
		return weather.Location{}, weather.ErrConflict
	}
	return b.MemoryStore.CreateLocation(ctx, name, lat, lon)
}

func TestFindOrCreateLocation_ConflictFallsBackToFullScan(t *testing.T) {
	mem := store.NewMemoryStore()
	existing, err := mem.CreateLocation(context.Background(), "Tokyo, Japan", 35.6895, 139.69171)
	require.NoError(t, err)

	svc := weather.NewLocationService(&blindStore{MemoryStore: mem}, zap.NewNop())
	id, err := svc.FindOrCreateLocation(context.Background(), "Tokyo", 35.68951, 139.69171)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, id)
}

func TestFindOrCreateLocation_ConflictWithoutMatchFails(t *testing.T) {
	svc := weather.NewLocationService(&blindStore{MemoryStore: store.NewMemoryStore(), rejectAll: true}, zap.NewNop())
	_, err := svc.FindOrCreateLocation(context.Background(), "Ghost", 1, 1)
	assert.Error(t, err)
}

func TestSaveUserLocation_TwiceReportsAlreadySaved(t *testing.T) {
	st := store.NewMemoryStore()
	svc := weather.NewLocationService(st, zap.NewNop())
	ctx := context.Background()

	u, err := st.CreateUser(ctx, "a@example.com", time.Now().UTC())
	require.NoError(t, err)
	locID, err := svc.FindOrCreateLocation(ctx, "Paris, France", 48.8534, 2.3488)
	require.NoError(t, err)

	saved, ok, err := svc.SaveUserLocation(ctx, u.ID, locID, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Paris, France", saved.DisplayName())

	_, ok, err = svc.SaveUserLocation(ctx, u.ID, locID, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := svc.ListUserLocations(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveUserLocation_EmptyCustomNameUsesLocationName(t *testing.T) {
	st := store.NewMemoryStore()
	svc := weather.NewLocationService(st, zap.NewNop())
	ctx := context.Background()

	u, err := st.CreateUser(ctx, "a@example.com", time.Now().UTC())
	require.NoError(t, err)
	locID, err := svc.FindOrCreateLocation(ctx, "Rome, Italy", 41.8919, 12.5113)
	require.NoError(t, err)

	empty := ""
	saved, ok, err := svc.SaveUserLocation(ctx, u.ID, locID, &empty)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, saved.CustomName)
	assert.Equal(t, "Rome, Italy", saved.DisplayName())
}

func TestRemoveUserLocation_ScopedToOwner(t *testing.T) {
	st := store.NewMemoryStore()
	svc := weather.NewLocationService(st, zap.NewNop())
	ctx := context.Background()

	alice, err := st.CreateUser(ctx, "alice@example.com", time.Now().UTC())
	require.NoError(t, err)
	mallory, err := st.CreateUser(ctx, "mallory@example.com", time.Now().UTC())
	require.NoError(t, err)
	locID, err := svc.FindOrCreateLocation(ctx, "Oslo, Norway", 59.9127, 10.7461)
	require.NoError(t, err)

	home := "Home"
	saved, _, err := svc.SaveUserLocation(ctx, alice.ID, locID, &home)
	require.NoError(t, err)

	_, removed, err := svc.RemoveUserLocation(ctx, mallory.ID, saved.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = svc.GetUserLocation(ctx, mallory.ID, saved.ID)
	assert.ErrorIs(t, err, weather.ErrNotFound)

	name, removed, err := svc.RemoveUserLocation(ctx, alice.ID, saved.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "Home", name)

	_, removed, err = svc.RemoveUserLocation(ctx, alice.ID, saved.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}
