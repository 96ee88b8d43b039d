package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/i474232898/weather-locations/internal/store"
	"github.com/i474232898/weather-locations/internal/weather"
)

// archiveStub returns a complete day for every date in the range, except for
// locations listed in fail.
type archiveStub struct {
	mu    sync.Mutex
	calls int
	fail  map[float64]bool
}

func (a *archiveStub) FetchHistory(_ context.Context, lat, _ float64, start, end time.Time, _ string) ([]weather.DailyObservation, error) {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	if a.fail[lat] {
		return nil, errors.New("archive down")
	}

	var out []weather.DailyObservation
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		code, hi, lo := 1, 12.0, 4.0
		out = append(out, weather.DailyObservation{
			Date: d.Format(weather.DateLayout), WeatherCode: &code, TempMaxC: &hi, TempMinC: &lo,
		})
	}
	return out, nil
}

func seed(t *testing.T, st *store.MemoryStore) []weather.Location {
	t.Helper()
	ctx := context.Background()
	u, err := st.CreateUser(ctx, "warm@example.com", time.Now().UTC())
	require.NoError(t, err)

	var locs []weather.Location
	for i, c := range [][2]float64{{48.8534, 2.3488}, {41.8919, 12.5113}} {
		loc, err := st.CreateLocation(ctx, []string{"Paris", "Rome"}[i], c[0], c[1])
		require.NoError(t, err)
		_, err = st.CreateSavedLocation(ctx, weather.SavedLocation{UserID: u.ID, LocationID: loc.ID})
		require.NoError(t, err)
		locs = append(locs, loc)
	}
	// Unsaved locations are not warmed.
	_, err = st.CreateLocation(ctx, "Nobody's", 1, 1)
	require.NoError(t, err)
	return locs
}

func TestRunOnce_WarmsTrackedLocations(t *testing.T) {
	st := store.NewMemoryStore()
	locs := seed(t, st)
	archive := &archiveStub{}

	engine := weather.NewHistoryEngine(st, archive, zap.NewNop())
	engine.SetClock(func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) })
	warmer := New(weather.NewLocationService(st, zap.NewNop()), engine, time.Hour, zap.NewNop())

	assert.Equal(t, 2, warmer.RunOnce(context.Background()))
	assert.Equal(t, 2, archive.calls)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, loc := range locs {
		rows, err := st.ListHistory(context.Background(), loc.ID, start, start.AddDate(0, 0, 9), 50)
		require.NoError(t, err)
		assert.Len(t, rows, 10)
	}

	// Second run is served from the store.
	assert.Equal(t, 2, warmer.RunOnce(context.Background()))
	assert.Equal(t, 2, archive.calls)
}

func TestRunOnce_FailuresDoNotStopOtherLocations(t *testing.T) {
	st := store.NewMemoryStore()
	seed(t, st)
	archive := &archiveStub{fail: map[float64]bool{48.8534: true}}

	engine := weather.NewHistoryEngine(st, archive, zap.NewNop())
	engine.SetClock(func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) })
	warmer := New(weather.NewLocationService(st, zap.NewNop()), engine, time.Hour, zap.NewNop())

	assert.Equal(t, 1, warmer.RunOnce(context.Background()))
	assert.Equal(t, 2, archive.calls)
}

// slowArchive records how many calls overlap.
type slowArchive struct {
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	archiveStub
}

func (a *slowArchive) FetchHistory(ctx context.Context, lat, lon float64, start, end time.Time, tz string) ([]weather.DailyObservation, error) {
	n := a.inFlight.Add(1)
	defer a.inFlight.Add(-1)
	for {
		seen := a.maxInFlight.Load()
		if n <= seen || a.maxInFlight.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return a.archiveStub.FetchHistory(ctx, lat, lon, start, end, tz)
}

func TestRunOnce_BoundsConcurrentArchiveCalls(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()
	u, err := st.CreateUser(ctx, "many@example.com", time.Now().UTC())
	require.NoError(t, err)
	const tracked = 40
	for i := 0; i < tracked; i++ {
		loc, err := st.CreateLocation(ctx, "Spot", float64(i), float64(i))
		require.NoError(t, err)
		_, err = st.CreateSavedLocation(ctx, weather.SavedLocation{UserID: u.ID, LocationID: loc.ID})
		require.NoError(t, err)
	}

	archive := &slowArchive{}
	engine := weather.NewHistoryEngine(st, archive, zap.NewNop())
	engine.SetClock(func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) })
	warmer := New(weather.NewLocationService(st, zap.NewNop()), engine, time.Hour, zap.NewNop())

	assert.Equal(t, tracked, warmer.RunOnce(ctx))
	assert.Equal(t, tracked, archive.calls)
	assert.LessOrEqual(t, archive.maxInFlight.Load(), int32(maxConcurrentWarms))
	assert.Positive(t, archive.maxInFlight.Load())
}

func TestStart_DisabledInterval(t *testing.T) {
	st := store.NewMemoryStore()
	engine := weather.NewHistoryEngine(st, &archiveStub{}, zap.NewNop())
	warmer := New(weather.NewLocationService(st, zap.NewNop()), engine, 0, zap.NewNop())

	require.NoError(t, warmer.Start())
	assert.False(t, warmer.scheduler.IsRunning())
	warmer.Stop()
}
