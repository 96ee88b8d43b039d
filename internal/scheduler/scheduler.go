package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-locations/internal/weather"
)

const (
	warmTimeout = 30 * time.Second
	// maxConcurrentWarms bounds in-flight archive calls; they share one breaker.
	maxConcurrentWarms = 4
)

// TrackedLocations lists the locations worth warming.
type TrackedLocations interface {
	TrackedLocations(ctx context.Context) ([]weather.Location, error)
}

// HistoryWarmer periodically backfills month-to-date history for every
// location saved by at least one user.
type HistoryWarmer struct {
	scheduler *gocron.Scheduler
	locations TrackedLocations
	engine    *weather.HistoryEngine
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a HistoryWarmer. A non-positive interval disables the job.
func New(locations TrackedLocations, engine *weather.HistoryEngine, interval time.Duration, logger *zap.Logger) *HistoryWarmer {
	return &HistoryWarmer{
		scheduler: gocron.NewScheduler(time.UTC),
		locations: locations,
		engine:    engine,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first run happens immediately.
func (w *HistoryWarmer) Start() error {
	if w.interval <= 0 {
		w.logger.Info("history warmer disabled")
		return nil
	}

	_, err := w.scheduler.Every(w.interval).SingletonMode().Do(func() {
		w.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	w.scheduler.StartAsync()
	w.logger.Info("history warmer started", zap.Duration("interval", w.interval))
	return nil
}

// RunOnce warms every tracked location, at most maxConcurrentWarms at a time,
// and returns how many succeeded. Failures are logged per location.
func (w *HistoryWarmer) RunOnce(ctx context.Context) int {
	locs, err := w.locations.TrackedLocations(ctx)
	if err != nil {
		w.logger.Error("history warmer: failed to list tracked locations", zap.Error(err))
		return 0
	}
	if len(locs) == 0 {
		w.logger.Debug("history warmer: no tracked locations")
		return 0
	}

	today := w.engine.Today()
	start, _ := weather.MonthRange(today.Year(), today.Month())

	w.logger.Info("history warmer: running", zap.Int("locations", len(locs)))

	var (
		g      errgroup.Group
		mu     sync.Mutex
		warmed int
	)
	g.SetLimit(maxConcurrentWarms)
	for _, loc := range locs {
		loc := loc
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, warmTimeout)
			defer cancel()

			res, err := w.engine.GetHistory(ctx, loc, start, today)
			if err != nil {
				w.logger.Warn("history warmer: warm failed",
					zap.Int64("location_id", loc.ID), zap.String("location", loc.Name), zap.Error(err))
				return nil
			}
			w.logger.Debug("history warmer: location warm",
				zap.Int64("location_id", loc.ID),
				zap.Int("records", len(res.Records)),
				zap.Bool("from_cache", res.ServedFromCache))

			mu.Lock()
			warmed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	w.logger.Info("history warmer: completed", zap.Int("warmed", warmed), zap.Int("locations", len(locs)))
	return warmed
}

// Stop stops the scheduler and cancels any future jobs.
func (w *HistoryWarmer) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}
