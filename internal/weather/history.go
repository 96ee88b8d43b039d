package weather

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// historyReadLimit caps a single history read; a month never exceeds it.
const historyReadLimit = 50

// HistoryResult is the outcome of a history lookup. Start and End are the
// effective range after clamping End to today.
type HistoryResult struct {
	Location        Location
	Start           time.Time
	End             time.Time
	Records         []HistoryRecord
	ServedFromCache bool
}

// HistoryEngine serves daily history from the store and backfills missing
// ranges from the provider.
type HistoryEngine struct {
	store    HistoryStore
	provider HistoryProvider
	logger   *zap.Logger
	timezone string
	now      func() time.Time
}

// NewHistoryEngine creates a HistoryEngine. The provider is queried with the
// "auto" timezone so days align with the location's local calendar.
func NewHistoryEngine(store HistoryStore, provider HistoryProvider, logger *zap.Logger) *HistoryEngine {
	return &HistoryEngine{
		store:    store,
		provider: provider,
		logger:   logger,
		timezone: "auto",
		now:      time.Now,
	}
}

// SetClock replaces the clock that decides what "today" is.
func (e *HistoryEngine) SetClock(now func() time.Time) {
	e.now = now
}

// Today returns the engine's current calendar day.
func (e *HistoryEngine) Today() time.Time {
	return Day(e.now())
}

// GetHistory returns daily history for loc over [start, end].
//
// A range starting after today fails with ErrFutureRange; an end after today
// is clamped to today. When every day of the range is already stored the rows
// are returned without calling the provider. Otherwise the whole range is
// fetched, each usable day is upserted on its own, and the range is read back
// so the result reflects exactly what is persisted.
func (e *HistoryEngine) GetHistory(ctx context.Context, loc Location, start, end time.Time) (HistoryResult, error) {
	start, end = Day(start), Day(end)
	today := e.Today()

	if start.After(today) {
		return HistoryResult{}, ErrFutureRange
	}
	if end.After(today) {
		end = today
	}
	if start.After(end) {
		return HistoryResult{}, Errorf(ErrValidation, "start date %s is after end date %s",
			start.Format(DateLayout), end.Format(DateLayout))
	}

	result := HistoryResult{Location: loc, Start: start, End: end}

	complete, existing, err := e.checkCompleteness(ctx, loc.ID, start, end)
	if err != nil {
		return HistoryResult{}, err
	}
	if complete {
		e.logger.Debug("serving weather history from cache",
			zap.Int64("location_id", loc.ID),
			zap.String("start", start.Format(DateLayout)),
			zap.String("end", end.Format(DateLayout)))
		result.Records = existing
		result.ServedFromCache = true
		return result, nil
	}

	e.logger.Info("fetching weather history from provider",
		zap.Int64("location_id", loc.ID),
		zap.String("location", loc.Name),
		zap.String("start", start.Format(DateLayout)),
		zap.String("end", end.Format(DateLayout)),
		zap.Int("cached_days", len(existing)))

	days, err := e.provider.FetchHistory(ctx, loc.Latitude, loc.Longitude, start, end, e.timezone)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("fetch history for location %d: %w", loc.ID, err)
	}

	stored := e.storeDays(ctx, loc.ID, days)
	e.logger.Info("stored weather history", zap.Int64("location_id", loc.ID), zap.Int("records", stored))

	fresh, err := e.store.ListHistory(ctx, loc.ID, start, end, historyReadLimit)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("reread history for location %d: %w", loc.ID, err)
	}
	result.Records = fresh
	return result, nil
}

// checkCompleteness reports whether every calendar day in [start, end] has a
// stored row. The count check is a cheap negative path; the day walk catches
// ranges holding the right number of rows for the wrong days.
func (e *HistoryEngine) checkCompleteness(ctx context.Context, locationID int64, start, end time.Time) (bool, []HistoryRecord, error) {
	existing, err := e.store.ListHistory(ctx, locationID, start, end, historyReadLimit)
	if err != nil {
		return false, nil, fmt.Errorf("read history for location %d: %w", locationID, err)
	}
	return coversRange(existing, start, end), existing, nil
}

func coversRange(records []HistoryRecord, start, end time.Time) bool {
	expectedDays := int(end.Sub(start).Hours()/24) + 1
	if len(records) < expectedDays {
		return false
	}

	dates := make(map[string]struct{}, len(records))
	for _, r := range records {
		dates[r.DateKey()] = struct{}{}
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, ok := dates[d.Format(DateLayout)]; !ok {
			return false
		}
	}
	return true
}

// storeDays upserts every usable day and returns how many landed. Days with
// incomplete upstream data and days whose write fails are logged and skipped.
func (e *HistoryEngine) storeDays(ctx context.Context, locationID int64, days []DailyObservation) int {
	stored := 0
	for _, day := range days {
		rec, ok := normalizeDay(locationID, day)
		if !ok {
			e.logger.Warn("skipping day with incomplete weather data",
				zap.Int64("location_id", locationID), zap.String("date", day.Date))
			continue
		}
		if err := e.store.UpsertHistory(ctx, rec); err != nil {
			e.logger.Error("failed to store weather history",
				zap.Int64("location_id", locationID), zap.String("date", day.Date), zap.Error(err))
			continue
		}
		stored++
	}
	return stored
}

// normalizeDay converts an archive day into a history row. Max and min
// temperature and the weather code are required.
func normalizeDay(locationID int64, day DailyObservation) (HistoryRecord, bool) {
	if day.TempMaxC == nil || day.TempMinC == nil || day.WeatherCode == nil {
		return HistoryRecord{}, false
	}
	date, err := time.Parse(DateLayout, day.Date)
	if err != nil {
		return HistoryRecord{}, false
	}

	rec := HistoryRecord{
		LocationID:  locationID,
		Date:        date,
		TempMaxC:    day.TempMaxC,
		TempMinC:    day.TempMinC,
		Condition:   strconv.Itoa(*day.WeatherCode),
		Description: Describe(*day.WeatherCode),
	}
	if day.HumidityMean != nil {
		h := int(*day.HumidityMean)
		rec.Humidity = &h
	}
	if day.PrecipitationSum != nil {
		rec.Precipitation = *day.PrecipitationSum
	}
	if day.WindSpeedMax != nil {
		rec.WindSpeed = *day.WindSpeedMax
	}
	return rec, true
}
