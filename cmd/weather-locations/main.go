package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpapi "github.com/i474232898/weather-locations/internal/api/http"
	"github.com/i474232898/weather-locations/internal/cache"
	"github.com/i474232898/weather-locations/internal/config"
	"github.com/i474232898/weather-locations/internal/logging"
	"github.com/i474232898/weather-locations/internal/scheduler"
	"github.com/i474232898/weather-locations/internal/store"
	"github.com/i474232898/weather-locations/internal/weather"
	"github.com/i474232898/weather-locations/internal/weather/providers"
)

// dataStore is what both store backends provide.
type dataStore interface {
	weather.UserStore
	weather.LocationStore
	weather.HistoryStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Storage: Postgres when configured, otherwise in memory.
	var (
		db *gorm.DB
		st dataStore
	)
	if cfg.DatabaseURL != "" {
		logger.Info("connecting to database", zap.String("url", logging.SanitizeConnectionString(cfg.DatabaseURL)))
		db, err = store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := store.ClosePostgres(db); err != nil {
				logger.Warn("error closing database", zap.Error(err))
			}
		}()

		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("failed to get sql.DB", zap.Error(err))
		}
		if err := store.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		st = store.NewPostgresStore(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemoryStore()
	}

	// Geocode cache: Redis when configured, otherwise in process.
	var geoCache weather.Cache
	if cfg.RedisURL != "" {
		logger.Info("connecting to redis", zap.String("url", logging.SanitizeConnectionString(cfg.RedisURL)))
		client, err := cache.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		geoCache = cache.NewRedisCache(client, "weather-locations:")
	} else {
		geoCache = cache.NewMemoryCache(cfg.GeocodeCacheTTL, 10*time.Minute)
	}

	// Providers with resilience (backoff + circuit breaker).
	httpCfg := providers.DefaultHTTPClientConfig(cfg.HTTPTimeout, cfg.ProviderMaxRetries, logger)
	openMeteo := providers.NewOpenMeteoProvider(cfg.ForecastAPIURL, cfg.ArchiveAPIURL, httpCfg)
	geocoder := providers.NewOpenMeteoGeocoder(cfg.GeocodingAPIURL, httpCfg)

	var reverse weather.ReverseGeocoder
	if g := providers.NewGoogleReverseGeocoder(cfg.GoogleGeocodingAPIKey, cfg.HTTPTimeout); g != nil {
		reverse = g
	} else {
		logger.Info("GOOGLE_GEOCODING_API_KEY not set, current-location names fall back to coordinates")
	}

	formatter := weather.NewFormatter()
	engine := weather.NewHistoryEngine(st, openMeteo, logger)
	locations := weather.NewLocationService(st, logger)
	service := weather.NewService(
		weather.NewUserService(st, logger),
		locations,
		weather.NewForecastService(openMeteo, geocoder, reverse, geoCache, formatter, weather.ForecastOptions{
			HourlyLimit: cfg.HourlyLimit,
			GeocodeTTL:  cfg.GeocodeCacheTTL,
		}, logger),
		engine,
		formatter,
		logger,
	)

	// Keeps month-to-date history of saved locations warm.
	warmer := scheduler.New(locations, engine, cfg.HistoryWarmInterval, logger)
	if err := warmer.Start(); err != nil {
		logger.Fatal("failed to start history warmer", zap.Error(err))
	}
	defer warmer.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-locations",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	app.Use(logging.RequestLogger(logger))

	httpapi.RegisterRoutes(app, service, logger)

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
}
