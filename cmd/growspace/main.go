package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/growspace/internal/adapter/fsm"
	otelAdapter "github.com/neomorfeo/growspace/internal/adapter/otel"
	"github.com/neomorfeo/growspace/internal/adapter/redis"
	riverAdapter "github.com/neomorfeo/growspace/internal/adapter/river"
	"github.com/neomorfeo/growspace/internal/adapter/sqlite"
	"github.com/neomorfeo/growspace/internal/app"
	"github.com/neomorfeo/growspace/internal/projection"

	handler "github.com/neomorfeo/growspace/internal/adapter/http"
)

// config is the process configuration, read from the environment.
type config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	DatabasePath      string        `env:"DATABASE_PATH" envDefault:"growspace.db"`
	RedisURL          string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"15m"`
	ReconcileOnStart  bool          `env:"RECONCILE_ON_START" envDefault:"true"`
	LogLevel          slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
}

func loadConfig() (config, error) {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		return config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("growspace exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Telemetry ---
	otelCfg, err := otelAdapter.ConfigFromEnv()
	if err != nil {
		return err
	}
	providers, err := otelAdapter.Setup(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otelAdapter.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	store, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	defer store.Close()

	redisClient, err := redis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("read store: %w", err)
	}
	defer redisClient.Close()

	units := otelAdapter.NewTracingGrowingUnitRepository(store.GrowingUnits())
	locations := otelAdapter.NewTracingLocationRepository(store.Locations())
	unitViews := redis.NewGrowingUnitViews(redisClient)
	plantViews := redis.NewPlantViews(redisClient)
	locationViews := redis.NewLocationViews(redisClient)

	// --- Projections ---
	aggregates := app.NewAggregateQueries(units, locations)
	reconciler := projection.NewReconciler(aggregates, unitViews, plantViews, locationViews, logger)

	riverClient, err := riverAdapter.Setup(ctx, store.DB(), reconciler, riverAdapter.Options{
		Interval: cfg.ReconcileInterval,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	scheduler := riverAdapter.NewScheduler(riverClient, logger)

	registry := app.NewRegistry(otelAdapter.WrapProjectors(projection.NewProjectors(reconciler, aggregates))...)
	dispatcher := app.NewDispatcher(registry, logger, app.WithFailureHandler(scheduler.FailureHandler()))
	publisher := otelAdapter.NewTracingPublisher(dispatcher)

	// --- Application ---
	services := handler.Services{
		Locations:    app.NewLocationService(locations, units, publisher, logger),
		GrowingUnits: app.NewGrowingUnitService(units, locations, publisher, logger),
		Plants:       app.NewPlantService(units, publisher, fsm.New(), logger),
		Queries:      app.NewQueryService(unitViews, plantViews, locationViews),
	}

	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("starting river: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			logger.Error("river shutdown", "error", err)
		}
	}()

	if cfg.ReconcileOnStart {
		if err := scheduler.Enqueue(ctx, riverAdapter.ReconcileArgs{Target: riverAdapter.TargetAll}); err != nil {
			return err
		}
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(otelchi.Middleware(otelCfg.ServiceName, otelchi.WithChiRoutes(router)))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	api := humachi.New(router, huma.DefaultConfig("growspace", otelCfg.ServiceVersion))
	handler.Register(api, services)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("growspace listening", "port", cfg.Port, "docs", "http://localhost:"+cfg.Port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
