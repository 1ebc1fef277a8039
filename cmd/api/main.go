package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nowmarketing_backend/internal/adapters"
	"nowmarketing_backend/internal/bookings"
	"nowmarketing_backend/internal/email"
	"nowmarketing_backend/internal/events"
	apphttp "nowmarketing_backend/internal/http"
	"nowmarketing_backend/internal/http/router"
	"nowmarketing_backend/internal/places"
	"nowmarketing_backend/internal/reviews"
	"nowmarketing_backend/internal/saved"
	"nowmarketing_backend/internal/scheduler"
	"nowmarketing_backend/migrations"
	"nowmarketing_backend/platform/config"
	"nowmarketing_backend/platform/db"
	"nowmarketing_backend/platform/logger"
	"nowmarketing_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Without DATABASE_URL the service runs compute-only: search and detail
	// work against the upstream sources, persistence features are disabled.
	var pool *pgxpool.Pool
	if cfg.IsDatabaseEnabled() {
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, migrations.FS)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")

		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			p, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			pool = p
			return nil
		}); err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		defer pool.Close()
		log.Info("database connection established")
	} else {
		log.Warn("DATABASE_URL not configured; running compute-only")
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	var modules []apphttp.Module
	var reviewsAdapter *adapters.PlacesReviewsAdapter

	if pool != nil {
		reviewsModule := reviews.NewModule(pool, eventBus, val, log)
		reviewsModule.RegisterHandlers(eventBus)
		reviewsAdapter = adapters.NewPlacesReviewsAdapter(reviewsModule.Service())

		savedModule := saved.NewModule(pool, val)

		bookingsModule := bookings.NewModule(pool, eventBus, sender, reminderScheduler, val, log)
		bookingsModule.RegisterHandlers(eventBus)

		modules = append(modules, reviewsModule, savedModule, bookingsModule)
	}

	var placesModule *places.Module
	if reviewsAdapter != nil {
		placesModule = places.NewModule(pool, cfg, reviewsAdapter, log)
	} else {
		placesModule = places.NewModule(pool, cfg, nil, log)
	}
	modules = append(modules, placesModule)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	var health apphttp.HealthChecker
	if pool != nil {
		health = db.NewPoolAdapter(pool)
	}

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules:  modules,
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; booking reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
