package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nowmarketing_backend/internal/bookings/repository"
	"nowmarketing_backend/internal/bookings/service"
	"nowmarketing_backend/internal/email"
	"nowmarketing_backend/internal/events"
	"nowmarketing_backend/internal/scheduler"
	"nowmarketing_backend/platform/config"
	"nowmarketing_backend/platform/db"
	"nowmarketing_backend/platform/logger"
	"nowmarketing_backend/platform/validator"
)

// The worker processes scheduled tasks (booking reminders). It needs both
// the database and Redis; without either there is nothing to do.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	if !cfg.IsDatabaseEnabled() {
		panic("DATABASE_URL is required for the worker")
	}
	if cfg.GetRedisURL() == "" {
		panic("REDIS_URL is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	bus := events.NewInMemoryBus(log)
	bookingsSvc := service.New(repository.New(pool), bus, sender, nil, validator.New(), log)

	worker, err := scheduler.NewWorker(cfg, bookingsSvc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	log.Info("worker listening for tasks")
	worker.Run(ctx)
	log.Info("worker stopped")
}
