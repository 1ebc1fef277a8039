package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"nowmarketing_backend/platform/config"
	"nowmarketing_backend/platform/logger"
)

// ReminderSender delivers a booking reminder when its task becomes due.
// Implemented by the bookings service.
type ReminderSender interface {
	SendReminder(ctx context.Context, bookingID uuid.UUID) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	reminders ReminderSender
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reminders ReminderSender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		reminders: reminders,
		log:       log,
	}

	mux.HandleFunc(TaskBookingReminder, w.handleBookingReminder)

	return w, nil
}

func (w *Worker) handleBookingReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBookingReminderPayload(task)
	if err != nil {
		return err
	}

	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return err
	}

	return w.reminders.SendReminder(ctx, bookingID)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
