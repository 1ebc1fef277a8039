package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"nowmarketing_backend/internal/bookings/repository"
	"nowmarketing_backend/internal/bookings/transport"
	"nowmarketing_backend/internal/email"
	"nowmarketing_backend/internal/events"
	"nowmarketing_backend/internal/scheduler"
	"nowmarketing_backend/platform/apperr"
	"nowmarketing_backend/platform/logger"
	"nowmarketing_backend/platform/validator"
)

type fakeRepo struct {
	bookings map[uuid.UUID]repository.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[uuid.UUID]repository.Booking{}}
}

func (r *fakeRepo) Create(ctx context.Context, booking repository.Booking) (repository.Booking, error) {
	booking.ID = uuid.New()
	booking.Status = repository.StatusConfirmed
	booking.CreatedAt = time.Now()
	booking.AgencyName = "Acme Marketing"
	r.bookings[booking.ID] = booking
	return booking, nil
}

func (r *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.Booking, error) {
	out := make([]repository.Booking, 0)
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return repository.Booking{}, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (r *fakeRepo) Cancel(ctx context.Context, userID, id uuid.UUID) error {
	b, ok := r.bookings[id]
	if !ok || b.UserID != userID {
		return apperr.NotFound("booking not found")
	}
	b.Status = repository.StatusCancelled
	r.bookings[id] = b
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

type recordingSender struct {
	confirmations []string
	reminders     []string
}

func (s *recordingSender) SendBookingConfirmation(ctx context.Context, toEmail string, data email.BookingEmailData) error {
	s.confirmations = append(s.confirmations, toEmail)
	return nil
}

func (s *recordingSender) SendBookingReminder(ctx context.Context, toEmail string, data email.BookingEmailData) error {
	s.reminders = append(s.reminders, toEmail)
	return nil
}

type recordingScheduler struct {
	scheduled []time.Time
}

func (s *recordingScheduler) ScheduleBookingReminder(ctx context.Context, payload scheduler.BookingReminderPayload, runAt time.Time) error {
	s.scheduled = append(s.scheduled, runAt)
	return nil
}

func TestCreatePublishesBookingCreated(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := New(repo, bus, &recordingSender{}, nil, validator.New(), logger.New("test"))

	startsAt := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	booking, err := svc.Create(context.Background(), uuid.New(), transport.CreateBookingRequest{
		AgencyID: uuid.NewString(),
		StartsAt: startsAt.Format(time.RFC3339),
		Email:    "consumer@example.com",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if booking.Status != repository.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}
	if len(bus.published) != 1 {
		t.Fatalf("published %d events, want 1", len(bus.published))
	}
	if _, ok := bus.published[0].(events.BookingCreated); !ok {
		t.Fatalf("published %T, want BookingCreated", bus.published[0])
	}
}

func TestCreateRejectsPastStart(t *testing.T) {
	svc := New(newFakeRepo(), &recordingBus{}, &recordingSender{}, nil, validator.New(), logger.New("test"))

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateBookingRequest{
		AgencyID: uuid.NewString(),
		StartsAt: time.Now().Add(-time.Hour).Format(time.RFC3339),
		Email:    "consumer@example.com",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation", apperr.GetKind(err))
	}
}

func TestHandleBookingCreatedSendsConfirmationAndSchedulesReminder(t *testing.T) {
	repo := newFakeRepo()
	sender := &recordingSender{}
	sched := &recordingScheduler{}
	svc := New(repo, &recordingBus{}, sender, sched, validator.New(), logger.New("test"))

	startsAt := time.Now().Add(72 * time.Hour)
	booking, _ := repo.Create(context.Background(), repository.Booking{
		UserID:   uuid.New(),
		AgencyID: uuid.New(),
		Email:    "consumer@example.com",
		StartsAt: startsAt,
	})

	err := svc.HandleBookingCreated(context.Background(), events.BookingCreated{BookingID: booking.ID})
	if err != nil {
		t.Fatalf("HandleBookingCreated: %v", err)
	}
	if len(sender.confirmations) != 1 || sender.confirmations[0] != "consumer@example.com" {
		t.Fatalf("confirmations = %v", sender.confirmations)
	}
	if len(sched.scheduled) != 1 {
		t.Fatalf("scheduled %d reminders, want 1", len(sched.scheduled))
	}
	wantRunAt := startsAt.Add(-24 * time.Hour)
	if diff := sched.scheduled[0].Sub(wantRunAt); diff < -time.Second || diff > time.Second {
		t.Fatalf("reminder at %v, want %v", sched.scheduled[0], wantRunAt)
	}
}

func TestHandleBookingCreatedSkipsReminderForSoonBookings(t *testing.T) {
	repo := newFakeRepo()
	sched := &recordingScheduler{}
	svc := New(repo, &recordingBus{}, &recordingSender{}, sched, validator.New(), logger.New("test"))

	booking, _ := repo.Create(context.Background(), repository.Booking{
		UserID:   uuid.New(),
		AgencyID: uuid.New(),
		Email:    "consumer@example.com",
		StartsAt: time.Now().Add(2 * time.Hour),
	})

	if err := svc.HandleBookingCreated(context.Background(), events.BookingCreated{BookingID: booking.ID}); err != nil {
		t.Fatalf("HandleBookingCreated: %v", err)
	}
	if len(sched.scheduled) != 0 {
		t.Fatal("reminder scheduled inside the lead window")
	}
}

func TestSendReminderSkipsCancelled(t *testing.T) {
	repo := newFakeRepo()
	sender := &recordingSender{}
	svc := New(repo, &recordingBus{}, sender, nil, validator.New(), logger.New("test"))

	userID := uuid.New()
	booking, _ := repo.Create(context.Background(), repository.Booking{
		UserID:   userID,
		AgencyID: uuid.New(),
		Email:    "consumer@example.com",
		StartsAt: time.Now().Add(48 * time.Hour),
	})
	if err := svc.Cancel(context.Background(), userID, booking.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if err := svc.SendReminder(context.Background(), booking.ID); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}
	if len(sender.reminders) != 0 {
		t.Fatal("reminder sent for cancelled booking")
	}

	// A booking deleted before its reminder fires is not an error either.
	if err := svc.SendReminder(context.Background(), uuid.New()); err != nil {
		t.Fatalf("SendReminder for unknown booking: %v", err)
	}
}
