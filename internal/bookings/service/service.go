// Package service implements booking creation, listing and cancellation,
// plus the confirmation and reminder side effects.
package service

import (
	"context"
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

// reminderLead is how long before the consultation the reminder goes out.
const reminderLead = 24 * time.Hour

// Service handles booking business logic.
type Service struct {
	repo              repository.Repository
	bus               events.Bus
	sender            email.Sender
	reminderScheduler scheduler.ReminderScheduler
	val               *validator.Validator
	log               *logger.Logger
}

func New(repo repository.Repository, bus events.Bus, sender email.Sender, reminderScheduler scheduler.ReminderScheduler, val *validator.Validator, log *logger.Logger) *Service {
	return &Service{
		repo:              repo,
		bus:               bus,
		sender:            sender,
		reminderScheduler: reminderScheduler,
		val:               val,
		log:               log,
	}
}

// Create stores a booking and publishes BookingCreated. The confirmation
// email and reminder are sent by the event handler so a slow mail server
// never delays the response.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateBookingRequest) (transport.Booking, error) {
	if err := s.val.Struct(req); err != nil {
		return transport.Booking{}, apperr.Validation("agency_id, starts_at and email are required")
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return transport.Booking{}, apperr.Validation("starts_at must be RFC 3339")
	}
	if !startsAt.After(time.Now()) {
		return transport.Booking{}, apperr.Validation("starts_at must be in the future")
	}

	agencyID, _ := uuid.Parse(req.AgencyID)
	booking, err := s.repo.Create(ctx, repository.Booking{
		AgencyID: agencyID,
		UserID:   userID,
		Email:    req.Email,
		Notes:    req.Notes,
		StartsAt: startsAt,
	})
	if err != nil {
		return transport.Booking{}, err
	}

	s.bus.Publish(ctx, events.BookingCreated{
		BaseEvent: events.NewBaseEvent(),
		BookingID: booking.ID,
		AgencyID:  booking.AgencyID,
		UserID:    booking.UserID,
		Email:     booking.Email,
		StartsAt:  booking.StartsAt,
	})

	return toTransport(booking), nil
}

// ListByUser returns the user's bookings.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) (transport.ListBookingsResponse, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return transport.ListBookingsResponse{}, err
	}

	out := make([]transport.Booking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toTransport(b))
	}
	return transport.ListBookingsResponse{Data: out}, nil
}

// Cancel marks the user's booking cancelled.
func (s *Service) Cancel(ctx context.Context, userID, bookingID uuid.UUID) error {
	return s.repo.Cancel(ctx, userID, bookingID)
}

// HandleBookingCreated sends the confirmation email and schedules the
// reminder. Both are best-effort: a mail or scheduler failure never undoes
// the booking.
func (s *Service) HandleBookingCreated(ctx context.Context, e events.BookingCreated) error {
	booking, err := s.repo.GetByID(ctx, e.BookingID)
	if err != nil {
		return err
	}

	data := email.BookingEmailData{
		BookingID:     booking.ID.String(),
		AgencyName:    booking.AgencyName,
		ScheduledDate: booking.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
	}
	if err := s.sender.SendBookingConfirmation(ctx, booking.Email, data); err != nil {
		s.log.Error("failed to send booking confirmation", "bookingId", booking.ID, "error", err)
	}

	if s.reminderScheduler != nil {
		runAt := booking.StartsAt.Add(-reminderLead)
		if runAt.After(time.Now()) {
			if err := s.reminderScheduler.ScheduleBookingReminder(ctx, scheduler.BookingReminderPayload{
				BookingID: booking.ID.String(),
			}, runAt); err != nil {
				s.log.Error("failed to schedule booking reminder", "bookingId", booking.ID, "error", err)
			}
		}
	}
	return nil
}

// SendReminder delivers the reminder email for a booking, skipping
// cancelled ones. The scheduler worker calls this when the reminder task
// becomes due.
func (s *Service) SendReminder(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if booking.Status != repository.StatusConfirmed {
		return nil
	}

	return s.sender.SendBookingReminder(ctx, booking.Email, email.BookingEmailData{
		BookingID:     booking.ID.String(),
		AgencyName:    booking.AgencyName,
		ScheduledDate: booking.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
	})
}

func toTransport(b repository.Booking) transport.Booking {
	return transport.Booking{
		ID:         b.ID.String(),
		AgencyID:   b.AgencyID.String(),
		AgencyName: b.AgencyName,
		Status:     b.Status,
		StartsAt:   b.StartsAt.Format(time.RFC3339),
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}
