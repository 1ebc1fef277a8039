// Package email sends transactional mail for bookings.
package email

import (
	"context"

	"nowmarketing_backend/platform/config"
)

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	FileName string
	Content  []byte
}

// BookingEmailData carries the fields the booking templates render.
type BookingEmailData struct {
	BookingID     string
	AgencyName    string
	ScheduledDate string
}

// Sender delivers booking emails.
type Sender interface {
	// SendBookingConfirmation sends the confirmation with a QR code
	// attachment encoding the booking reference.
	SendBookingConfirmation(ctx context.Context, toEmail string, data BookingEmailData) error
	// SendBookingReminder sends the reminder ahead of the consultation.
	SendBookingReminder(ctx context.Context, toEmail string, data BookingEmailData) error
}

// NewSender builds the configured Sender. When email is disabled it returns
// a no-op sender so callers never branch.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return noopSender{}, nil
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}

type noopSender struct{}

func (noopSender) SendBookingConfirmation(ctx context.Context, toEmail string, data BookingEmailData) error {
	return nil
}

func (noopSender) SendBookingReminder(ctx context.Context, toEmail string, data BookingEmailData) error {
	return nil
}
