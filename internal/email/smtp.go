package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendBookingConfirmation sends the confirmation email. The QR code encodes
// the booking reference so the agency can check the visitor in.
func (s *SMTPSender) SendBookingConfirmation(ctx context.Context, toEmail string, data BookingEmailData) error {
	content, err := renderEmailTemplate("booking_confirmation.html", bookingEmailData{
		baseEmailData: baseEmailData{
			Title:   "Your booking is confirmed",
			Heading: "Booking confirmed",
		},
		AgencyName:    data.AgencyName,
		ScheduledDate: data.ScheduledDate,
	})
	if err != nil {
		return err
	}

	qr, err := qrcode.Encode("booking:"+data.BookingID, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("booking qr code: %w", err)
	}

	return s.send(ctx, toEmail, fmt.Sprintf("Booking confirmed with %s", data.AgencyName), content,
		Attachment{FileName: "booking-qr.png", Content: qr})
}

// SendBookingReminder sends the reminder email the day before the
// consultation.
func (s *SMTPSender) SendBookingReminder(ctx context.Context, toEmail string, data BookingEmailData) error {
	content, err := renderEmailTemplate("booking_reminder.html", bookingEmailData{
		baseEmailData: baseEmailData{
			Title:   "Upcoming consultation",
			Heading: "Your consultation is coming up",
		},
		AgencyName:    data.AgencyName,
		ScheduledDate: data.ScheduledDate,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, toEmail, fmt.Sprintf("Reminder: consultation with %s", data.AgencyName), content)
}

var _ Sender = (*SMTPSender)(nil)
