package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type configStub struct {
	redisURL string
	queue    string
}

func (c configStub) GetRedisURL() string       { return c.redisURL }
func (c configStub) GetRedisTLSInsecure() bool { return false }
func (c configStub) GetAsynqQueueName() string { return c.queue }
func (c configStub) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(configStub{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestScheduleBookingReminder(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(configStub{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.ScheduleBookingReminder(context.Background(), BookingReminderPayload{
		BookingID: "0b7cb86e-7f22-4a7a-9f6e-6f0d8f7a2a11",
	}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ScheduleBookingReminder: %v", err)
	}

	if len(mr.Keys()) == 0 {
		t.Fatal("no task persisted to redis")
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := client.ScheduleBookingReminder(context.Background(), BookingReminderPayload{}, time.Now()); err != nil {
		t.Fatalf("ScheduleBookingReminder: %v", err)
	}
}
