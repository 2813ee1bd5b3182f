package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/nats-io/nats.go"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "APPOINTMENTS",
			Subjects:  []string{"care.appointment.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    72 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "REMINDERS",
			Subjects:  []string{"care.reminder.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist — try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishAppointmentBooked(ctx context.Context, appt *domain.Appointment) error {
	data, err := json.Marshal(appt)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("care.appointment.booked."+appt.HealthWorkerID, data)
	return err
}

func (p *Publisher) PublishReminderDue(ctx context.Context, reminder *domain.Reminder) error {
	data, err := json.Marshal(reminder)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("care.reminder.due."+reminder.MotherID, data)
	return err
}

func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish("care.notify.broadcast", data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
