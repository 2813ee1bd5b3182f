package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/nats-io/nats.go"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber sharing a NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribeAppointmentBooked(ctx context.Context, handler func(ctx context.Context, appt *domain.Appointment) error) error {
	sub, err := s.js.Subscribe("care.appointment.booked.>", func(msg *nats.Msg) {
		var appt domain.Appointment
		if err := json.Unmarshal(msg.Data, &appt); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &appt); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("appointment-notifier"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeReminders(ctx context.Context, handler func(ctx context.Context, reminder *domain.Reminder) error) error {
	sub, err := s.js.Subscribe("care.reminder.due.>", func(msg *nats.Msg) {
		var reminder domain.Reminder
		if err := json.Unmarshal(msg.Data, &reminder); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &reminder); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("reminder-notifier"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
