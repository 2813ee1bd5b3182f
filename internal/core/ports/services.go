package ports

import (
	"context"

	"github.com/kanahhealth/kanah/internal/core/domain"
)

// ReverseGeocoder turns a coordinate into a human-readable place label.
// Implementations issue one network call per invocation; caching and
// de-duplication live above this interface.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishAppointmentBooked(ctx context.Context, appt *domain.Appointment) error
	PublishReminderDue(ctx context.Context, reminder *domain.Reminder) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeAppointmentBooked(ctx context.Context, handler func(ctx context.Context, appt *domain.Appointment) error) error
	SubscribeReminders(ctx context.Context, handler func(ctx context.Context, reminder *domain.Reminder) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NotificationService sends notifications (push, SMS, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string) error
}

// PaymentGateway prompts the seeker's phone for a mobile-money payment and
// reports the resulting reference. The stub implementation simulates an
// M-Pesa STK push.
type PaymentGateway interface {
	PromptPayment(ctx context.Context, phoneNumber string, amount int) (reference string, err error)
}
