package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
)

// ReminderService schedules and dispatches postpartum reminders.
type ReminderService struct {
	reminders ports.ReminderRepository
	events    ports.EventPublisher
}

// NewReminderService creates a new ReminderService.
func NewReminderService(reminders ports.ReminderRepository, events ports.EventPublisher) *ReminderService {
	return &ReminderService{reminders: reminders, events: events}
}

// Schedule stores a reminder for later dispatch.
func (s *ReminderService) Schedule(ctx context.Context, reminder *domain.Reminder) error {
	if reminder.MotherID == "" || reminder.Title == "" {
		return fmt.Errorf("reminder needs a mother and a title")
	}
	return s.reminders.Create(ctx, reminder)
}

// DispatchDue publishes every reminder due at or before now and marks it
// sent. A reminder whose publish fails stays unsent and is retried on the
// next pass. Returns the number dispatched.
func (s *ReminderService) DispatchDue(ctx context.Context, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	due, err := s.reminders.ListDue(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	for i := range due {
		r := &due[i]
		if err := s.events.PublishReminderDue(ctx, r); err != nil {
			slog.Warn("reminder publish failed", "reminder_id", r.ID, "error", err)
			continue
		}
		if err := s.reminders.MarkSent(ctx, r.ID); err != nil {
			slog.Warn("reminder mark-sent failed", "reminder_id", r.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// ListByMother returns a mother's reminders.
func (s *ReminderService) ListByMother(ctx context.Context, motherID string) ([]domain.Reminder, error) {
	return s.reminders.ListByMother(ctx, motherID)
}
