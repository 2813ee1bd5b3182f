package postgres

import (
	"context"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
)

// ReminderRepo implements ports.ReminderRepository with pgx.
type ReminderRepo struct {
	db *DB
}

// NewReminderRepo creates a new ReminderRepo.
func NewReminderRepo(db *DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

// Create inserts a reminder.
func (r *ReminderRepo) Create(ctx context.Context, rem *domain.Reminder) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO reminders (mother_id, title, message, category, scheduled_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rem.MotherID, rem.Title, rem.Message, rem.Category, rem.ScheduledTime,
	).Scan(&rem.ID, &rem.CreatedAt)
}

// ListDue returns unsent reminders scheduled at or before the cutoff.
func (r *ReminderRepo) ListDue(ctx context.Context, before time.Time, limit int) ([]domain.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, mother_id, title, message, category, scheduled_time, sent, created_at
		FROM reminders
		WHERE sent = false AND scheduled_time <= $1
		ORDER BY scheduled_time
		LIMIT $2
	`, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

// MarkSent flags a reminder as dispatched.
func (r *ReminderRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET sent = true, updated_at = now() WHERE id = $1`, id)
	return err
}

// ListByMother returns a mother's reminders, soonest first.
func (r *ReminderRepo) ListByMother(ctx context.Context, motherID string) ([]domain.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, mother_id, title, message, category, scheduled_time, sent, created_at
		FROM reminders WHERE mother_id = $1 ORDER BY scheduled_time
	`, motherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReminders(rows)
}

func scanReminders(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.Reminder, error) {
	var reminders []domain.Reminder
	for rows.Next() {
		var rem domain.Reminder
		if err := rows.Scan(
			&rem.ID, &rem.MotherID, &rem.Title, &rem.Message, &rem.Category,
			&rem.ScheduledTime, &rem.Sent, &rem.CreatedAt,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}
