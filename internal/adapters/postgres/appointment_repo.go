package postgres

import (
	"context"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
)

// AppointmentRepo implements ports.AppointmentRepository with pgx.
type AppointmentRepo struct {
	db *DB
}

// NewAppointmentRepo creates a new AppointmentRepo.
func NewAppointmentRepo(db *DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

const appointmentColumns = `
	id, mother_id, health_worker_id, appointment_type, status, scheduled_time,
	scheduled_duration_minutes, payment_status, payment_amount,
	COALESCE(payment_reference, ''), COALESCE(notes, ''), created_at`

// Create inserts an appointment and fills in the generated ID.
func (r *AppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO appointments
			(mother_id, health_worker_id, appointment_type, status, scheduled_time,
			 scheduled_duration_minutes, payment_status, payment_amount, payment_reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, a.MotherID, a.HealthWorkerID, a.Type, a.Status, a.ScheduledTime,
		a.DurationMinutes, a.PaymentStatus, a.PaymentAmount, a.PaymentReference, a.Notes,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetByID returns an appointment by UUID.
func (r *AppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.Pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id,
	).Scan(
		&a.ID, &a.MotherID, &a.HealthWorkerID, &a.Type, &a.Status, &a.ScheduledTime,
		&a.DurationMinutes, &a.PaymentStatus, &a.PaymentAmount,
		&a.PaymentReference, &a.Notes, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByMother returns a mother's appointments, most recent first.
func (r *AppointmentRepo) ListByMother(ctx context.Context, motherID string) ([]domain.Appointment, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments
		 WHERE mother_id = $1 ORDER BY scheduled_time DESC`, motherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(
			&a.ID, &a.MotherID, &a.HealthWorkerID, &a.Type, &a.Status, &a.ScheduledTime,
			&a.DurationMinutes, &a.PaymentStatus, &a.PaymentAmount,
			&a.PaymentReference, &a.Notes, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// UpdateStatus sets the lifecycle status of an appointment.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	return err
}

// CountForWorkerOn counts non-cancelled visitation bookings for a worker on
// the given calendar day.
func (r *AppointmentRepo) CountForWorkerOn(ctx context.Context, workerID string, day time.Time) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM appointments
		WHERE health_worker_id = $1
		  AND appointment_type = 'visitation'
		  AND status != 'cancelled'
		  AND scheduled_time::date = $2::date
	`, workerID, day).Scan(&count)
	return count, err
}
