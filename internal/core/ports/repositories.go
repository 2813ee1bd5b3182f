package ports

import (
	"context"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
)

// MotherRepository persists care seekers.
type MotherRepository interface {
	Create(ctx context.Context, mother *domain.Mother) error
	GetByID(ctx context.Context, id string) (*domain.Mother, error)
	UpdateLocation(ctx context.Context, id string, loc domain.GeoPoint) error
}

// HealthWorkerRepository persists bookable providers.
type HealthWorkerRepository interface {
	Upsert(ctx context.Context, worker *domain.HealthWorker) error
	GetByID(ctx context.Context, id string) (*domain.HealthWorker, error)
	// ListAvailable returns workers of the given type with the availability
	// flag for the given mode set, in stable creation order. An empty
	// workerType returns every worker regardless of availability.
	ListAvailable(ctx context.Context, workerType domain.WorkerType, mode domain.AppointmentType) ([]domain.HealthWorker, error)
	FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.HealthWorker, error)
}

// AppointmentRepository persists bookings.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	ListByMother(ctx context.Context, motherID string) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id, status string) error
	CountForWorkerOn(ctx context.Context, workerID string, day time.Time) (int, error)
}

// HealthTipRepository persists tip content.
type HealthTipRepository interface {
	// ListApplicable filters by birth type ("all" rows always match), the
	// postpartum-day window, language, and premium entitlement.
	ListApplicable(ctx context.Context, birthType string, daysPostpartum int, language string, includePremium bool) ([]domain.HealthTip, error)
}

// ReminderRepository persists scheduled reminders.
type ReminderRepository interface {
	Create(ctx context.Context, reminder *domain.Reminder) error
	ListDue(ctx context.Context, before time.Time, limit int) ([]domain.Reminder, error)
	MarkSent(ctx context.Context, id string) error
	ListByMother(ctx context.Context, motherID string) ([]domain.Reminder, error)
}

// SymptomCheckRepository persists triage records.
type SymptomCheckRepository interface {
	Create(ctx context.Context, check *domain.SymptomCheck) error
	ListByMother(ctx context.Context, motherID string) ([]domain.SymptomCheck, error)
}
