package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
)

// Booking failures surfaced to callers. Everything else is wrapped.
var (
	ErrInvalidPhone      = errors.New("phone number must be longer than 10 digits")
	ErrPaymentRequired   = errors.New("payment has not been confirmed for this worker")
	ErrBookingTimeInPast = errors.New("scheduled time must be in the future")
	ErrWorkerFullyBooked = errors.New("worker has reached the daily visit limit")
)

const sessionTTLSeconds = 900

// BookingService drives the payment-then-book flow. A payment session is
// scoped to one (mother, worker) booking draft; confirming payment for one
// worker never unlocks booking with another.
type BookingService struct {
	appointments ports.AppointmentRepository
	workers      ports.HealthWorkerRepository
	payments     ports.PaymentGateway
	events       ports.EventPublisher
	sessions     ports.CacheService

	now func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	appointments ports.AppointmentRepository,
	workers ports.HealthWorkerRepository,
	payments ports.PaymentGateway,
	events ports.EventPublisher,
	sessions ports.CacheService,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		workers:      workers,
		payments:     payments,
		events:       events,
		sessions:     sessions,
		now:          time.Now,
	}
}

func sessionKey(motherID string) string {
	return "payment:session:" + motherID
}

// Session returns the mother's current payment session, or a zero NoBooking
// session when none is stored.
func (s *BookingService) Session(ctx context.Context, motherID string) domain.PaymentSession {
	if s.sessions == nil {
		return domain.PaymentSession{State: domain.PaymentNoBooking}
	}
	data, err := s.sessions.Get(ctx, sessionKey(motherID))
	if err != nil {
		return domain.PaymentSession{State: domain.PaymentNoBooking}
	}
	var sess domain.PaymentSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return domain.PaymentSession{State: domain.PaymentNoBooking}
	}
	return sess
}

func (s *BookingService) storeSession(ctx context.Context, motherID string, sess domain.PaymentSession) {
	if s.sessions == nil {
		return
	}
	if data, err := json.Marshal(sess); err == nil {
		_ = s.sessions.Set(ctx, sessionKey(motherID), data, sessionTTLSeconds)
	}
}

// PromptPayment validates the phone number, opens an awaiting-payment session
// for the worker, and triggers the mobile-money prompt. On confirmation the
// session moves to confirmed with the gateway reference; on failure the
// awaiting session is kept so the prompt can be retried.
func (s *BookingService) PromptPayment(ctx context.Context, motherID, workerID, phoneNumber string, t domain.AppointmentType) (domain.PaymentSession, error) {
	if len(phoneNumber) <= 10 {
		return domain.PaymentSession{State: domain.PaymentNoBooking}, ErrInvalidPhone
	}

	sess := domain.PaymentSession{State: domain.PaymentAwaiting, WorkerID: workerID, Type: t}
	s.storeSession(ctx, motherID, sess)

	ref, err := s.payments.PromptPayment(ctx, phoneNumber, domain.FeeFor(t))
	if err != nil {
		return sess, fmt.Errorf("payment prompt: %w", err)
	}

	sess = domain.PaymentSession{State: domain.PaymentConfirmed, WorkerID: workerID, Type: t, Reference: ref}
	s.storeSession(ctx, motherID, sess)
	return sess, nil
}

// Book creates an appointment once payment for this exact worker is
// confirmed and the scheduled time is strictly in the future. The time check
// runs before any repository call. The consumed session is cleared on
// success.
func (s *BookingService) Book(ctx context.Context, motherID, workerID string, t domain.AppointmentType, scheduledTime time.Time, durationMinutes int, notes string) (*domain.Appointment, error) {
	sess := s.Session(ctx, motherID)
	if !sess.CanBook(workerID) {
		return nil, ErrPaymentRequired
	}
	if !scheduledTime.After(s.now()) {
		return nil, ErrBookingTimeInPast
	}
	if durationMinutes <= 0 {
		durationMinutes = 30
	}

	if t == domain.AppointmentVisitation {
		if err := s.checkDailyLimit(ctx, workerID, scheduledTime); err != nil {
			return nil, err
		}
	}

	appt := &domain.Appointment{
		MotherID:         motherID,
		HealthWorkerID:   workerID,
		Type:             t,
		Status:           "scheduled",
		ScheduledTime:    scheduledTime,
		DurationMinutes:  durationMinutes,
		PaymentStatus:    "paid",
		PaymentAmount:    domain.FeeFor(t),
		PaymentReference: sess.Reference,
		Notes:            notes,
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	if s.sessions != nil {
		_ = s.sessions.Delete(ctx, sessionKey(motherID))
	}

	if s.events != nil {
		if err := s.events.PublishAppointmentBooked(ctx, appt); err != nil {
			slog.Warn("appointment event publish failed", "appointment_id", appt.ID, "error", err)
		}
	}

	return appt, nil
}

func (s *BookingService) checkDailyLimit(ctx context.Context, workerID string, day time.Time) error {
	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		return fmt.Errorf("get worker: %w", err)
	}
	if worker.MaxDailyVisits <= 0 {
		return nil
	}
	count, err := s.appointments.CountForWorkerOn(ctx, workerID, day)
	if err != nil {
		return fmt.Errorf("count visits: %w", err)
	}
	if count >= worker.MaxDailyVisits {
		return ErrWorkerFullyBooked
	}
	return nil
}

// ListByMother returns the mother's appointments, newest first.
func (s *BookingService) ListByMother(ctx context.Context, motherID string) ([]domain.Appointment, error) {
	return s.appointments.ListByMother(ctx, motherID)
}

// Cancel marks an appointment cancelled.
func (s *BookingService) Cancel(ctx context.Context, id string) error {
	return s.appointments.UpdateStatus(ctx, id, "cancelled")
}
