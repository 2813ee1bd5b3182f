package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/ports"
	"github.com/kanahhealth/kanah/internal/core/usecases"
)

// BookingActivities holds the activity implementations for the booking saga.
// The BookingService used here carries no event publisher: notification is a
// separate saga step so it can be compensated on its own.
type BookingActivities struct {
	Bookings     *usecases.BookingService
	Appointments ports.AppointmentRepository
	Events       ports.EventPublisher
}

// PromptPayment pushes the mobile-money prompt and returns the payment
// reference once the seeker confirms.
func (a *BookingActivities) PromptPayment(ctx context.Context, input BookingInput) (string, error) {
	sess, err := a.Bookings.PromptPayment(ctx, input.MotherID, input.WorkerID, input.PhoneNumber, domain.AppointmentType(input.AppointmentType))
	if err != nil {
		return "", fmt.Errorf("prompt payment: %w", err)
	}
	return sess.Reference, nil
}

// CreateAppointment books the appointment against the confirmed session and
// returns its ID.
func (a *BookingActivities) CreateAppointment(ctx context.Context, input BookingInput) (string, error) {
	appt, err := a.Bookings.Book(ctx, input.MotherID, input.WorkerID,
		domain.AppointmentType(input.AppointmentType),
		input.ScheduledTime, input.DurationMinutes, input.Notes)
	if err != nil {
		return "", fmt.Errorf("book appointment: %w", err)
	}
	return appt.ID, nil
}

// NotifyBooked publishes the booked event to the worker's subject.
func (a *BookingActivities) NotifyBooked(ctx context.Context, appointmentID string) error {
	appt, err := a.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("get appointment %s: %w", appointmentID, err)
	}
	if a.Events == nil {
		slog.Info("NOTIFY (no publisher)", "appointment_id", appointmentID)
		return nil
	}
	return a.Events.PublishAppointmentBooked(ctx, appt)
}

// CancelAppointment marks the appointment cancelled (saga compensation).
func (a *BookingActivities) CancelAppointment(ctx context.Context, appointmentID string) error {
	if err := a.Bookings.Cancel(ctx, appointmentID); err != nil {
		return fmt.Errorf("cancel appointment %s: %w", appointmentID, err)
	}
	slog.Info("appointment cancelled", "appointment_id", appointmentID)
	return nil
}

// RefundPayment reverses a confirmed payment. The stub gateway has no refund
// API, so the reversal is recorded for the finance follow-up queue.
func (a *BookingActivities) RefundPayment(ctx context.Context, reference string) error {
	slog.Info("payment refund recorded", "reference", reference)
	return nil
}
