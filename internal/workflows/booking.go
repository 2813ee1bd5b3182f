package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// BookingInput is the input for the booking saga.
type BookingInput struct {
	MotherID        string
	WorkerID        string
	PhoneNumber     string
	AppointmentType string
	ScheduledTime   time.Time
	DurationMinutes int
	Notes           string
}

// BookingResult reports what the saga produced.
type BookingResult struct {
	AppointmentID    string
	PaymentReference string
}

// BookingWorkflow orchestrates the paid booking flow: prompt the mobile-money
// payment, create the appointment, then notify the health worker. If the
// appointment cannot be created after payment, the payment is refunded. If
// the notification fails, the appointment is cancelled and the payment
// refunded (saga compensation).
func BookingWorkflow(ctx workflow.Context, input BookingInput) (*BookingResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting booking workflow", "motherID", input.MotherID, "workerID", input.WorkerID)

	actOpts := workflow.ActivityOptions{
		// The payment prompt waits on a human tapping a phone
		StartToCloseTimeout: 90 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Prompt payment
	var reference string
	err := workflow.ExecuteActivity(ctx, "PromptPayment", input).Get(ctx, &reference)
	if err != nil {
		return nil, err
	}

	// Step 2: Create the appointment
	var appointmentID string
	err = workflow.ExecuteActivity(ctx, "CreateAppointment", input).Get(ctx, &appointmentID)
	if err != nil {
		logger.Warn("appointment creation failed, refunding payment", "error", err)
		_ = workflow.ExecuteActivity(ctx, "RefundPayment", reference).Get(ctx, nil)
		return nil, err
	}

	// Step 3: Notify the worker
	err = workflow.ExecuteActivity(ctx, "NotifyBooked", appointmentID).Get(ctx, nil)
	if err != nil {
		logger.Warn("booking notification failed, compensating", "error", err)
		_ = workflow.ExecuteActivity(ctx, "CancelAppointment", appointmentID).Get(ctx, nil)
		_ = workflow.ExecuteActivity(ctx, "RefundPayment", reference).Get(ctx, nil)
		return nil, err
	}

	logger.Info("Booking completed", "appointmentID", appointmentID, "reference", reference)
	return &BookingResult{AppointmentID: appointmentID, PaymentReference: reference}, nil
}
