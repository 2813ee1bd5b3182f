package domain

// PaymentState enumerates the stages of a booking-payment session.
type PaymentState string

const (
	PaymentNoBooking PaymentState = "no_booking"
	PaymentAwaiting  PaymentState = "awaiting_payment"
	PaymentConfirmed PaymentState = "payment_confirmed"
)

// PaymentSession tracks payment confirmation for one booking draft. The
// confirmation is scoped to the worker the prompt was issued for; a confirmed
// payment never unlocks booking with a different worker.
type PaymentSession struct {
	State     PaymentState    `json:"state"`
	WorkerID  string          `json:"worker_id,omitempty"`
	Type      AppointmentType `json:"appointment_type,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// CanBook reports whether the session authorises booking with the given
// worker.
func (s PaymentSession) CanBook(workerID string) bool {
	return s.State == PaymentConfirmed && s.WorkerID == workerID
}
