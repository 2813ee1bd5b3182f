package usecases_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/usecases"
)

// --- Mocks ---

type mockApptRepo struct {
	createFn  func(ctx context.Context, appt *domain.Appointment) error
	countFn   func(ctx context.Context, workerID string, day time.Time) (int, error)
	listFn    func(ctx context.Context, motherID string) ([]domain.Appointment, error)
	updatedTo string
}

func (m *mockApptRepo) Create(ctx context.Context, appt *domain.Appointment) error {
	if m.createFn != nil {
		return m.createFn(ctx, appt)
	}
	appt.ID = "appt-1"
	return nil
}
func (m *mockApptRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	return &domain.Appointment{ID: id}, nil
}
func (m *mockApptRepo) ListByMother(ctx context.Context, motherID string) ([]domain.Appointment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, motherID)
	}
	return nil, nil
}
func (m *mockApptRepo) UpdateStatus(ctx context.Context, id, status string) error {
	m.updatedTo = status
	return nil
}
func (m *mockApptRepo) CountForWorkerOn(ctx context.Context, workerID string, day time.Time) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, workerID, day)
	}
	return 0, nil
}

type mockGateway struct {
	promptFn func(ctx context.Context, phone string, amount int) (string, error)
}

func (m *mockGateway) PromptPayment(ctx context.Context, phone string, amount int) (string, error) {
	if m.promptFn != nil {
		return m.promptFn(ctx, phone, amount)
	}
	return "KH-abc123", nil
}

// memCache is an in-process ports.CacheService for session tests.
type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.m[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}
func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}
func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func newBookingService(appts *mockApptRepo, gateway *mockGateway) *usecases.BookingService {
	workers := &mockWorkerRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.HealthWorker, error) {
			return &domain.HealthWorker{ID: id, MaxDailyVisits: 5}, nil
		},
	}
	return usecases.NewBookingService(appts, workers, gateway, nil, newMemCache())
}

// --- Tests ---

func TestBookingService_PromptPayment_RejectsShortPhone(t *testing.T) {
	svc := newBookingService(&mockApptRepo{}, &mockGateway{})

	_, err := svc.PromptPayment(context.Background(), "m1", "w1", "0712345678", domain.AppointmentVisitation)
	if !errors.Is(err, usecases.ErrInvalidPhone) {
		t.Errorf("expected ErrInvalidPhone, got %v", err)
	}
}

func TestBookingService_PromptPayment_ConfirmsWithReference(t *testing.T) {
	var promptedAmount int
	gateway := &mockGateway{promptFn: func(ctx context.Context, phone string, amount int) (string, error) {
		promptedAmount = amount
		return "KH-deadbeef", nil
	}}
	svc := newBookingService(&mockApptRepo{}, gateway)

	sess, err := svc.PromptPayment(context.Background(), "m1", "w1", "+254712345678", domain.AppointmentVideoCall)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.State != domain.PaymentConfirmed || sess.Reference != "KH-deadbeef" {
		t.Errorf("unexpected session %+v", sess)
	}
	if promptedAmount != 1000 {
		t.Errorf("video call fee should be 1000, prompted %d", promptedAmount)
	}
	if !sess.CanBook("w1") {
		t.Error("confirmed session should allow booking with its worker")
	}
	if sess.CanBook("w2") {
		t.Error("confirmed session must not allow booking with a different worker")
	}
}

func TestBookingService_Book_RequiresPayment(t *testing.T) {
	svc := newBookingService(&mockApptRepo{}, &mockGateway{})

	_, err := svc.Book(context.Background(), "m1", "w1", domain.AppointmentVisitation,
		time.Now().Add(time.Hour), 30, "")
	if !errors.Is(err, usecases.ErrPaymentRequired) {
		t.Errorf("expected ErrPaymentRequired, got %v", err)
	}
}

func TestBookingService_Book_PaymentScopedToWorker(t *testing.T) {
	svc := newBookingService(&mockApptRepo{}, &mockGateway{})
	ctx := context.Background()

	if _, err := svc.PromptPayment(ctx, "m1", "w1", "+254712345678", domain.AppointmentVisitation); err != nil {
		t.Fatalf("prompt: %v", err)
	}

	// Paying for w1 must not unlock booking with w2.
	_, err := svc.Book(ctx, "m1", "w2", domain.AppointmentVisitation, time.Now().Add(time.Hour), 30, "")
	if !errors.Is(err, usecases.ErrPaymentRequired) {
		t.Errorf("expected ErrPaymentRequired for a different worker, got %v", err)
	}
}

func TestBookingService_Book_RejectsPastTimeBeforeRepoCall(t *testing.T) {
	repoCalled := false
	appts := &mockApptRepo{createFn: func(ctx context.Context, appt *domain.Appointment) error {
		repoCalled = true
		return nil
	}}
	svc := newBookingService(appts, &mockGateway{})
	ctx := context.Background()

	if _, err := svc.PromptPayment(ctx, "m1", "w1", "+254712345678", domain.AppointmentVisitation); err != nil {
		t.Fatalf("prompt: %v", err)
	}

	_, err := svc.Book(ctx, "m1", "w1", domain.AppointmentVisitation, time.Now().Add(-time.Minute), 30, "")
	if !errors.Is(err, usecases.ErrBookingTimeInPast) {
		t.Errorf("expected ErrBookingTimeInPast, got %v", err)
	}
	if repoCalled {
		t.Error("past-time booking must be rejected before any repository call")
	}
}

func TestBookingService_Book_Success(t *testing.T) {
	var created *domain.Appointment
	appts := &mockApptRepo{createFn: func(ctx context.Context, appt *domain.Appointment) error {
		appt.ID = "appt-9"
		created = appt
		return nil
	}}
	svc := newBookingService(appts, &mockGateway{})
	ctx := context.Background()

	if _, err := svc.PromptPayment(ctx, "m1", "w1", "+254712345678", domain.AppointmentVisitation); err != nil {
		t.Fatalf("prompt: %v", err)
	}

	when := time.Now().Add(48 * time.Hour)
	appt, err := svc.Book(ctx, "m1", "w1", domain.AppointmentVisitation, when, 45, "postnatal check")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appt.ID != "appt-9" {
		t.Errorf("expected persisted id, got %q", appt.ID)
	}
	if created.PaymentStatus != "paid" || created.PaymentAmount != 1500 {
		t.Errorf("unexpected payment fields: %s/%d", created.PaymentStatus, created.PaymentAmount)
	}
	if created.PaymentReference == "" {
		t.Error("payment reference missing on appointment")
	}

	// The consumed session no longer authorises another booking.
	_, err = svc.Book(ctx, "m1", "w1", domain.AppointmentVisitation, when, 45, "")
	if !errors.Is(err, usecases.ErrPaymentRequired) {
		t.Errorf("expected session to be consumed, got %v", err)
	}
}

func TestBookingService_Book_DailyVisitLimit(t *testing.T) {
	appts := &mockApptRepo{countFn: func(ctx context.Context, workerID string, day time.Time) (int, error) {
		return 5, nil
	}}
	svc := newBookingService(appts, &mockGateway{})
	ctx := context.Background()

	if _, err := svc.PromptPayment(ctx, "m1", "w1", "+254712345678", domain.AppointmentVisitation); err != nil {
		t.Fatalf("prompt: %v", err)
	}

	_, err := svc.Book(ctx, "m1", "w1", domain.AppointmentVisitation, time.Now().Add(time.Hour), 30, "")
	if !errors.Is(err, usecases.ErrWorkerFullyBooked) {
		t.Errorf("expected ErrWorkerFullyBooked, got %v", err)
	}
}

func TestBookingService_Cancel(t *testing.T) {
	appts := &mockApptRepo{}
	svc := newBookingService(appts, &mockGateway{})

	if err := svc.Cancel(context.Background(), "appt-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appts.updatedTo != "cancelled" {
		t.Errorf("expected status cancelled, got %q", appts.updatedTo)
	}
}
