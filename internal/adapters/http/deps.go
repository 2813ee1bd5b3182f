package http

import (
	"github.com/nats-io/nats.go"

	"github.com/kanahhealth/kanah/internal/adapters/postgres"
	"github.com/kanahhealth/kanah/internal/adapters/valkey"
	"github.com/kanahhealth/kanah/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	// RequireAuth enforces bearer-token presence on /v1 routes. Identity
	// and policy live at the gateway in front of this service.
	RequireAuth bool

	Directory *usecases.DirectoryService
	Bookings  *usecases.BookingService
	Tips      *usecases.TipService
	Triage    *usecases.TriageService
	Reminders *usecases.ReminderService
	Mothers   *usecases.MotherService
	Places    *usecases.PlaceResolver
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache
}
