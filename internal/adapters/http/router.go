package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/kanahhealth/kanah/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Flat tips route is kept for old app builds until the sunset date
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/tips",
			SunsetDate:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/mothers/:id/tips",
		},
	}))

	// Bearer presence check, enabled via server.require_auth
	if deps.RequireAuth {
		app.Use(AuthMiddleware())
	}

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/workers/ranked", timeout.NewWithContext(RankedWorkersHandler(deps), 15*time.Second))
	v1.Get("/workers/nearby", timeout.NewWithContext(NearbyWorkersHandler(deps), 15*time.Second))
	v1.Get("/workers/:id", timeout.NewWithContext(GetWorkerHandler(deps), 15*time.Second))

	v1.Get("/mothers/:id", timeout.NewWithContext(GetMotherHandler(deps), 15*time.Second))
	v1.Put("/mothers/:id/location", timeout.NewWithContext(UpdateMotherLocationHandler(deps), 15*time.Second))
	v1.Get("/mothers/:id/tips", timeout.NewWithContext(MotherTipsHandler(deps), 15*time.Second))
	v1.Get("/mothers/:id/payment-session", timeout.NewWithContext(PaymentSessionHandler(deps), 15*time.Second))
	v1.Get("/mothers/:id/appointments", timeout.NewWithContext(MotherAppointmentsHandler(deps), 15*time.Second))
	v1.Get("/mothers/:id/symptom-checks", timeout.NewWithContext(SymptomHistoryHandler(deps), 15*time.Second))
	v1.Get("/mothers/:id/reminders", timeout.NewWithContext(MotherRemindersHandler(deps), 15*time.Second))

	// Payment prompts block on the gateway; give them a longer budget
	v1.Post("/payments/prompt", timeout.NewWithContext(PromptPaymentHandler(deps), 60*time.Second))

	v1.Post("/appointments", timeout.NewWithContext(CreateAppointmentHandler(deps), 15*time.Second))
	v1.Delete("/appointments/:id", timeout.NewWithContext(CancelAppointmentHandler(deps), 15*time.Second))

	v1.Post("/symptom-checks", timeout.NewWithContext(SymptomCheckHandler(deps), 15*time.Second))
	v1.Post("/reminders", timeout.NewWithContext(ScheduleReminderHandler(deps), 15*time.Second))

	v1.Get("/geocode/reverse", timeout.NewWithContext(ReverseGeocodeHandler(deps), 15*time.Second))
	v1.Get("/directory/status", timeout.NewWithContext(DirectoryStatsHandler(deps), 15*time.Second))

	// Deprecated flat tips route
	v1.Get("/tips", timeout.NewWithContext(LegacyTipsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
