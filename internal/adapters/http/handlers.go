package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kanahhealth/kanah/internal/core/domain"
	"github.com/kanahhealth/kanah/internal/core/usecases"
	"github.com/kanahhealth/kanah/internal/pkg/metrics"
)

// DirectoryStats holds row counts from the care tables.
type DirectoryStats struct {
	Mothers       int    `json:"mothers"`
	HealthWorkers int    `json:"health_workers"`
	Appointments  int    `json:"appointments"`
	HealthTips    int    `json:"health_tips"`
	LastSignup    string `json:"last_signup,omitempty"`
}

// DirectoryStatsHandler returns row counts from the care tables.
func DirectoryStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.DB == nil {
			return errInternal(c, "database not available")
		}

		var stats DirectoryStats
		row := deps.DB.Pool.QueryRow(c.Context(), `
			SELECT
				(SELECT count(*) FROM mothers),
				(SELECT count(*) FROM health_workers),
				(SELECT count(*) FROM appointments),
				(SELECT count(*) FROM health_tips),
				COALESCE((SELECT max(created_at)::text FROM health_workers), '')
		`)
		if err := row.Scan(&stats.Mothers, &stats.HealthWorkers, &stats.Appointments,
			&stats.HealthTips, &stats.LastSignup); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// seekerFromQuery parses optional lat/lon query params into a GeoPoint.
// Both must be present for the seeker to count as located.
func seekerFromQuery(c *fiber.Ctx) *domain.GeoPoint {
	lat := c.Query("lat")
	lon := c.Query("lon")
	if lat == "" || lon == "" {
		return nil
	}
	return &domain.GeoPoint{
		Lat: c.QueryFloat("lat", 0),
		Lon: c.QueryFloat("lon", 0),
	}
}

// RankedWorkersHandler returns workers eligible for an appointment type,
// ordered by distance from the seeker. Without lat/lon the listing keeps the
// stable retrieval order and omits distances.
func RankedWorkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apptType := domain.AppointmentType(c.Query("type", string(domain.AppointmentVisitation)))
		seeker := seekerFromQuery(c)

		ranked, err := deps.Directory.ListRanked(c.Context(), apptType, seeker)
		if err != nil {
			return errInternal(c, err.Error())
		}
		metrics.RankingsComputed.WithLabelValues(string(apptType)).Inc()

		// Apply offset/limit pagination on the full ranking
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		total := len(ranked)
		if offset >= total {
			ranked = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			ranked = ranked[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: ranked, Pagination: pg})
	}
}

// NearbyWorkersHandler returns workers within a radius of a point.
func NearbyWorkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius_km", 10)
		limit := c.QueryInt("limit", 20)

		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		if radius <= 0 || radius > 100 {
			return errBadRequest(c, "radius_km must be between 1 and 100")
		}

		workers, err := deps.Directory.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=120")
		return c.JSON(workers)
	}
}

// GetWorkerHandler returns a single health worker by ID.
func GetWorkerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "worker id is required")
		}
		worker, err := deps.Directory.GetWorker(c.Context(), id)
		if err != nil {
			return errNotFound(c, "health worker not found")
		}
		return c.JSON(worker)
	}
}

// ReverseGeocodeHandler resolves a coordinate to a place label, blocking
// until the lookup completes or the request is cancelled.
func ReverseGeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		p := domain.GeoPoint{
			Lat: c.QueryFloat("lat", 0),
			Lon: c.QueryFloat("lon", 0),
		}

		name := deps.Places.Resolve(c.Context(), p)
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{
			"lat":        p.Lat,
			"lon":        p.Lon,
			"place_name": name,
		})
	}
}

// GetMotherHandler returns a mother's profile.
func GetMotherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "mother id is required")
		}
		mother, err := deps.Mothers.Get(c.Context(), id)
		if err != nil {
			return errNotFound(c, "mother not found")
		}
		return c.JSON(mother)
	}
}

// UpdateMotherLocationHandler stores the mother's latest coordinate.
func UpdateMotherLocationHandler(deps *Dependencies) fiber.Handler {
	type locationRequest struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}

	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "mother id is required")
		}
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Mothers.UpdateLocation(c.Context(), id, domain.GeoPoint{Lat: req.Lat, Lon: req.Lon}); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(fiber.Map{"status": "updated"})
	}
}

// MotherTipsHandler returns the tips feed for a mother.
func MotherTipsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "mother id is required")
		}
		tips, err := deps.Tips.ListForMother(c.Context(), id)
		if err != nil {
			return errNotFound(c, err.Error())
		}
		c.Set("Cache-Control", "private, max-age=600")
		return c.JSON(tips)
	}
}

// LegacyTipsHandler serves the old flat tips route. Deprecated in favour of
// /v1/mothers/:id/tips.
func LegacyTipsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		motherID := c.Query("mother_id")
		if motherID == "" {
			return errBadRequest(c, "mother_id query parameter is required")
		}
		tips, err := deps.Tips.ListForMother(c.Context(), motherID)
		if err != nil {
			return errNotFound(c, err.Error())
		}
		return c.JSON(tips)
	}
}

// PromptPaymentHandler triggers the mobile-money prompt for a booking draft.
func PromptPaymentHandler(deps *Dependencies) fiber.Handler {
	type promptRequest struct {
		MotherID    string `json:"mother_id"`
		WorkerID    string `json:"worker_id"`
		PhoneNumber string `json:"phone_number"`
		Type        string `json:"appointment_type"`
	}

	return func(c *fiber.Ctx) error {
		var req promptRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.MotherID == "" || req.WorkerID == "" {
			return errBadRequest(c, "mother_id and worker_id are required")
		}

		sess, err := deps.Bookings.PromptPayment(c.Context(), req.MotherID, req.WorkerID,
			req.PhoneNumber, domain.AppointmentType(req.Type))
		if err != nil {
			metrics.PaymentPrompts.WithLabelValues("failed").Inc()
			if errors.Is(err, usecases.ErrInvalidPhone) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		metrics.PaymentPrompts.WithLabelValues("confirmed").Inc()
		return c.JSON(sess)
	}
}

// PaymentSessionHandler returns the mother's current payment session.
func PaymentSessionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "mother id is required")
		}
		return c.JSON(deps.Bookings.Session(c.Context(), id))
	}
}

// CreateAppointmentHandler books an appointment against a confirmed payment
// session.
func CreateAppointmentHandler(deps *Dependencies) fiber.Handler {
	type bookRequest struct {
		MotherID        string    `json:"mother_id"`
		WorkerID        string    `json:"worker_id"`
		Type            string    `json:"appointment_type"`
		ScheduledTime   time.Time `json:"scheduled_time"`
		DurationMinutes int       `json:"scheduled_duration_minutes"`
		Notes           string    `json:"notes"`
	}

	return func(c *fiber.Ctx) error {
		var req bookRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.MotherID == "" || req.WorkerID == "" {
			return errBadRequest(c, "mother_id and worker_id are required")
		}

		appt, err := deps.Bookings.Book(c.Context(), req.MotherID, req.WorkerID,
			domain.AppointmentType(req.Type), req.ScheduledTime, req.DurationMinutes, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, usecases.ErrPaymentRequired):
				return errPaymentRequired(c, err.Error())
			case errors.Is(err, usecases.ErrBookingTimeInPast):
				return errBadRequest(c, err.Error())
			case errors.Is(err, usecases.ErrWorkerFullyBooked):
				return errConflict(c, err.Error())
			default:
				return errInternal(c, err.Error())
			}
		}

		metrics.AppointmentsCreated.WithLabelValues(string(appt.Type)).Inc()
		return c.Status(201).JSON(appt)
	}
}

// MotherAppointmentsHandler lists a mother's appointments.
func MotherAppointmentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "mother id is required")
		}
		appts, err := deps.Bookings.ListByMother(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(appts)
	}
}

// CancelAppointmentHandler marks an appointment cancelled.
func CancelAppointmentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "appointment id is required")
		}
		if err := deps.Bookings.Cancel(c.Context(), id); err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"status": "cancelled"})
	}
}

// SymptomCheckHandler classifies and records a symptom report. The response
// carries the follow-up question the assistant asks for that subject.
func SymptomCheckHandler(deps *Dependencies) fiber.Handler {
	type checkRequest struct {
		MotherID    string `json:"mother_id"`
		Subject     string `json:"subject"`
		Description string `json:"symptom_description"`
	}

	return func(c *fiber.Ctx) error {
		var req checkRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.MotherID == "" {
			return errBadRequest(c, "mother_id is required")
		}

		check, err := deps.Triage.Check(c.Context(), req.MotherID, req.Subject, req.Description)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		metrics.SymptomChecks.WithLabelValues(check.SeverityLevel).Inc()
		return c.Status(201).JSON(fiber.Map{
			"check":     check,
			"follow_up": usecases.FollowUpPrompt(check.Subject),
		})
	}
}

// SymptomHistoryHandler returns a mother's previous symptom checks.
func SymptomHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "mother id is required")
		}
		checks, err := deps.Triage.History(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(checks)
	}
}

// ScheduleReminderHandler stores a reminder for later dispatch.
func ScheduleReminderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reminder domain.Reminder
		if err := c.BodyParser(&reminder); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Reminders.Schedule(c.Context(), &reminder); err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(reminder)
	}
}

// MotherRemindersHandler lists a mother's reminders.
func MotherRemindersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "mother id is required")
		}
		reminders, err := deps.Reminders.ListByMother(c.Context(), id)
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(reminders)
	}
}
