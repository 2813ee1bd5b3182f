package domain

import (
	"time"
)

// WorkerType classifies a health worker.
type WorkerType string

const (
	WorkerCommunityHealthWorker WorkerType = "community_health_worker"
	WorkerDoctor                WorkerType = "doctor"
	WorkerNurse                 WorkerType = "nurse"
	WorkerMidwife               WorkerType = "midwife"
)

// Display returns the human-readable label for a worker type.
func (w WorkerType) Display() string {
	switch w {
	case WorkerDoctor:
		return "Doctor"
	case WorkerNurse:
		return "Nurse"
	case WorkerCommunityHealthWorker:
		return "Community Health Worker"
	case WorkerMidwife:
		return "Midwife"
	default:
		return string(w)
	}
}

// AppointmentType is the requested service mode.
type AppointmentType string

const (
	AppointmentVisitation AppointmentType = "visitation"
	AppointmentVideoCall  AppointmentType = "video_call"
)

// FeeFor returns the flat consultation fee in KES for an appointment type.
func FeeFor(t AppointmentType) int {
	switch t {
	case AppointmentVideoCall:
		return 1000
	default:
		return 1500
	}
}

// Mother is a registered care seeker.
type Mother struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	FullName           string     `json:"full_name"`
	PhoneNumber        string     `json:"phone_number"`
	BirthType          string     `json:"birth_type"` // vaginal | c_section
	SubscriptionStatus string     `json:"subscription_status"` // free | premium
	LanguagePreference string     `json:"language_preference"`
	Location           *GeoPoint  `json:"location,omitempty"`
	BabyBirthDate      *time.Time `json:"baby_birth_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// DaysPostpartum returns whole days since the baby's birth date, or -1 when
// no birth date is recorded.
func (m *Mother) DaysPostpartum(now time.Time) int {
	if m.BabyBirthDate == nil {
		return -1
	}
	d := int(now.Sub(*m.BabyBirthDate).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// HealthWorker is a bookable care provider. Location may be absent when the
// worker has never shared one.
type HealthWorker struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	FullName           string     `json:"full_name"`
	WorkerType         WorkerType `json:"worker_type"`
	AvailableForVisits bool       `json:"available_for_visits"`
	AvailableForCalls  bool       `json:"available_for_calls"`
	Location           *GeoPoint  `json:"location,omitempty"`
	Rating             float64    `json:"rating"`
	ReviewCount        int        `json:"review_count"`
	MaxDailyVisits     int        `json:"max_daily_visits"`
	CreatedAt          time.Time  `json:"created_at"`
}

// RankedWorker is a health worker decorated with proximity data. DistanceKm
// is nil when either the seeker or the worker has no known location; such
// entries always sort after every worker with a known distance.
type RankedWorker struct {
	Worker     HealthWorker `json:"worker"`
	DistanceKm *float64     `json:"distance_km,omitempty"`
	Rank       int          `json:"rank"`
	PlaceName  string       `json:"place_name"`
}

// Appointment is a booked consultation.
type Appointment struct {
	ID               string          `json:"id"`
	MotherID         string          `json:"mother_id"`
	HealthWorkerID   string          `json:"health_worker_id"`
	Type             AppointmentType `json:"appointment_type"`
	Status           string          `json:"status"` // scheduled | completed | cancelled
	ScheduledTime    time.Time       `json:"scheduled_time"`
	DurationMinutes  int             `json:"scheduled_duration_minutes"`
	PaymentStatus    string          `json:"payment_status"` // pending | paid | refunded
	PaymentAmount    int             `json:"payment_amount"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// HealthTip is a piece of postnatal guidance shown on the tips feed.
type HealthTip struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	ContentType       string    `json:"content_type"`
	VideoURL          string    `json:"video_url,omitempty"`
	Category          string    `json:"category"`
	BirthType         string    `json:"applicable_birth_type"` // all | vaginal | c_section
	DaysPostpartumMin int       `json:"applicable_days_postpartum_min"`
	DaysPostpartumMax int       `json:"applicable_days_postpartum_max"`
	Language          string    `json:"language"`
	PremiumContent    bool      `json:"premium_content"`
	CreatedAt         time.Time `json:"created_at"`
}

// Reminder is a postpartum-day-scheduled nudge sent to a mother.
type Reminder struct {
	ID            string    `json:"id"`
	MotherID      string    `json:"mother_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Category      string    `json:"category"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Sent          bool      `json:"sent"`
	CreatedAt     time.Time `json:"created_at"`
}

// SymptomCheck records a triage interaction and its outcome.
type SymptomCheck struct {
	ID             string    `json:"id"`
	MotherID       string    `json:"mother_id"`
	Subject        string    `json:"subject"`
	Description    string    `json:"symptom_description"`
	SeverityLevel  string    `json:"severity_level"` // mild | moderate | severe
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}
