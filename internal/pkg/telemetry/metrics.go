package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricGeocodeLatency = "geocode.lookup_latency"
	MetricDirectoryAge   = "directory.cache_age_seconds"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricAppointments = "business.appointments_booked"
	MetricReminders    = "business.reminders_dispatched"
)
