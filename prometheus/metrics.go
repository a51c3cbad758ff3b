package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"rental-intake/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Application submissions
	ApplicationSubmittedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_applications_submitted_total",
			Help: "Total number of submitted driver applications",
		},
	)

	// Contact inquiries
	LeadCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_leads_total",
			Help: "Total number of contact inquiries received",
		},
	)

	// Notification dispatches by outcome
	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_notifications_total",
			Help: "Total number of notification dispatches",
		},
		[]string{"channel", "status"}, // channel: sms/email, status: sent/failed
	)

	// Admin console operations per entity
	AdminOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_admin_operations_total",
			Help: "Total number of admin console operations",
		},
		[]string{"entity", "operation"},
	)

	// Wizard draft operations
	DraftOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_draft_operations_total",
			Help: "Total number of application draft operations",
		},
		[]string{"operation"}, // create, patch, navigate, submit, discard
	)

	// Address searches by outcome
	AddressSearchCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_address_searches_total",
			Help: "Total number of address autocomplete searches",
		},
		[]string{"status"}, // ok, stale, failed, too_short
	)

	// Upload rejections by reason
	UploadRejectionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_upload_rejections_total",
			Help: "Total number of rejected document uploads",
		},
		[]string{"reason"}, // too_large, bad_type
	)

	// Authentication errors
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Store operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "intake_db_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Gauge metrics
var (
	// Demo-mode indicator: 1 when the local fallback store is active
	DemoModeGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_demo_mode",
			Help: "Whether the local demo persistence fallback is active",
		},
	)

	// Open drafts held in memory
	ActiveDraftsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "intake_active_drafts",
			Help: "Number of application drafts currently in memory",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intake_info",
			Help: "Information about the intake service",
		},
		[]string{"version", "environment"},
	)
)

func init() {
	prometheus.MustRegister(ApplicationSubmittedCounter)
	prometheus.MustRegister(LeadCounter)
	prometheus.MustRegister(NotificationCounter)
	prometheus.MustRegister(AdminOperationCounter)
	prometheus.MustRegister(DraftOperationCounter)
	prometheus.MustRegister(AddressSearchCounter)
	prometheus.MustRegister(UploadRejectionCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(DemoModeGauge)
	prometheus.MustRegister(ActiveDraftsGauge)
	prometheus.MustRegister(InfoGauge)
}

// InitMetrics sets the static service info gauges.
func InitMetrics(cfg *config.Config) {
	InfoGauge.With(prometheus.Labels{"version": "1.0.0", "environment": cfg.Server.Env}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures store operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordAdminOperation records an admin console operation.
func RecordAdminOperation(entity, operation string) {
	AdminOperationCounter.With(prometheus.Labels{"entity": entity, "operation": operation}).Inc()
}

// RecordNotification records a notification dispatch outcome.
func RecordNotification(channel, status string) {
	NotificationCounter.With(prometheus.Labels{"channel": channel, "status": status}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// SetDemoMode flips the demo-mode gauge.
func SetDemoMode(on bool) {
	if on {
		DemoModeGauge.Set(1)
	} else {
		DemoModeGauge.Set(0)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
