package metrics

import (
	"encoding/json"
	"net/http"

	"bookingengine/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Domain metrics

	UsersRegisteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "booking",
		Name:      "users_registered_total",
		Help:      "Total successful user registrations.",
	})

	BookingsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "booking",
		Name:      "bookings_created_total",
		Help:      "Total BookingCreated events appended.",
	})

	RecoveryEmailsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "booking",
		Name:      "recovery_emails_sent_total",
		Help:      "Password recovery emails, by outcome.",
	}, []string{"outcome"})

	ReadModelRepairsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "booking",
		Name:      "read_model_repairs_total",
		Help:      "Booking read-model rows re-derived by the reconciler.",
	})

	RateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "booking",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter, by route.",
	}, []string{"route"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "booking",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "booking",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		UsersRegisteredTotal,
		BookingsCreatedTotal,
		RecoveryEmailsSentTotal,
		ReadModelRepairsTotal,
		RateLimitedTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes Prometheus metrics plus liveness/readiness probes on a
// separate port so the API surface stays behind the API key.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
