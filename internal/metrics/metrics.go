package metrics

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/passauth/internal/health"
	ginrender "github.com/gin-gonic/gin/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	AuthOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passauth",
		Name:      "auth_operations_total",
		Help:      "Auth operations handled, by operation and outcome.",
	}, []string{"operation", "outcome"})

	ResetEmailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passauth",
		Name:      "reset_emails_total",
		Help:      "Reset link emails handed to the mailer, by result.",
	}, []string{"result"})

	UsersRegistered = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "passauth",
		Name:      "users_registered",
		Help:      "Number of rows in the users table at the last stats refresh.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "passauth",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passauth",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		AuthOperationsTotal,
		ResetEmailsTotal,
		UsersRegistered,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus liveness and readiness probes on a port
// separate from the public API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", probe(checker.Liveness))
	mux.HandleFunc("/readyz", probe(checker.Readiness))
	return &http.Server{Addr: addr, Handler: mux}
}

func probe(check func(ctx context.Context) health.HealthResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := check(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		render(w, status, result)
	}
}

// render reuses gin's JSON renderer so probe bodies match the API's encoding.
func render(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = ginrender.JSON{Data: body}.Render(w)
}
