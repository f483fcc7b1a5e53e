package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	ordersCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"payment_method"},
	)

	paymentsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_received_total",
			Help: "Total number of payments received or confirmed via webhook",
		},
		[]string{"event"},
	)

	shippingQuotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipping_quotes_total",
			Help: "Total number of shipping quotes by source",
		},
		[]string{"source"},
	)

	voucherRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voucher_rejections_total",
			Help: "Total number of rejected vouchers by reason",
		},
		[]string{"reason"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern usa o padrão da rota (/products/{id}) para não explodir a cardinalidade.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordOrderCreated(paymentMethod string) {
	ordersCreated.WithLabelValues(paymentMethod).Inc()
}

func RecordPayment(event string) {
	paymentsReceived.WithLabelValues(event).Inc()
}

func RecordShippingQuote(source string) {
	shippingQuotes.WithLabelValues(source).Inc()
}

func RecordVoucherRejection(reason string) {
	voucherRejections.WithLabelValues(reason).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
