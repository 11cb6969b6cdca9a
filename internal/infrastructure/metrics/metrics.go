// Package metrics exposes Prometheus collectors for purchases, callbacks and
// HTTP traffic.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	paymentUsecases "github.com/autopro-kz/autopro/internal/application/payment/usecases"
	subscriptionUsecases "github.com/autopro-kz/autopro/internal/application/subscription/usecases"
)

const namespace = "autopro"

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// PaymentMetrics records the purchase and reconciliation flow.
type PaymentMetrics struct {
	paymentsCreated        *prometheus.CounterVec
	gatewayFailures        *prometheus.CounterVec
	gatewayLatency         *prometheus.HistogramVec
	callbacks              *prometheus.CounterVec
	subscriptionsActivated *prometheus.CounterVec
	subscriptionsExpired   prometheus.Counter
}

var (
	_ subscriptionUsecases.PurchaseMetrics = (*PaymentMetrics)(nil)
	_ paymentUsecases.CallbackMetrics      = (*PaymentMetrics)(nil)
)

func NewPaymentMetrics(registry prometheus.Registerer) *PaymentMetrics {
	factory := promauto.With(registry)
	return &PaymentMetrics{
		paymentsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_created_total",
				Help:      "Payments for which the provider returned a payment URL.",
			},
			[]string{"provider"},
		),
		gatewayFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_gateway_failures_total",
				Help:      "Failed payment creation requests.",
			},
			[]string{"provider"},
		),
		gatewayLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "payment_gateway_request_seconds",
				Help:      "Latency of payment creation requests.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8),
			},
			[]string{"provider"},
		),
		callbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_callbacks_total",
				Help:      "Provider callbacks by outcome.",
			},
			[]string{"provider", "result"},
		),
		subscriptionsActivated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_activated_total",
				Help:      "Subscriptions activated by a successful payment.",
			},
			[]string{"plan"},
		),
		subscriptionsExpired: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "subscriptions_expired_total",
				Help:      "Active subscriptions marked expired by the sweeper.",
			},
		),
	}
}

func (m *PaymentMetrics) PaymentCreated(provider string) {
	m.paymentsCreated.WithLabelValues(provider).Inc()
}

func (m *PaymentMetrics) GatewayFailed(provider string) {
	m.gatewayFailures.WithLabelValues(provider).Inc()
}

func (m *PaymentMetrics) ObserveGatewayLatency(provider string, d time.Duration) {
	m.gatewayLatency.WithLabelValues(provider).Observe(d.Seconds())
}

func (m *PaymentMetrics) CallbackHandled(provider, result string) {
	m.callbacks.WithLabelValues(provider, result).Inc()
}

func (m *PaymentMetrics) SubscriptionActivated(planCode string) {
	m.subscriptionsActivated.WithLabelValues(planCode).Inc()
}

func (m *PaymentMetrics) SubscriptionsExpired(n int) {
	m.subscriptionsExpired.Add(float64(n))
}

// HTTPMetrics counts requests per route template.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(registry prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(registry)
	return &HTTPMetrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *HTTPMetrics) Observe(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
