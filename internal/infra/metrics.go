package infra

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	donationsRecorded *prometheus.CounterVec
	amountRecorded    prometheus.Counter
	paymentCharges    *prometheus.CounterVec
	eventsFailed      prometheus.Counter
}

// NewMetrics builds a private registry with process and Go collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donorcrm_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		donationsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_donations_recorded_total",
			Help: "Donations committed, by payment method.",
		}, []string{"method"}),
		amountRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "donorcrm_donation_amount_recorded_total",
			Help: "Sum of committed donation amounts in major currency units.",
		}),
		paymentCharges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcrm_payment_charges_total",
			Help: "Processor charge attempts by result.",
		}, []string{"result"}),
		eventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "donorcrm_event_publish_failures_total",
			Help: "Domain events that could not be published.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.donationsRecorded,
		m.amountRecorded,
		m.paymentCharges,
		m.eventsFailed,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(route, method, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) DonationRecorded(method string, amount float64) {
	if m == nil {
		return
	}
	m.donationsRecorded.WithLabelValues(method).Inc()
	m.amountRecorded.Add(amount)
}

// PaymentCharge counts a charge attempt; result is succeeded, declined, failed or unrecorded.
func (m *Metrics) PaymentCharge(result string) {
	if m == nil {
		return
	}
	m.paymentCharges.WithLabelValues(result).Inc()
}

func (m *Metrics) EventPublishFailed() {
	if m == nil {
		return
	}
	m.eventsFailed.Inc()
}
