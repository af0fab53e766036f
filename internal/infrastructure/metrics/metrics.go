package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "creditledger"

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Account metrics
	AccountsRegistered prometheus.Counter
	LoginAttempts      *prometheus.CounterVec

	// Top-up metrics
	OrdersCreated      *prometheus.CounterVec
	SettlementResults  *prometheus.CounterVec
	GatewayCalls       *prometheus.CounterVec
	GatewayDuration    *prometheus.HistogramVec
	WebhookDeliveries  *prometheus.CounterVec
	ReconciliationGaps prometheus.Gauge

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Idempotency metrics
	IdempotencyReplays prometheus.Counter
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_registered_total",
			Help:      "Total number of accounts registered",
		}),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Login attempts by outcome",
			},
			[]string{"status"},
		),

		OrdersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Gateway orders created by plan",
			},
			[]string{"plan"},
		),
		SettlementResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settlements_total",
				Help:      "Payment verification outcomes",
			},
			[]string{"result"},
		),
		GatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gateway_calls_total",
				Help:      "Payment gateway calls by operation and status",
			},
			[]string{"operation", "status"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "gateway_call_duration_seconds",
				Help:      "Payment gateway call duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		WebhookDeliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_deliveries_total",
				Help:      "Provider webhook deliveries by event and outcome",
			},
			[]string{"event", "status"},
		),
		ReconciliationGaps: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reconciliation_discrepancies",
			Help:      "Accounts whose balance disagreed with the ledger at the last check",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_duration_seconds",
				Help:      "HTTP request duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total authentication failures",
			},
			[]string{"reason"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Total rate limit hits",
			},
			[]string{"route"},
		),

		IdempotencyReplays: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotency_replays_total",
			Help:      "Responses served from the idempotency store",
		}),
	}
}

// AccountRegistered implements usecase.MetricsRecorder.
func (m *Metrics) AccountRegistered() {
	m.AccountsRegistered.Inc()
}

// LoginAttempt implements usecase.MetricsRecorder.
func (m *Metrics) LoginAttempt(status string) {
	m.LoginAttempts.WithLabelValues(status).Inc()
}

// OrderCreated implements usecase.MetricsRecorder.
func (m *Metrics) OrderCreated(plan string) {
	m.OrdersCreated.WithLabelValues(plan).Inc()
}

// SettlementResult implements usecase.MetricsRecorder.
func (m *Metrics) SettlementResult(result string) {
	m.SettlementResults.WithLabelValues(result).Inc()
}

// GatewayCall implements usecase.MetricsRecorder.
func (m *Metrics) GatewayCall(operation string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.GatewayCalls.WithLabelValues(operation, status).Inc()
	m.GatewayDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
