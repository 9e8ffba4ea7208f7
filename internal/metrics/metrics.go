package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReconcilerMetrics counts what the polling loop observed and did.
type ReconcilerMetrics struct {
	PollIterations     prometheus.Counter
	PollFailures       prometheus.Counter
	Transitions        *prometheus.CounterVec
	NotifyFailures     prometheus.Counter
	SettlementIncompl  prometheus.Counter
	SettlementFailures prometheus.Counter
	QRGenerated        prometheus.Counter
	QRFailures         prometheus.Counter
}

// NewReconcilerMetrics registers reconciler metrics on a registry.
func NewReconcilerMetrics(reg prometheus.Registerer) *ReconcilerMetrics {
	factory := promauto.With(reg)
	return &ReconcilerMetrics{
		PollIterations: factory.NewCounter(prometheus.CounterOpts{
			Name: "p2pwatch_poll_iterations_total",
			Help: "Completed reconciliation iterations.",
		}),
		PollFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "p2pwatch_poll_failures_total",
			Help: "Iterations aborted by an error.",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "p2pwatch_order_transitions_total",
			Help: "Detected order status transitions.",
		}, []string{"side", "status"}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "p2pwatch_notify_failures_total",
			Help: "Notification deliveries that failed.",
		}),
		SettlementIncompl: factory.NewCounter(prometheus.CounterOpts{
			Name: "p2pwatch_settlement_incomplete_total",
			Help: "Settlement resolutions with missing fields.",
		}),
		SettlementFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "p2pwatch_settlement_failures_total",
			Help: "Settlement resolutions that failed outright.",
		}),
		QRGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "p2pwatch_qr_generated_total",
			Help: "Payment QR images generated.",
		}),
		QRFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "p2pwatch_qr_failures_total",
			Help: "Payment QR generations that failed.",
		}),
	}
}
