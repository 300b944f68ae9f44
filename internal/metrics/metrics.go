package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Operations counts engine operations by kind and outcome.
// outcome is "success" or the rejection kind.
var Operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_operations_total",
		Help: "Total number of ledger operations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

// TransferVolume records the amount moved by successful transfers
var TransferVolume = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "ledger_transfer_amount",
		Help:    "Amount moved by successful transfers, in minor units",
		Buckets: []float64{1, 10, 100, 500, 1_000, 2_500, 5_000, 10_000},
	},
)

// IdempotentReplays counts transfers answered from the idempotency cache
var IdempotentReplays = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "ledger_idempotent_replays_total",
		Help: "Transfers answered from a cached receipt",
	},
)

// Accounts tracks the number of known accounts
var Accounts = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "ledger_accounts",
		Help: "Number of accounts held in memory",
	},
)

// HTTP request metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(Operations, TransferVolume, IdempotentReplays, Accounts)
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
}

// ObserveOperation increments the operation counter
func ObserveOperation(operation, outcome string) {
	Operations.WithLabelValues(operation, outcome).Inc()
}
