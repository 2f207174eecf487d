package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "librarian",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status.",
		},
		[]string{"path", "status"},
	)

	lifecycleOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "librarian",
			Name:      "lifecycle_operations_total",
			Help:      "Loan lifecycle operations by kind and outcome.",
		},
		[]string{"op", "outcome"},
	)

	finesIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "librarian",
			Name:      "fines_issued_total",
			Help:      "Fines issued by fee type.",
		},
		[]string{"fee_type"},
	)

	holdsReleased = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "librarian",
			Name:      "expired_holds_released_total",
			Help:      "Expired holds reclaimed by the sweeper.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, lifecycleOps, finesIssued, holdsReleased)
	})
}

func IncHTTP(path, status string) {
	httpRequests.WithLabelValues(path, status).Inc()
}

// IncOp records a lifecycle operation: op is e.g. "request_pickup",
// outcome "ok" or "error".
func IncOp(op, outcome string) {
	lifecycleOps.WithLabelValues(op, outcome).Inc()
}

func IncFineIssued(feeType string) {
	finesIssued.WithLabelValues(feeType).Inc()
}

func AddHoldsReleased(n int64) {
	holdsReleased.Add(float64(n))
}
