package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK     = "ok"
	OutcomeAbsent = "absent"
	OutcomeValid  = "valid"
	OutcomeFailed = "invalid"
)

// Metrics provides observability for the document module.
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// New registers the document metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_document_operations_total",
			Help: "CUIL/CUIT operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_document_operation_duration_seconds",
			Help:    "Duration of CUIL/CUIT operations",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}, []string{"operation"}),
	}
}

// Record counts one operation and observes its duration.
// Call with time.Now() taken at the start of the operation.
func (m *Metrics) Record(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
