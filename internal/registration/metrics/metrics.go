package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration wizard.
type Metrics struct {
	DraftsStarted *prometheus.CounterVec
	Completed     *prometheus.CounterVec
}

// New registers the registration metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DraftsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_registration_drafts_started_total",
			Help: "Registration drafts started by kind",
		}, []string{"kind"}),
		Completed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_registrations_completed_total",
			Help: "Registrations completed by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) IncDraftStarted(kind string) {
	if m == nil {
		return
	}
	m.DraftsStarted.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncCompleted(kind string) {
	if m == nil {
		return
	}
	m.Completed.WithLabelValues(kind).Inc()
}
