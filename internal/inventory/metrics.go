package inventory

import (
	"github.com/prometheus/client_golang/prometheus"

	"ticketinventory/internal/metrics"
)

// Metrics exports cache and reservation counters to Prometheus. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	lookups      *prometheus.CounterVec
	reservations prometheus.Counter
	rejections   prometheus.Counter
	releases     prometheus.Counter
	evictions    prometheus.Counter
}

// NewMetrics registers inventory metrics under namespace.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "ticket_inventory"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Template aggregate lookups by result (hit or miss).",
		}, []string{"result"}),
		reservations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reserved_tickets_total",
			Help:      "Tickets reserved against template capacity.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capacity_rejections_total",
			Help:      "Reservations rejected because the template was sold out.",
		}),
		releases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "released_tickets_total",
			Help:      "Tickets released back to template capacity.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Template aggregates removed from the cache by eviction or invalidation.",
		}),
	}
	var err error
	if m.lookups, err = metrics.Register(reg, m.lookups); err != nil {
		return nil, err
	}
	if m.reservations, err = metrics.Register(reg, m.reservations); err != nil {
		return nil, err
	}
	if m.rejections, err = metrics.Register(reg, m.rejections); err != nil {
		return nil, err
	}
	if m.releases, err = metrics.Register(reg, m.releases); err != nil {
		return nil, err
	}
	if m.evictions, err = metrics.Register(reg, m.evictions); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) hit() {
	if m != nil {
		m.lookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.lookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) reserved(n int) {
	if m != nil {
		m.reservations.Add(float64(n))
	}
}

func (m *Metrics) rejected() {
	if m != nil {
		m.rejections.Inc()
	}
}

func (m *Metrics) released(n int) {
	if m != nil {
		m.releases.Add(float64(n))
	}
}

func (m *Metrics) evicted() {
	if m != nil {
		m.evictions.Inc()
	}
}
