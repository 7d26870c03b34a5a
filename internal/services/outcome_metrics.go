package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"ticketinventory/internal/domain"
	"ticketinventory/internal/metrics"
)

// OutcomeMetrics counts registration outcomes by operation and result.
type OutcomeMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewOutcomeMetrics registers the outcome counter under namespace.
func NewOutcomeMetrics(namespace string, reg prometheus.Registerer) (*OutcomeMetrics, error) {
	if namespace == "" {
		namespace = "ticket_inventory"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	vec, err := metrics.Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_outcomes_total",
		Help:      "Registration and unregistration outcomes by operation and result.",
	}, []string{"operation", "result"}))
	if err != nil {
		return nil, err
	}
	return &OutcomeMetrics{outcomes: vec}, nil
}

// Record implements domain.OutcomeSink.
func (m *OutcomeMetrics) Record(_ context.Context, out domain.RegistrationOutcome) error {
	result := "success"
	if !out.Success {
		result = out.Code()
	}
	m.outcomes.WithLabelValues(string(out.OperationType), result).Inc()
	return nil
}
