// Package metrics exports prometheus collectors for interpolation sensors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sgostarter/libinterpolation/sensor"
)

const (
	metricsNamespace = "interpolation"
)

// Metrics implements sensor.Observer.
type Metrics struct {
	// EvaluationsTotal counts handled input values.
	// Labels: sensor (entity id), result (ok, absent, parse_error, non_finite, unbuilt)
	EvaluationsTotal *prometheus.CounterVec

	// Value is the last derived value; the series is dropped while the
	// sensor has no value.
	// Labels: sensor
	Value *prometheus.GaugeVec
}

// NewMetrics registers the collectors with registerer. A nil registerer
// leaves them unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Input values handled by interpolation sensors, by result.",
		}, []string{"sensor", "result"}),
		Value: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "value",
			Help:      "Last interpolated value of a sensor.",
		}, []string{"sensor"}),
	}
}

func (m *Metrics) ObserveEvaluation(entityID string, result sensor.Result, value float64) {
	m.EvaluationsTotal.WithLabelValues(entityID, string(result)).Inc()

	if result == sensor.ResultOK {
		m.Value.WithLabelValues(entityID).Set(value)

		return
	}

	m.Value.DeleteLabelValues(entityID)
}
