package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sgostarter/libinterpolation/sensor"
	"github.com/stretchr/testify/assert"
)

func TestMetricsObserveEvaluation(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	var _ sensor.Observer = m

	m.ObserveEvaluation("sensor.volume", sensor.ResultOK, 12.5)
	m.ObserveEvaluation("sensor.volume", sensor.ResultOK, 13)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("sensor.volume", "ok")))
	assert.Equal(t, 13.0, testutil.ToFloat64(m.Value.WithLabelValues("sensor.volume")))

	m.ObserveEvaluation("sensor.volume", sensor.ResultParseError, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("sensor.volume", "parse_error")))
	assert.Equal(t, 0, testutil.CollectAndCount(m.Value))
	assert.Equal(t, 2, testutil.CollectAndCount(m.EvaluationsTotal))
}

func TestMetricsUnregistered(t *testing.T) {
	m := NewMetrics(nil)

	m.ObserveEvaluation("sensor.a", sensor.ResultAbsent, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("sensor.a", "absent")))
}
