package advisory

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type clientMetrics struct {
	calls     *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	m := &clientMetrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iplinsight",
			Subsystem: "advisory",
			Name:      "calls_total",
			Help:      "Advisory operations by outcome (ok or fallback).",
		}, []string{"operation", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "iplinsight",
			Subsystem: "advisory",
			Name:      "fallbacks_total",
			Help:      "Advisory operations that returned a safe default, by failure class.",
		}, []string{"operation", "reason"}),
	}
	if reg == nil {
		return m
	}
	m.calls = reuse(reg, m.calls)
	m.fallbacks = reuse(reg, m.fallbacks)
	return m
}

func reuse(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

func (m *clientMetrics) ok(op string) {
	m.calls.WithLabelValues(op, "ok").Inc()
}

func (m *clientMetrics) fallback(op, reason string) {
	m.calls.WithLabelValues(op, "fallback").Inc()
	m.fallbacks.WithLabelValues(op, reason).Inc()
}
