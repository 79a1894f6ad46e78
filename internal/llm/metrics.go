package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	llmclient "iplinsight/internal/llmClient"
)

type requestMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// WithMetrics records request counts and latency per client and operation on
// reg. A nil registerer uses the default registry.
func WithMetrics(reg prometheus.Registerer) Middleware {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &requestMetrics{
		requests: registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "iplinsight_llm_requests_total",
			Help: "Total number of requests sent to the inference service",
		}, []string{"client", "operation", "status"})),
		latency: registerOrReuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iplinsight_llm_request_duration_seconds",
			Help:    "Latency of requests to the inference service",
			Buckets: prometheus.DefBuckets,
		}, []string{"client", "operation"})),
	}
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &metered{next: next, m: m}
	}
}

// registerOrReuse registers c, returning the already registered collector
// when an identical one exists (e.g. two clients built in one process).
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

type metered struct {
	next llmclient.LLMClient
	m    *requestMetrics
}

func (m *metered) Name() string { return m.next.Name() }
func (m *metered) Close() error { return m.next.Close() }

func (m *metered) GenerateJSON(ctx context.Context, prompt string, schema *llmclient.Schema) (json.RawMessage, error) {
	start := time.Now()
	raw, err := m.next.GenerateJSON(ctx, prompt, schema)
	m.observe(ctx, start, err)
	return raw, err
}

func (m *metered) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	txt, err := m.next.GenerateText(ctx, prompt)
	m.observe(ctx, start, err)
	return txt, err
}

func (m *metered) observe(ctx context.Context, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	op := OperationFrom(ctx)
	m.m.requests.WithLabelValues(m.next.Name(), op, status).Inc()
	m.m.latency.WithLabelValues(m.next.Name(), op).Observe(time.Since(start).Seconds())
}
