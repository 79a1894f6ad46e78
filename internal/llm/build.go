package llm

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	llmclient "iplinsight/internal/llmClient"
)

// NewClient builds the provider named by cfg and wraps it with the standard
// stack: hooks, logging and metrics outside a per-request timeout.
func NewClient(ctx context.Context, cfg llmclient.Config, logger *zap.Logger, reg prometheus.Registerer) (llmclient.LLMClient, error) {
	base, err := llmclient.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mws := []Middleware{WithHooks(), WithLogging(logger)}
	if reg != nil {
		mws = append(mws, WithMetrics(reg))
	}
	mws = append(mws, WithTimeout(cfg.Timeout))
	return Wrap(base, mws...), nil
}
