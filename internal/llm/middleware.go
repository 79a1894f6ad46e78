package llm

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	llmclient "iplinsight/internal/llmClient"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (timeouts, logging, hooks, metrics).
type Middleware func(llmclient.LLMClient) llmclient.LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.LLMClient, mws ...Middleware) llmclient.LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Timeout --------

// WithTimeout bounds every request with d. If d <= 0 the middleware is a no-op.
func WithTimeout(d time.Duration) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		if d <= 0 {
			return next
		}
		return &timed{next: next, d: d}
	}
}

type timed struct {
	next llmclient.LLMClient
	d    time.Duration
}

func (t *timed) Name() string { return t.next.Name() }
func (t *timed) Close() error { return t.next.Close() }

func (t *timed) GenerateJSON(ctx context.Context, prompt string, schema *llmclient.Schema) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GenerateJSON(ctx, prompt, schema)
}

func (t *timed) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GenerateText(ctx, prompt)
}

// -------- Logging --------

// WithLogging logs request size, latency and errors. A nil logger disables it.
func WithLogging(logger *zap.Logger) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		if logger == nil {
			return next
		}
		return &logging{next: next, log: logger.Named("llm")}
	}
}

type logging struct {
	next llmclient.LLMClient
	log  *zap.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, prompt string, schema *llmclient.Schema) (json.RawMessage, error) {
	start := time.Now()
	raw, err := l.next.GenerateJSON(ctx, prompt, schema)
	l.record(ctx, "json", len(prompt), len(raw), start, err)
	return raw, err
}

func (l *logging) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	txt, err := l.next.GenerateText(ctx, prompt)
	l.record(ctx, "text", len(prompt), len(txt), start, err)
	return txt, err
}

func (l *logging) record(ctx context.Context, mode string, reqBytes, respBytes int, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("client", l.next.Name()),
		zap.String("operation", OperationFrom(ctx)),
		zap.String("mode", mode),
		zap.Int("request_bytes", reqBytes),
		zap.Duration("latency", time.Since(start)),
	}
	if id := CallIDFrom(ctx); id != "" {
		fields = append(fields, zap.String("call_id", id))
	}
	if err != nil {
		l.log.Warn("LLM request failed", append(fields, zap.Error(err))...)
		return
	}
	l.log.Debug("LLM request", append(fields, zap.Int("response_bytes", respBytes))...)
}

// -------- Hooks --------

// WithHooks calls HookFrom(ctx).Before/After around each request.
// If no hook is present in the context, it is a no-op.
func WithHooks() Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &hooked{next: next}
	}
}

type hooked struct{ next llmclient.LLMClient }

func (h *hooked) Name() string { return h.next.Name() }
func (h *hooked) Close() error { return h.next.Close() }

func (h *hooked) GenerateJSON(ctx context.Context, prompt string, schema *llmclient.Schema) (json.RawMessage, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, OperationFrom(ctx), prompt)
	}
	raw, err := h.next.GenerateJSON(ctx, prompt, schema)
	if hook != nil {
		hook.After(ctx, OperationFrom(ctx), raw, err)
	}
	return raw, err
}

func (h *hooked) GenerateText(ctx context.Context, prompt string) (string, error) {
	hook := HookFrom(ctx)
	if hook != nil {
		hook.Before(ctx, OperationFrom(ctx), prompt)
	}
	txt, err := h.next.GenerateText(ctx, prompt)
	if hook != nil {
		var raw json.RawMessage
		if err == nil {
			raw, _ = json.Marshal(txt)
		}
		hook.After(ctx, OperationFrom(ctx), raw, err)
	}
	return txt, err
}
