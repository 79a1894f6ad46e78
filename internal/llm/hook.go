package llm

import (
	"context"
	"encoding/json"
)

// PromptHook defines callbacks around LLM requests.
type PromptHook interface {
	Before(ctx context.Context, operation, prompt string)
	After(ctx context.Context, operation string, raw json.RawMessage, err error)
}

type ctxKeyHook struct{}
type ctxKeyOperation struct{}
type ctxKeyCallID struct{}

// WithOperation attaches the advisory operation name to the context.
func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, ctxKeyOperation{}, op)
}

// OperationFrom returns the operation stored in the context.
func OperationFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyOperation{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// WithCallID attaches a per-call correlation id.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCallID{}, id)
}

// CallIDFrom returns the call id stored in the context, or "".
func CallIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyCallID{}).(string); ok {
		return v
	}
	return ""
}

// WithPromptHook attaches a PromptHook to the context. The WithHooks
// middleware invokes it around each request.
func WithPromptHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}
