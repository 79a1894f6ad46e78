package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the service answers without any candidate text.
	ErrEmptyResponse = errors.New("llmclient: empty response from model")
	// ErrMissingAPIKey is returned by constructors of real providers when no credential is set.
	ErrMissingAPIKey = errors.New("llmclient: api key is required")
)

// LLMClient is the single logical operation the advisory module needs from an
// inference service: generate(model, prompt, optionalSchema) -> text.
type LLMClient interface {
	Name() string
	Close() error
	// GenerateJSON asks for application/json constrained by schema and returns
	// the raw response text. The text is not validated here.
	GenerateJSON(ctx context.Context, prompt string, schema *Schema) (json.RawMessage, error)
	// GenerateText asks for an unstructured text answer.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// TransportError wraps any failure that happened before a response body was
// obtained: network, timeout, auth or service-unavailable.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("llmclient: %s transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func transportErr(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Provider: provider, Err: err}
}
