package llmclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderFake   = "fake"
)

// Config selects and configures one provider.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	// Timeout bounds the underlying HTTP round trip. Zero leaves it to the SDK.
	Timeout time.Duration
}

// New builds the LLMClient named by cfg.Provider. The returned client is owned
// by the caller, which must Close it.
func New(ctx context.Context, cfg Config) (LLMClient, error) {
	var httpClient *http.Client
	if cfg.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	switch normalizeProvider(cfg.Provider) {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, httpClient)
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient)
	case ProviderFake:
		return NewFakeClient(), nil
	default:
		return nil, fmt.Errorf("llmclient: unsupported provider %q", cfg.Provider)
	}
}

// RequiresAPIKey reports whether provider talks to a real service.
func RequiresAPIKey(provider string) bool {
	return normalizeProvider(provider) != ProviderFake
}

func normalizeProvider(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return ProviderGemini
	}
	return p
}
