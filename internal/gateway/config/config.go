package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	llmclient "iplinsight/internal/llmClient"
)

const (
	DefaultPort       = ":8081"
	DefaultLLMTimeout = 30 * time.Second
)

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

type Config struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	LLM            LLMConfig
}

type LLMConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// Client returns the provider settings in the form llmclient.New expects.
func (c LLMConfig) Client() llmclient.Config {
	return llmclient.Config{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Model:    c.Model,
		Timeout:  c.Timeout,
	}
}

// ConfigurationError reports a missing or invalid setting. It is returned at
// startup so a misconfigured process never serves requests.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Key, e.Reason)
}

// Load reads .env (if present), the -port flag and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	port := fs.String("port", "", "server port")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	return FromEnv(os.Getenv, *port)
}

// FromEnv builds a Config from getenv. A non-empty portFlag wins over PORT.
func FromEnv(getenv func(string) string, portFlag string) (*Config, error) {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	port := firstNonEmpty(portFlag, env("PORT"), DefaultPort)
	if !strings.Contains(port, ":") {
		port = ":" + port
	}

	llmCfg, err := loadLLM(env)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:           port,
		Env:            firstNonEmpty(env("APP_ENV"), "local"),
		LogLevel:       firstNonEmpty(env("LOG_LEVEL"), "info"),
		AllowedOrigins: splitList(env("ALLOWED_ORIGINS"), defaultOrigins),
		LLM:            llmCfg,
	}, nil
}

func loadLLM(env func(string) string) (LLMConfig, error) {
	cfg := LLMConfig{
		Provider: strings.ToLower(firstNonEmpty(env("LLM_PROVIDER"), llmclient.ProviderGemini)),
		BaseURL:  env("OPENAI_BASE_URL"),
		Timeout:  DefaultLLMTimeout,
	}
	if raw := env("LLM_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return LLMConfig{}, &ConfigurationError{Key: "LLM_TIMEOUT", Reason: fmt.Sprintf("invalid duration %q", raw)}
		}
		cfg.Timeout = d
	}

	switch cfg.Provider {
	case llmclient.ProviderGemini:
		cfg.APIKey = firstNonEmpty(env("GEMINI_API_KEY"), env("API_KEY"))
		cfg.Model = firstNonEmpty(env("LLM_MODEL"), llmclient.DefaultGeminiModel)
		if cfg.APIKey == "" {
			return LLMConfig{}, &ConfigurationError{Key: "GEMINI_API_KEY", Reason: "required for provider gemini"}
		}
	case llmclient.ProviderOpenAI:
		cfg.APIKey = env("OPENAI_API_KEY")
		cfg.Model = firstNonEmpty(env("LLM_MODEL"), llmclient.DefaultOpenAIModel)
		if cfg.APIKey == "" {
			return LLMConfig{}, &ConfigurationError{Key: "OPENAI_API_KEY", Reason: "required for provider openai"}
		}
	case llmclient.ProviderFake:
		cfg.Model = firstNonEmpty(env("LLM_MODEL"), "offline")
	default:
		return LLMConfig{}, &ConfigurationError{Key: "LLM_PROVIDER", Reason: fmt.Sprintf("unsupported provider %q", cfg.Provider)}
	}
	return cfg, nil
}

func splitList(raw string, fallback []string) []string {
	if raw == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
