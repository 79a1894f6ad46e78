package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmclient "iplinsight/internal/llmClient"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"GEMINI_API_KEY": "k"}), "")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, LLMConfig{
		Provider: llmclient.ProviderGemini,
		Model:    llmclient.DefaultGeminiModel,
		APIKey:   "k",
		Timeout:  30 * time.Second,
	}, cfg.LLM)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"PORT":            "9000",
		"APP_ENV":         "production",
		"LOG_LEVEL":       "debug",
		"LLM_PROVIDER":    "OpenAI",
		"LLM_MODEL":       "gpt-4.1-mini",
		"OPENAI_API_KEY":  "sk-test",
		"OPENAI_BASE_URL": "http://localhost:11434/v1/",
		"LLM_TIMEOUT":     "5s",
		"ALLOWED_ORIGINS": " https://ipl.example , ,https://admin.example",
	}), "")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, []string{"https://ipl.example", "https://admin.example"}, cfg.AllowedOrigins)
	assert.Equal(t, llmclient.Config{
		Provider: "openai",
		APIKey:   "sk-test",
		BaseURL:  "http://localhost:11434/v1/",
		Model:    "gpt-4.1-mini",
		Timeout:  5 * time.Second,
	}, cfg.LLM.Client())
}

func TestFromEnv_PortFlagWins(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"PORT": "9000", "LLM_PROVIDER": "fake"}), ":7000")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Port)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestFromEnv_LegacyAPIKey(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"API_KEY": "legacy"}), "")
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.LLM.APIKey)
}

func TestFromEnv_ConfigurationErrors(t *testing.T) {
	cases := map[string]struct {
		env map[string]string
		key string
	}{
		"missing gemini key": {map[string]string{}, "GEMINI_API_KEY"},
		"missing openai key": {map[string]string{"LLM_PROVIDER": "openai", "GEMINI_API_KEY": "k"}, "OPENAI_API_KEY"},
		"unknown provider":   {map[string]string{"LLM_PROVIDER": "mistral"}, "LLM_PROVIDER"},
		"bad timeout":        {map[string]string{"LLM_PROVIDER": "fake", "LLM_TIMEOUT": "soon"}, "LLM_TIMEOUT"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(tc.env), "")
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tc.key, ce.Key)
		})
	}
}
