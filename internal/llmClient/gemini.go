package llmclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

// DefaultGeminiModel is the model the dashboard has always queried.
const DefaultGeminiModel = "gemini-3-flash-preview"

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (timeouts, logging, hooks, metrics) are applied via middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client for the Gemini API backend. httpClient may
// be nil to use the SDK default transport.
func NewGeminiClient(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON asks for application/json constrained by the response schema
// and returns the model's JSON text as-is.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	if schema != nil {
		cfg.ResponseSchema = toGenaiSchema(schema)
	}
	txt, err := g.generate(ctx, prompt, cfg)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(txt), nil
}

// GenerateText asks for a plain text answer.
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, nil)
}

func (g *GeminiClient) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}},
		cfg,
	)
	if err != nil {
		return "", transportErr(g.Name(), err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		b.WriteString(p.Text)
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		names := s.PropertyNames()
		for _, name := range names {
			out.Properties[name] = toGenaiSchema(s.Properties[name])
		}
		out.PropertyOrdering = names
		out.Required = append([]string(nil), s.Required...)
	case TypeArray:
		out.Type = genai.TypeArray
		out.Items = toGenaiSchema(s.Items)
	case TypeNumber:
		out.Type = genai.TypeNumber
	case TypeInteger:
		out.Type = genai.TypeInteger
	case TypeBoolean:
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}
	return out
}
