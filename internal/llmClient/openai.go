package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is used when the openai provider is selected without a model.
const DefaultOpenAIModel = "gpt-4o-mini"

// wrapKey holds a non-object root schema, since strict json_schema mode only
// accepts an object at the root.
const wrapKey = "items"

// OpenAIClient calls the Chat Completions API with a strict json_schema
// response format. Any OpenAI-compatible endpoint works via baseURL.
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// one request per advisory call; the SDK retries by default
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model}, nil
}

func (c *OpenAIClient) Name() string { return "OpenAI:" + c.model }
func (c *OpenAIClient) Close() error { return nil }

func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, schema *Schema) (json.RawMessage, error) {
	wrapped := schema != nil && schema.Type != TypeObject
	root := schema
	if wrapped {
		root = &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{wrapKey: schema},
			Order:      []string{wrapKey},
			Required:   []string{wrapKey},
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}
	if root != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "advisory_response",
					Schema: root.JSONSchema(),
					Strict: openai.Bool(true),
				},
			},
		}
	}

	content, err := c.complete(ctx, params)
	if err != nil {
		return nil, err
	}
	if !wrapped {
		return json.RawMessage(content), nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		// leave the body for the caller's validator to reject
		return json.RawMessage(content), nil
	}
	inner, ok := env[wrapKey]
	if !ok {
		return json.RawMessage(content), nil
	}
	return inner, nil
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	})
}

func (c *OpenAIClient) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", transportErr(c.Name(), fmt.Errorf("chat completion: %w", err))
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
