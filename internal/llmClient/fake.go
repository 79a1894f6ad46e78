package llmclient

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal schema-valid payloads for
// offline runs and demos. It never touches the network.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, _ string, schema *Schema) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, transportErr(f.Name(), err)
	}
	if schema == nil {
		return json.RawMessage(`{}`), nil
	}
	b, err := json.Marshal(fakeValue("value", schema))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func (f *FakeClient) GenerateText(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", transportErr(f.Name(), err)
	}
	return "Offline analysis: anchors the innings through the middle overs. Accelerates late when wickets are in hand.", nil
}

func fakeValue(name string, s *Schema) any {
	switch s.Type {
	case TypeObject:
		obj := make(map[string]any, len(s.Properties))
		for _, prop := range s.PropertyNames() {
			obj[prop] = fakeValue(prop, s.Properties[prop])
		}
		return obj
	case TypeArray:
		if s.Items == nil {
			return []any{}
		}
		return []any{fakeValue(name, s.Items)}
	case TypeNumber:
		return 42.0
	case TypeInteger:
		return 1
	case TypeBoolean:
		return true
	default:
		return "offline " + name
	}
}
