package llmtool

import (
	"reflect"

	"github.com/invopop/jsonschema"

	llmclient "iplinsight/internal/llmClient"
)

// ReflectSchema derives the response schema for T from its json and
// jsonschema struct tags. Fields without omitempty are required. T may be a
// struct or a slice of structs.
func ReflectSchema[T any]() *llmclient.Schema {
	t := reflect.TypeOf((*T)(nil)).Elem()
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		// only valid for struct roots; other kinds have no root definition
		ExpandedStruct: t.Kind() == reflect.Struct,
	}
	return fromJSONSchema(reflector.ReflectFromType(t))
}

func fromJSONSchema(s *jsonschema.Schema) *llmclient.Schema {
	if s == nil {
		return nil
	}
	out := &llmclient.Schema{
		Type:        llmclient.SchemaType(s.Type),
		Description: s.Description,
	}
	switch out.Type {
	case llmclient.TypeObject:
		out.Properties = map[string]*llmclient.Schema{}
		if s.Properties != nil {
			for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
				out.Properties[pair.Key] = fromJSONSchema(pair.Value)
				out.Order = append(out.Order, pair.Key)
			}
		}
		out.Required = append([]string(nil), s.Required...)
	case llmclient.TypeArray:
		out.Items = fromJSONSchema(s.Items)
	case "":
		out.Type = llmclient.TypeString
	}
	return out
}
