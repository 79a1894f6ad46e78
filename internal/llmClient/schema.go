package llmclient

import "sort"

// SchemaType is the basic JSON type of a schema node.
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
)

// Schema is the provider-neutral response shape sent with structured requests.
// Each provider converts it into its own representation.
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// Order keeps property order stable for prompts and providers that honour it.
	Order    []string
	Required []string
	Items    *Schema
}

// PropertyNames returns property names in declaration order, falling back to
// sorted order when Order is not set.
func (s *Schema) PropertyNames() []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	if len(s.Order) == len(s.Properties) {
		return append([]string(nil), s.Order...)
	}
	names := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether name is listed as required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// JSONSchema renders s as a plain JSON Schema document. additionalProperties
// is always false, as strict structured-output modes require.
func (s *Schema) JSONSchema() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	switch s.Type {
	case TypeObject:
		props := make(map[string]any, len(s.Properties))
		for _, name := range s.PropertyNames() {
			props[name] = s.Properties[name].JSONSchema()
		}
		out["properties"] = props
		req := s.Required
		if req == nil {
			req = []string{}
		}
		out["required"] = req
		out["additionalProperties"] = false
	case TypeArray:
		out["items"] = s.Items.JSONSchema()
	}
	return out
}
