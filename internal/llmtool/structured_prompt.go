package llmtool

import (
	"bytes"
	"fmt"
	"strings"

	llmclient "iplinsight/internal/llmClient"
)

// PromptField describes a single output field in a simple schema.
type PromptField struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// StructuredPrompt defines the sections for a structured prompt.
type StructuredPrompt struct {
	Purpose      string
	Background   string
	Input        string
	OutputFields []PromptField
	Constraints  []string
	Rules        []string
	OutputFormat string
}

// Render renders p as [SECTION] blocks. Empty sections are skipped.
func Render(p StructuredPrompt) (string, error) {
	if strings.TrimSpace(p.Purpose) == "" {
		return "", fmt.Errorf("llmtool: purpose is empty")
	}
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE", p.Purpose)
	writeSection(&buf, "BACKGROUND", p.Background)
	writeSection(&buf, "INPUT", p.Input)
	writeSection(&buf, "OUTPUT", formatFields(p.OutputFields))
	writeSection(&buf, "CONSTRAINTS", formatList(p.Constraints))
	writeSection(&buf, "RULES", formatList(p.Rules))
	writeSection(&buf, "OUTPUT_FORMAT", p.OutputFormat)
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// FieldsFromSchema lists the fields of an object schema, or of the item
// schema when s is an array, for the [OUTPUT] section.
func FieldsFromSchema(s *llmclient.Schema) []PromptField {
	if s == nil {
		return nil
	}
	if s.Type == llmclient.TypeArray {
		s = s.Items
	}
	if s == nil || s.Type != llmclient.TypeObject {
		return nil
	}
	names := s.PropertyNames()
	fields := make([]PromptField, 0, len(names))
	for _, name := range names {
		p := s.Properties[name]
		fields = append(fields, PromptField{
			Name:        name,
			Type:        string(p.Type),
			Required:    s.IsRequired(name),
			Description: p.Description,
		})
	}
	return fields
}

func formatFields(fields []PromptField) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		req := "optional"
		if f.Required {
			req = "required"
		}
		if f.Description != "" {
			fmt.Fprintf(&buf, "- %s (%s, %s): %s\n", name, f.Type, req, f.Description)
		} else {
			fmt.Fprintf(&buf, "- %s (%s, %s)\n", name, f.Type, req)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func formatList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
