package llmtool

import (
	"strings"
	"testing"

	llmclient "iplinsight/internal/llmClient"
	"iplinsight/internal/tester"
)

func TestRender_RendersSections(t *testing.T) {
	p := StructuredPrompt{
		Purpose:      "Estimate the chasing side's win probability.",
		Background:   "IPL, 20 overs.",
		Input:        "Target: 180",
		OutputFormat: "JSON only.",
		OutputFields: []PromptField{
			{Name: "probability", Type: "number", Required: true, Description: "Percent."},
			{Name: "notes", Type: "string"},
		},
		Constraints: []string{"No markdown."},
		Rules:       []string{"Be concise."},
	}

	out, err := Render(p)
	tester.NoErr(t, err)

	for _, sec := range []string{"[PURPOSE]", "[BACKGROUND]", "[INPUT]", "[OUTPUT]", "[CONSTRAINTS]", "[RULES]", "[OUTPUT_FORMAT]"} {
		tester.Contains(t, out, sec)
	}
	tester.Contains(t, out, "- probability (number, required): Percent.")
	tester.Contains(t, out, "- notes (string, optional)")
}

func TestRender_SkipsEmptySections(t *testing.T) {
	out, err := Render(StructuredPrompt{Purpose: "x"})
	tester.NoErr(t, err)
	tester.Eq(t, out, "[PURPOSE]\nx\n")
}

func TestRender_RequiresPurpose(t *testing.T) {
	_, err := Render(StructuredPrompt{OutputFields: []PromptField{{Name: "a", Type: "string"}}})
	tester.True(t, err != nil && strings.Contains(err.Error(), "purpose"), "purpose error")
}

func TestApplyPresets_PrependConstraintsAndRules(t *testing.T) {
	p := StructuredPrompt{
		Purpose:     "x",
		Constraints: []string{"own-constraint"},
		Rules:       []string{"own-rule"},
	}
	applied := ApplyPresets(p, PresetStrictJSON(), PresetT20Analyst())
	tester.Eq(t, applied.Constraints[0], "Return strict JSON only.")
	tester.Eq(t, applied.Constraints[len(applied.Constraints)-1], "own-constraint")
	tester.Eq(t, applied.Rules[0], "Reason as a T20 cricket analyst (IPL context).")
	tester.Eq(t, applied.Rules[len(applied.Rules)-1], "own-rule")
}

type reflectTarget struct {
	Score float64 `json:"score" jsonschema:"description=Score out of 100"`
	Label string  `json:"label"`
	Note  string  `json:"note,omitempty"`
}

func TestReflectSchema_Object(t *testing.T) {
	s := ReflectSchema[reflectTarget]()
	tester.Eq(t, s.Type, llmclient.TypeObject)
	tester.Eq(t, s.Order, []string{"score", "label", "note"})
	tester.Eq(t, s.Required, []string{"score", "label"})
	tester.Eq(t, s.Properties["score"].Type, llmclient.TypeNumber)
	tester.Eq(t, s.Properties["score"].Description, "Score out of 100")
}

func TestReflectSchema_ArrayAndFields(t *testing.T) {
	s := ReflectSchema[[]reflectTarget]()
	tester.Eq(t, s.Type, llmclient.TypeArray)
	tester.True(t, s.Items != nil, "items set")
	tester.Eq(t, s.Items.Type, llmclient.TypeObject)
	tester.Eq(t, s.Items.Required, []string{"score", "label"})

	fields := FieldsFromSchema(s)
	tester.Eq(t, len(fields), 3)
	tester.Eq(t, fields[0], PromptField{Name: "score", Type: "number", Required: true, Description: "Score out of 100"})
	tester.False(t, fields[2].Required, "omitempty field optional")
}

func TestReflectSchema_SliceOfScalars(t *testing.T) {
	s := ReflectSchema[[]string]()
	tester.Eq(t, s.Type, llmclient.TypeArray)
	tester.Eq(t, s.Items.Type, llmclient.TypeString)
}
