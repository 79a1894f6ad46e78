package llmtool

// PromptPreset holds reusable constraints and rules for structured prompts.
type PromptPreset struct {
	Constraints []string
	Rules       []string
}

// ApplyPresets prepends preset constraints/rules to a structured prompt.
func ApplyPresets(p StructuredPrompt, presets ...PromptPreset) StructuredPrompt {
	if len(presets) == 0 {
		return p
	}
	var merged PromptPreset
	for _, preset := range presets {
		merged.Constraints = append(merged.Constraints, preset.Constraints...)
		merged.Rules = append(merged.Rules, preset.Rules...)
	}
	p.Constraints = append(merged.Constraints, p.Constraints...)
	p.Rules = append(merged.Rules, p.Rules...)
	return p
}

// PresetStrictJSON enforces strict JSON-only output.
func PresetStrictJSON() PromptPreset {
	return PromptPreset{
		Constraints: []string{
			"Return strict JSON only.",
			"Match the schema exactly; no extra fields.",
			"No markdown, comments, or trailing commas.",
		},
	}
}

// PresetT20Analyst frames answers as short T20 cricket analysis.
func PresetT20Analyst() PromptPreset {
	return PromptPreset{
		Rules: []string{
			"Reason as a T20 cricket analyst (IPL context).",
			"Keep any prose short and tactical.",
		},
	}
}
