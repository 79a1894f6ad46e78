package advisory

import (
	"fmt"
	"strconv"
	"strings"

	llmclient "iplinsight/internal/llmClient"
	"iplinsight/internal/llmtool"
)

// Query is an outbound prompt plus the schema its response must satisfy.
// Schema is nil for free-text queries.
type Query struct {
	Operation string
	Prompt    string
	Schema    *llmclient.Schema
}

var (
	winProbabilitySchema = llmtool.ReflectSchema[WinProbabilityResult]()
	clusterSchema        = llmtool.ReflectSchema[[]PlayerClusterResult]()
)

// BuildWinProbabilityQuery embeds the chase state into an instruction. Input
// ranges are not checked; out-of-range values are passed through.
func BuildWinProbabilityQuery(target, currentRuns, wicketsLost, ballsRemaining int) Query {
	runsNeeded := target - currentRuns
	p := llmtool.StructuredPrompt{
		Purpose: fmt.Sprintf("Calculate the chasing team's win probability for target %d. "+
			"Provide a probability percentage and a brief tactical reason.", target),
		Input: fmt.Sprintf("Target: %d\nRuns needed: %d\nWickets lost: %d\nBalls left: %d",
			target, runsNeeded, wicketsLost, ballsRemaining),
		OutputFields: llmtool.FieldsFromSchema(winProbabilitySchema),
		OutputFormat: "A single JSON object.",
	}
	p = llmtool.ApplyPresets(p, llmtool.PresetStrictJSON(), llmtool.PresetT20Analyst())
	return Query{
		Operation: OpWinProbability,
		Prompt:    mustRender(p),
		Schema:    winProbabilitySchema,
	}
}

// BuildClusterQuery lists each player as "<name>: SR <sr>, Avg <avg>, Econ <econ>"
// and asks for a freely chosen role label per player.
func BuildClusterQuery(players []PlayerSummary) Query {
	lines := make([]string, 0, len(players))
	for _, player := range players {
		lines = append(lines, SummaryLine(player))
	}
	p := llmtool.StructuredPrompt{
		Purpose: `Categorize these players into unique roles (e.g. "Finisher", "Middle Over Specialist", ` +
			`"Strike Bowler", "Anchor") based on their stats. Return as an array of objects.`,
		Input:        strings.Join(lines, "\n"),
		OutputFields: llmtool.FieldsFromSchema(clusterSchema),
		OutputFormat: "A JSON array with one object per player.",
	}
	p = llmtool.ApplyPresets(p, llmtool.PresetStrictJSON(), llmtool.PresetT20Analyst())
	return Query{
		Operation: OpPlayerClusters,
		Prompt:    mustRender(p),
		Schema:    clusterSchema,
	}
}

// BuildCommentaryQuery asks for a two-sentence tactical summary of a player.
func BuildCommentaryQuery(playerName string) Query {
	p := llmtool.StructuredPrompt{
		Purpose: fmt.Sprintf("Provide a 2-sentence tactical analysis for the IPL player %s "+
			"based on their historic performance and reputation. Focus on their role in a T20 setup.", playerName),
		Rules:        []string{"Exactly two sentences."},
		OutputFormat: "Plain text. No markdown.",
	}
	p = llmtool.ApplyPresets(p, llmtool.PresetT20Analyst())
	return Query{
		Operation: OpCommentary,
		Prompt:    mustRender(p),
	}
}

// SummaryLine renders one player for the cluster prompt.
func SummaryLine(p PlayerSummary) string {
	return fmt.Sprintf("%s: SR %s, Avg %s, Econ %s", p.Name, num(p.StrikeRate), num(p.Average), num(p.Economy))
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func mustRender(p llmtool.StructuredPrompt) string {
	out, err := llmtool.Render(p)
	if err != nil {
		panic(err)
	}
	return out
}
