package advisory

// Operation names, used for logging, metrics and the pending guard.
const (
	OpWinProbability = "win_probability"
	OpPlayerClusters = "player_clusters"
	OpCommentary     = "commentary"
)

// Operations lists every advisory operation.
var Operations = []string{OpWinProbability, OpPlayerClusters, OpCommentary}

// Safe defaults returned when an advisory call fails. DefaultProbability
// means "no information"; it is not an estimate.
const (
	DefaultProbability = 50
	DefaultReasoning   = "Unable to calculate probability at this time."
	DefaultCommentary  = "Strategic analysis unavailable."
)

// MatchState is the numeric snapshot of an in-progress chase.
type MatchState struct {
	Target         int `json:"target"`
	CurrentRuns    int `json:"currentRuns"`
	WicketsLost    int `json:"wicketsLost"`
	BallsRemaining int `json:"ballsRemaining"`
}

// RunsNeeded is Target - CurrentRuns. It may be negative for nonsensical input.
func (m MatchState) RunsNeeded() int { return m.Target - m.CurrentRuns }

// WinProbabilityResult is the chasing side's estimated chance of winning.
type WinProbabilityResult struct {
	Probability float64 `json:"probability" validate:"gte=0,lte=100" jsonschema:"description=Chasing team win probability as a percentage between 0 and 100"`
	Reasoning   string  `json:"reasoning" validate:"nonblank" jsonschema:"description=Brief tactical reason for the estimate"`
}

// DefaultWinProbability returns the fallback result.
func DefaultWinProbability() WinProbabilityResult {
	return WinProbabilityResult{Probability: DefaultProbability, Reasoning: DefaultReasoning}
}

// PlayerSummary is the read-only slice of a player record sent for clustering.
type PlayerSummary struct {
	Name       string  `json:"name"`
	StrikeRate float64 `json:"strikeRate"`
	Average    float64 `json:"average"`
	Economy    float64 `json:"economy"`
}

// PlayerClusterResult is one player's model-assigned role. Role is free text
// and unrelated to the roster's role classification.
type PlayerClusterResult struct {
	Name        string `json:"name" validate:"nonblank" jsonschema:"description=Player name as given in the input"`
	Role        string `json:"role" validate:"nonblank" jsonschema:"description=Short role label such as Finisher or Strike Bowler"`
	Description string `json:"description" validate:"nonblank" jsonschema:"description=One sentence explaining the label"`
}

// Outcome carries a value together with whether it is a safe default.
type Outcome[T any] struct {
	Value    T      `json:"result"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}
