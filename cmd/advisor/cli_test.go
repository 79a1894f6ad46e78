package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"iplinsight/internal/advisory"
	"iplinsight/internal/roster"
)

func useFakeProvider(t *testing.T) {
	t.Helper()
	logger = zap.NewNop()
	provider = "fake"
	t.Cleanup(func() {
		provider = ""
		match = advisory.MatchState{}
		insightsMatch = advisory.MatchState{}
		playerIDs = nil
		playerName = ""
	})
}

func capture() (*cobra.Command, *bytes.Buffer) {
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	return cmd, &out
}

func TestRunWin(t *testing.T) {
	useFakeProvider(t)
	match = advisory.MatchState{Target: 180, CurrentRuns: 100, WicketsLost: 4, BallsRemaining: 42}

	cmd, out := capture()
	require.NoError(t, runWin(cmd, nil))

	var got advisory.Outcome[advisory.WinProbabilityResult]
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.False(t, got.Degraded)
	assert.InDelta(t, 42.0, got.Value.Probability, 0.001)
}

func TestRunClusters_UnknownID(t *testing.T) {
	useFakeProvider(t)
	playerIDs = []string{"99"}

	cmd, _ := capture()
	err := runClusters(cmd, nil)
	assert.ErrorIs(t, err, roster.ErrUnknownPlayer)
}

func TestRunCommentary_JoinsArgs(t *testing.T) {
	useFakeProvider(t)

	cmd, out := capture()
	require.NoError(t, runCommentary(cmd, []string{"MS", "Dhoni"}))

	var got advisory.Outcome[string]
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.NotEmpty(t, got.Value)
}

func TestRunInsights(t *testing.T) {
	useFakeProvider(t)
	insightsMatch = advisory.MatchState{Target: 160, CurrentRuns: 40, WicketsLost: 1, BallsRemaining: 80}
	playerName = "Rashid Khan"

	cmd, out := capture()
	require.NoError(t, runInsights(cmd, nil))

	var got insightsReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.False(t, got.WinProbability.Degraded)
	assert.False(t, got.Clusters.Degraded)
	assert.NotEmpty(t, got.Commentary.Value)
}

func TestRunInsights_InterruptedExitsWithError(t *testing.T) {
	useFakeProvider(t)
	insightsMatch = advisory.MatchState{Target: 160, CurrentRuns: 40, WicketsLost: 1, BallsRemaining: 80}
	playerName = "Rashid Khan"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd, out := capture()
	cmd.SetContext(ctx)

	err := runInsights(cmd, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestNewAdvisor_MissingKey(t *testing.T) {
	logger = zap.NewNop()
	provider = "openai"
	t.Setenv("OPENAI_API_KEY", "")
	t.Cleanup(func() { provider = "" })

	_, _, err := newAdvisor(t.Context())
	assert.ErrorContains(t, err, "OPENAI_API_KEY")
}
