package advisory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmclient "iplinsight/internal/llmClient"
)

func TestDecode_WinProbability(t *testing.T) {
	got, err := Decode[WinProbabilityResult]([]byte(`{"probability": 0, "reasoning": "All out."}`), winProbabilitySchema)
	require.NoError(t, err)
	assert.Equal(t, WinProbabilityResult{Probability: 0, Reasoning: "All out."}, got)

	got, err = Decode[WinProbabilityResult]([]byte(`{"probability": 100, "reasoning": "Won.", "confidence": "high"}`), winProbabilitySchema)
	require.NoError(t, err, "unknown fields are tolerated")
	assert.Equal(t, 100.0, got.Probability)
}

func TestDecode_DoubleEncoded(t *testing.T) {
	got, err := Decode[WinProbabilityResult]([]byte(`"{\"probability\": 33, \"reasoning\": \"Tight.\"}"`), winProbabilitySchema)
	require.NoError(t, err)
	assert.Equal(t, 33.0, got.Probability)
}

func TestDecode_ReportsPath(t *testing.T) {
	_, err := Decode[[]PlayerClusterResult]([]byte(`[{"name": "a", "role": "b", "description": "c"}, {"name": "d", "role": false, "description": "e"}]`), clusterSchema)
	var mre *MalformedResponseError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "$[1].role", mre.Path)

	_, err = Decode[WinProbabilityResult]([]byte(`{"reasoning": "x"}`), winProbabilitySchema)
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "$.probability", mre.Path)
	assert.Equal(t, "missing required field", mre.Reason)

	_, err = Decode[WinProbabilityResult]([]byte(`{"probability": null, "reasoning": "x"}`), winProbabilitySchema)
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "$.probability", mre.Path)
}

func TestDecode_FieldRules(t *testing.T) {
	_, err := Decode[WinProbabilityResult]([]byte(`{"probability": 100.5, "reasoning": "x"}`), winProbabilitySchema)
	var mre *MalformedResponseError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "field rules", mre.Reason)
	assert.Equal(t, ReasonMalformed, Classify(err))
}

func TestCheckShape_Integer(t *testing.T) {
	s := &llmclient.Schema{Type: llmclient.TypeInteger}
	assert.NoError(t, CheckShape(s, 3.0))
	assert.Error(t, CheckShape(s, 3.5))
	assert.Error(t, CheckShape(s, "3"))
	assert.NoError(t, CheckShape(&llmclient.Schema{Type: llmclient.TypeBoolean}, true))
	assert.NoError(t, CheckShape(nil, "anything"))
}
