package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iplinsight/internal/advisory"
	"iplinsight/internal/llm"
	llmclient "iplinsight/internal/llmClient"
	"iplinsight/internal/roster"
)

type stubLLM struct {
	mu      sync.Mutex
	jsonOut string
	textOut string
	err     error
	prompts []string
}

func (s *stubLLM) Name() string { return "stub" }
func (s *stubLLM) Close() error { return nil }

func (s *stubLLM) GenerateJSON(_ context.Context, prompt string, _ *llmclient.Schema) (json.RawMessage, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.jsonOut), nil
}

func (s *stubLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.textOut, nil
}

type fixture struct {
	router  http.Handler
	stub    *stubLLM
	pending *advisory.Pending
	trace   *llm.TraceRecorder
}

func newFixture(t *testing.T, stub *stubLLM) *fixture {
	t.Helper()
	r, err := roster.Load()
	require.NoError(t, err)
	client, err := advisory.New(llm.Wrap(stub, llm.WithHooks()))
	require.NoError(t, err)

	f := &fixture{stub: stub, pending: advisory.NewPending(), trace: llm.NewTraceRecorder(50)}
	h := New(Config{
		Advisory:       client,
		Roster:         r,
		Pending:        f.pending,
		Trace:          f.trace,
		AllowedOrigins: []string{"http://localhost:5173"},
		RaceInterval:   time.Millisecond,
	})
	router := chi.NewRouter()
	h.Routes(router)
	f.router = router
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, &stubLLM{})
	rec, body := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestWinProbability(t *testing.T) {
	f := newFixture(t, &stubLLM{jsonOut: `{"probability": 64, "reasoning": "Six an over needed."}`})

	rec, body := f.do(t, http.MethodPost, "/api/v1/advisory/win-probability",
		`{"target": 180, "currentRuns": 100, "wicketsLost": 4, "ballsRemaining": 42}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["degraded"])
	assert.Equal(t, map[string]interface{}{"probability": 64.0, "reasoning": "Six an over needed."}, body["result"])
	assert.Contains(t, f.stub.prompts[0], "Runs needed: 80")
}

func TestWinProbability_DegradedIsStill200(t *testing.T) {
	f := newFixture(t, &stubLLM{err: &llmclient.TransportError{Provider: "stub", Err: errors.New("503")}})

	rec, body := f.do(t, http.MethodPost, "/api/v1/advisory/win-probability",
		`{"target": 180, "currentRuns": 100, "wicketsLost": 4, "ballsRemaining": 42}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["degraded"])
	assert.Equal(t, "transport", body["reason"])
	assert.Equal(t, map[string]interface{}{
		"probability": 50.0,
		"reasoning":   "Unable to calculate probability at this time.",
	}, body["result"])
}

func TestWinProbability_BadBody(t *testing.T) {
	f := newFixture(t, &stubLLM{})
	rec, body := f.do(t, http.MethodPost, "/api/v1/advisory/win-probability", `{"target": "lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "invalid match state")
	assert.Empty(t, f.stub.prompts)
}

func TestAdvisory_PendingRejectsReentry(t *testing.T) {
	f := newFixture(t, &stubLLM{textOut: "x"})
	done, ok := f.pending.TryBegin(advisory.OpCommentary)
	require.True(t, ok)

	rec, _ := f.do(t, http.MethodPost, "/api/v1/advisory/commentary", `{"playerName": "MS Dhoni"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.stub.prompts)

	_, status := f.do(t, http.MethodGet, "/api/v1/advisory/status", "")
	assert.Equal(t, true, status["pending"].(map[string]interface{})[advisory.OpCommentary])

	done()
	rec, _ = f.do(t, http.MethodPost, "/api/v1/advisory/commentary", `{"playerName": "MS Dhoni"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPlayerClusters(t *testing.T) {
	f := newFixture(t, &stubLLM{jsonOut: `[{"name": "Virat Kohli", "role": "Anchor", "description": "Holds the innings."}]`})

	rec, body := f.do(t, http.MethodGet, "/api/v1/advisory/clusters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["result"], 1)
	assert.Contains(t, f.stub.prompts[0], "Hardik Pandya: SR 145.8, Avg 30.3, Econ 8.75")

	rec, _ = f.do(t, http.MethodPost, "/api/v1/advisory/clusters", `{"playerIds": ["2"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, f.stub.prompts[1], "Jasprit Bumrah")
	assert.NotContains(t, f.stub.prompts[1], "Virat Kohli")

	rec, _ = f.do(t, http.MethodPost, "/api/v1/advisory/clusters", `{"playerIds": ["404"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayerClusters_DegradedIsEmptyList(t *testing.T) {
	f := newFixture(t, &stubLLM{jsonOut: `{"oops": true}`})
	rec, body := f.do(t, http.MethodPost, "/api/v1/advisory/clusters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, body["result"])
	assert.Equal(t, "malformed", body["reason"])
}

func TestCommentary(t *testing.T) {
	f := newFixture(t, &stubLLM{textOut: "Dhoni finishes chases. He reads the death overs well."})

	rec, body := f.do(t, http.MethodPost, "/api/v1/advisory/commentary", `{"playerName": "MS Dhoni"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dhoni finishes chases. He reads the death overs well.", body["result"])

	rec, _ = f.do(t, http.MethodPost, "/api/v1/advisory/commentary", `{"playerName": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvisoryTrace(t *testing.T) {
	f := newFixture(t, &stubLLM{textOut: "Two sentences. Here."})
	f.do(t, http.MethodPost, "/api/v1/advisory/commentary", `{"playerName": "Rashid Khan"}`)

	rec, body := f.do(t, http.MethodGet, "/debug/advisory-trace", "")
	require.Equal(t, http.StatusOK, rec.Code)
	events := body["events"].([]interface{})
	require.Len(t, events, 2)
	first := events[0].(map[string]interface{})
	assert.Equal(t, advisory.OpCommentary, first["operation"])
	assert.NotEmpty(t, first["callId"])
}

func TestRosterEndpoints(t *testing.T) {
	f := newFixture(t, &stubLLM{})

	rec, body := f.do(t, http.MethodGet, "/api/v1/players?sort=name&role=Bowler", "")
	require.Equal(t, http.StatusOK, rec.Code)
	players := body["players"].([]interface{})
	require.Len(t, players, 2)
	assert.Equal(t, "Jasprit Bumrah", players[0].(map[string]interface{})["name"])

	rec, _ = f.do(t, http.MethodGet, "/api/v1/players?role=Captain", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/players?sort=age", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body = f.do(t, http.MethodGet, "/api/v1/players/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MS Dhoni", body["name"])
	rec, _ = f.do(t, http.MethodGet, "/api/v1/players/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = f.do(t, http.MethodGet, "/api/v1/teams", "")
	assert.Len(t, body["teams"], 10)

	rec, body = f.do(t, http.MethodGet, "/api/v1/teams/CSK", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CSK", body["label"])
	assert.EqualValues(t, 5, body["titles"])
	assert.InDelta(t, 48.90, body["winPercentage"], 0.01)
	teamPlayers := body["players"].([]interface{})
	require.Len(t, teamPlayers, 1)
	assert.Equal(t, "MS Dhoni", teamPlayers[0].(map[string]interface{})["name"])
	rec, _ = f.do(t, http.MethodGet, "/api/v1/teams/XYZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = f.do(t, http.MethodGet, "/api/v1/leaders?limit=2", "")
	leaders := body["leaders"].([]interface{})
	require.Len(t, leaders, 2)
	assert.Equal(t, "Virat Kohli", leaders[0].(map[string]interface{})["name"])
	rec, _ = f.do(t, http.MethodGet, "/api/v1/leaders?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, body = f.do(t, http.MethodGet, "/api/v1/seasons", "")
	assert.Len(t, body["seasons"], 7)

	rec, body = f.do(t, http.MethodGet, "/api/v1/compare?ids=1,3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["axes"], 5)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/compare?ids=1,2,3,4", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = f.do(t, http.MethodGet, "/api/v1/compare?ids=1,42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, body = f.do(t, http.MethodGet, "/api/v1/dream-team", "")
	assert.Len(t, body["topOrder"], 2)
	assert.Len(t, body["attack"], 2)
}

func TestRaceWS(t *testing.T) {
	f := newFixture(t, &stubLLM{})
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/race/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var years []int
	for {
		var frame roster.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
			break
		}
		years = append(years, frame.Year)
	}
	assert.Equal(t, []int{2018, 2019, 2020, 2021, 2022, 2023, 2024}, years)
}

func TestRaceWS_RejectsForeignOrigin(t *testing.T) {
	f := newFixture(t, &stubLLM{})
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/race/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
