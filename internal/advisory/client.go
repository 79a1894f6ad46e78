// Package advisory turns match and player data into inference requests and
// maps every failure onto a documented safe default.
package advisory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"iplinsight/internal/llm"
	llmclient "iplinsight/internal/llmClient"
)

// Client performs the three advisory operations. Its Fetch methods never
// return an error: a failed call yields the operation's safe default.
type Client struct {
	llm     llmclient.LLMClient
	log     *zap.Logger
	metrics *clientMetrics
	newID   func() string
}

type Option func(*Client)

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithRegisterer registers the fallback counters on reg. Without it the
// counters are kept but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = newClientMetrics(reg) }
}

// New builds a Client over an already configured inference client. A nil
// client is a configuration error, reported at construction time.
func New(client llmclient.LLMClient, opts ...Option) (*Client, error) {
	if client == nil {
		return nil, ErrNoClient
	}
	c := &Client{
		llm:   client,
		log:   zap.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newClientMetrics(nil)
	}
	c.log = c.log.Named("advisory")
	return c, nil
}

// FetchWinProbability estimates the chasing side's win probability.
func (c *Client) FetchWinProbability(ctx context.Context, target, currentRuns, wicketsLost, ballsRemaining int) WinProbabilityResult {
	return c.EvaluateWinProbability(ctx, MatchState{
		Target:         target,
		CurrentRuns:    currentRuns,
		WicketsLost:    wicketsLost,
		BallsRemaining: ballsRemaining,
	}).Value
}

// FetchPlayerClusters assigns a role label to each player. The result is
// never nil.
func (c *Client) FetchPlayerClusters(ctx context.Context, players []PlayerSummary) []PlayerClusterResult {
	return c.EvaluatePlayerClusters(ctx, players).Value
}

// FetchCommentary returns a short tactical summary of the named player.
func (c *Client) FetchCommentary(ctx context.Context, playerName string) string {
	return c.EvaluateCommentary(ctx, playerName).Value
}

func (c *Client) EvaluateWinProbability(ctx context.Context, m MatchState) Outcome[WinProbabilityResult] {
	q := BuildWinProbabilityQuery(m.Target, m.CurrentRuns, m.WicketsLost, m.BallsRemaining)
	ctx, id, start := c.begin(ctx, q.Operation)
	res, err := structured[WinProbabilityResult](ctx, c.llm, q)
	if err != nil {
		return fallbackOutcome(c, q.Operation, id, start, err, DefaultWinProbability())
	}
	c.succeed(q.Operation, id, start)
	return Outcome[WinProbabilityResult]{Value: res}
}

func (c *Client) EvaluatePlayerClusters(ctx context.Context, players []PlayerSummary) Outcome[[]PlayerClusterResult] {
	q := BuildClusterQuery(players)
	ctx, id, start := c.begin(ctx, q.Operation)
	res, err := structured[[]PlayerClusterResult](ctx, c.llm, q)
	if err != nil {
		return fallbackOutcome(c, q.Operation, id, start, err, []PlayerClusterResult{})
	}
	if res == nil {
		res = []PlayerClusterResult{}
	}
	c.succeed(q.Operation, id, start)
	return Outcome[[]PlayerClusterResult]{Value: res}
}

func (c *Client) EvaluateCommentary(ctx context.Context, playerName string) Outcome[string] {
	q := BuildCommentaryQuery(playerName)
	ctx, id, start := c.begin(ctx, q.Operation)
	text, err := c.llm.GenerateText(ctx, q.Prompt)
	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = llmclient.ErrEmptyResponse
		}
	}
	if err != nil {
		return fallbackOutcome(c, q.Operation, id, start, err, DefaultCommentary)
	}
	c.succeed(q.Operation, id, start)
	return Outcome[string]{Value: text}
}

func structured[T any](ctx context.Context, client llmclient.LLMClient, q Query) (T, error) {
	raw, err := client.GenerateJSON(ctx, q.Prompt, q.Schema)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](raw, q.Schema)
}

func (c *Client) begin(ctx context.Context, op string) (context.Context, string, time.Time) {
	id := c.newID()
	ctx = llm.WithOperation(ctx, op)
	ctx = llm.WithCallID(ctx, id)
	return ctx, id, time.Now()
}

func (c *Client) succeed(op, id string, start time.Time) {
	c.metrics.ok(op)
	c.log.Debug("advisory call succeeded",
		zap.String("operation", op),
		zap.String("call_id", id),
		zap.Duration("latency", time.Since(start)),
	)
}

func fallbackOutcome[T any](c *Client, op, id string, start time.Time, err error, def T) Outcome[T] {
	reason := Classify(err)
	c.metrics.fallback(op, reason)
	c.log.Warn("advisory call failed, returning default",
		zap.String("operation", op),
		zap.String("call_id", id),
		zap.String("reason", reason),
		zap.Duration("latency", time.Since(start)),
		zap.Error(err),
	)
	return Outcome[T]{Value: def, Degraded: true, Reason: reason}
}
