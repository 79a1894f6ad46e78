package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"iplinsight/internal/advisory"
	"iplinsight/internal/roster"
)

var (
	match         advisory.MatchState
	insightsMatch advisory.MatchState
	playerIDs     []string
	playerName    string
)

var winCmd = &cobra.Command{
	Use:     "win",
	Short:   "Estimate the chasing side's win probability",
	Example: `  advisor win --target 180 --runs 100 --wickets 4 --balls 42`,
	RunE:    runWin,
}

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Label roster players with tactical roles",
	RunE:  runClusters,
}

var commentaryCmd = &cobra.Command{
	Use:   "commentary [player name]",
	Short: "Two-sentence tactical summary of a player",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCommentary,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Run all three advisory requests concurrently",
	RunE:  runInsights,
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runWin(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(commandContext(cmd))
	defer cancel()

	adv, closeFn, err := newAdvisor(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return printJSON(cmd.OutOrStdout(), adv.EvaluateWinProbability(ctx, match))
}

func runClusters(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(commandContext(cmd))
	defer cancel()

	players, err := summaries(playerIDs)
	if err != nil {
		return err
	}
	adv, closeFn, err := newAdvisor(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return printJSON(cmd.OutOrStdout(), adv.EvaluatePlayerClusters(ctx, players))
}

func runCommentary(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(commandContext(cmd))
	defer cancel()

	adv, closeFn, err := newAdvisor(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	return printJSON(cmd.OutOrStdout(), adv.EvaluateCommentary(ctx, strings.Join(args, " ")))
}

type insightsReport struct {
	WinProbability advisory.Outcome[advisory.WinProbabilityResult]  `json:"winProbability"`
	Clusters       advisory.Outcome[[]advisory.PlayerClusterResult] `json:"clusters"`
	Commentary     advisory.Outcome[string]                         `json:"commentary"`
}

func runInsights(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(commandContext(cmd))
	defer cancel()

	players, err := summaries(nil)
	if err != nil {
		return err
	}
	adv, closeFn, err := newAdvisor(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	// each goroutine owns one field of report. The evaluations never fail;
	// an interrupt surfaces as ctx.Err so the command exits non-zero.
	var report insightsReport
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		report.WinProbability = adv.EvaluateWinProbability(egCtx, insightsMatch)
		return ctx.Err()
	})
	eg.Go(func() error {
		report.Clusters = adv.EvaluatePlayerClusters(egCtx, players)
		return ctx.Err()
	})
	eg.Go(func() error {
		report.Commentary = adv.EvaluateCommentary(egCtx, playerName)
		return ctx.Err()
	})
	if err := eg.Wait(); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}

func summaries(ids []string) ([]advisory.PlayerSummary, error) {
	r, err := roster.Load()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return r.Summaries(), nil
	}
	return r.SummariesFor(ids)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
