package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iplinsight/internal/advisory"
	"iplinsight/internal/gateway/config"
	"iplinsight/internal/llm"
	"iplinsight/internal/logging"
)

var (
	// Global flags
	verbose  bool
	provider string
	model    string
	timeout  time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "IPL advisory queries from the terminal",
	Long: `advisor runs the advisory requests behind the IPL dashboard.

Every command prints JSON. A failed inference call prints the documented safe
default with "degraded": true rather than exiting with an error.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		logger, err = logging.New("production", level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "Inference provider: gemini, openai or fake (or set LLM_PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model name (or set LLM_MODEL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (or set LLM_TIMEOUT)")

	winCmd.Flags().IntVar(&match.Target, "target", 0, "Target score")
	winCmd.Flags().IntVar(&match.CurrentRuns, "runs", 0, "Runs scored so far")
	winCmd.Flags().IntVar(&match.WicketsLost, "wickets", 0, "Wickets lost")
	winCmd.Flags().IntVar(&match.BallsRemaining, "balls", 0, "Balls remaining")
	_ = winCmd.MarkFlagRequired("target")

	clustersCmd.Flags().StringSliceVar(&playerIDs, "ids", nil, "Roster ids to cluster (default: whole roster)")

	insightsCmd.Flags().IntVar(&insightsMatch.Target, "target", 180, "Target score")
	insightsCmd.Flags().IntVar(&insightsMatch.CurrentRuns, "runs", 100, "Runs scored so far")
	insightsCmd.Flags().IntVar(&insightsMatch.WicketsLost, "wickets", 4, "Wickets lost")
	insightsCmd.Flags().IntVar(&insightsMatch.BallsRemaining, "balls", 42, "Balls remaining")
	insightsCmd.Flags().StringVar(&playerName, "player", "Virat Kohli", "Player for the commentary")

	rootCmd.AddCommand(winCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(commentaryCmd)
	rootCmd.AddCommand(insightsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// lookupEnv overlays the global flags on the process environment.
func lookupEnv(key string) string {
	switch key {
	case "LLM_PROVIDER":
		if provider != "" {
			return provider
		}
	case "LLM_MODEL":
		if model != "" {
			return model
		}
	case "LLM_TIMEOUT":
		if timeout > 0 {
			return timeout.String()
		}
	}
	return os.Getenv(key)
}

// newAdvisor builds the advisory client from flags and environment. The
// returned func releases the inference client.
func newAdvisor(ctx context.Context) (*advisory.Client, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := config.FromEnv(lookupEnv, "")
	if err != nil {
		return nil, nil, err
	}
	client, err := llm.NewClient(ctx, cfg.LLM.Client(), logger, nil)
	if err != nil {
		return nil, nil, err
	}
	adv, err := advisory.New(client, advisory.WithLogger(logger))
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Debug("advisor ready", zap.String("llm", client.Name()))
	return adv, func() { _ = client.Close() }, nil
}
