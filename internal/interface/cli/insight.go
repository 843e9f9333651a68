package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/aggregate"
	"github.com/punchcard-dev/punchcard/internal/core/insights"
)

var insightGranularity string

var insightCmd = &cobra.Command{
	Use:   "insight [instruction]",
	Short: "Ask the configured model about your tracked time",
	Long: `Send the current window's sessions to the configured AI endpoint
with an optional instruction and print the answer.

Requires an [insights] endpoint in config.toml. Failures are reported as a
notice, never as a crash.

Examples:
  punchcard insight
  punchcard insight "which day was most fragmented?"
  punchcard insight --granularity month "how is the balance trending?"`,
	Args: cobra.ArbitraryArgs,
	RunE: runInsight,
}

func init() {
	rootCmd.AddCommand(insightCmd)
	insightCmd.Flags().StringVar(&insightGranularity, "granularity", "week", "Window to analyze: day, week, month, or year")
}

func runInsight(cmd *cobra.Command, args []string) error {
	granularity, err := aggregate.ParseGranularity(insightGranularity)
	if err != nil {
		return err
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	if !env.cfg.InsightsConfigured() {
		fmt.Println("No insights endpoint configured; add an [insights] section to config.toml")
		return nil
	}

	ctx := context.Background()
	sessions, err := env.store.LoadAll(ctx, env.owner())
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	// Only the sessions intersecting the window go to the model
	now := time.Now()
	windowStart, windowEnd := aggregate.Window(now, granularity)
	filtered := sessions[:0]
	for _, s := range sessions {
		end := now
		if s.EndTime != nil {
			end = *s.EndTime
		}
		if end.After(windowStart) && s.StartTime.Before(windowEnd) {
			filtered = append(filtered, s)
		}
	}

	provider := insights.NewHTTPProvider(env.cfg.Insights.Endpoint, env.cfg.Insights.APIKey, env.cfg.Insights.Model)
	analyzer := insights.NewAnalyzer(provider, env.cfg.InsightPromptTmpl)

	answer, err := analyzer.Analyze(ctx, filtered, strings.Join(args, " "), now)
	if err != nil {
		// Degrade, don't crash: tracking data is unaffected
		fmt.Printf("Analysis failed: %v\n", err)
		return nil
	}

	fmt.Println(answer)
	return nil
}
