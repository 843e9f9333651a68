package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/aggregate"
)

var statsGranularity string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate time statistics",
	Long: `Display per-bucket and per-category totals for a calendar window.

Granularities: day (category breakdown for today), week (trailing 7 days,
one bucket per day), month (current month, one bucket per week), year
(current year, one bucket per month).`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsGranularity, "granularity", "week", "Bucket granularity: day, week, month, or year")
}

func runStats(cmd *cobra.Command, args []string) error {
	granularity, err := aggregate.ParseGranularity(statsGranularity)
	if err != nil {
		return err
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	sessions, err := env.store.LoadAll(context.Background(), env.owner())
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	now := time.Now()
	report := aggregate.Build(sessions, now, granularity)

	fmt.Printf("Time tracked, %s of %s\n", granularity, now.Format("Jan 2, 2006"))
	fmt.Println(strings.Repeat("=", 40))
	fmt.Println()

	if report.TotalMinutes() == 0 {
		fmt.Println("Nothing tracked in this window")
		return nil
	}

	if granularity != aggregate.Day {
		maxMinutes := 0
		for _, b := range report.Buckets {
			if b.TotalMinutes > maxMinutes {
				maxMinutes = b.TotalMinutes
			}
		}
		for _, b := range report.Buckets {
			fmt.Printf("%-5s %s %s\n", b.Label, bar(b.TotalMinutes, maxMinutes, 30), formatMinutes(b.TotalMinutes))
		}
		fmt.Println()
	}

	fmt.Println("By category:")
	for _, entry := range sortedPie(report.Pie) {
		share := float64(entry.minutes) * 100 / float64(report.TotalMinutes())
		fmt.Printf("  %-16s %s (%.0f%%)\n", entry.category, formatMinutes(entry.minutes), share)
	}
	fmt.Println()
	fmt.Printf("Total: %s\n", formatMinutes(report.TotalMinutes()))

	return nil
}

type pieEntry struct {
	category string
	minutes  int
}

func sortedPie(pie map[string]int) []pieEntry {
	entries := make([]pieEntry, 0, len(pie))
	for category, minutes := range pie {
		entries = append(entries, pieEntry{category, minutes})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].minutes != entries[j].minutes {
			return entries[i].minutes > entries[j].minutes
		}
		return entries[i].category < entries[j].category
	})
	return entries
}

func bar(minutes, maxMinutes, width int) string {
	if maxMinutes == 0 {
		return strings.Repeat(" ", width)
	}
	filled := minutes * width / maxMinutes
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
