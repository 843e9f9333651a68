package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

var (
	listLimit    int
	listCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long: `List tracked sessions in reverse chronological order.

Examples:
  punchcard list
  punchcard list --limit 10
  punchcard list --category Work`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	sessions, err := env.store.LoadAll(context.Background(), env.owner())
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	// Filtering and pagination are interface concerns
	if listCategory != "" {
		filtered := sessions[:0]
		for _, s := range sessions {
			if s.Category == listCategory {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}
	if len(sessions) > listLimit {
		sessions = sessions[:listLimit]
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions yet. Run 'punchcard start <category>' to begin.")
		return nil
	}

	now := time.Now()
	for _, s := range sessions {
		fmt.Println(formatSessionLine(s, now))
	}
	return nil
}

func formatSessionLine(s models.Session, now time.Time) string {
	minutes := timeutil.WholeMinutes(s.Duration(now))
	when := humanize.Time(s.StartTime)
	if s.Active() {
		return fmt.Sprintf("%-8s  %-16s %4dm  running (started %s)",
			shortID(s.ID), s.Category, minutes, when)
	}
	return fmt.Sprintf("%-8s  %-16s %4dm  %s", shortID(s.ID), s.Category, minutes, when)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
