package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

var startAt string

var startCmd = &cobra.Command{
	Use:   "start <category>",
	Short: "Start tracking a category",
	Long: `Start a new session for a category. Any session already running is
stopped first; you can only be doing one thing at a time.

Examples:
  punchcard start Work
  punchcard start Exercise --at "10 minutes ago"`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().StringVar(&startAt, "at", "", "Backdate the start time (natural language or timestamp)")
}

func runStart(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	var session models.Session
	if startAt != "" {
		now := time.Now()
		at, err := timeutil.ParseInstant(startAt, now)
		if err != nil {
			return err
		}
		if at.After(now) {
			return fmt.Errorf("start time cannot be in the future")
		}
		session, err = env.tracker.StartAt(ctx, args[0], at)
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	} else {
		session, err = env.tracker.Start(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
	}

	fmt.Printf("Started %s at %s\n", session.Category, session.StartTime.Format("15:04"))
	return nil
}
