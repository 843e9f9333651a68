package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

var stopAt string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running session",
	Long: `Stop whichever session is currently running. Does nothing if no
session is active.

Examples:
  punchcard stop
  punchcard stop --at "5 minutes ago"`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
	stopCmd.Flags().StringVar(&stopAt, "at", "", "Backdate the stop time (natural language or timestamp)")
}

func runStop(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	ctx := context.Background()
	session, err := env.tracker.StopActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to stop session: %w", err)
	}
	if session == nil {
		fmt.Println("No session is running")
		return nil
	}

	if stopAt != "" {
		at, err := timeutil.ParseInstant(stopAt, *session.EndTime)
		if err != nil {
			return err
		}
		if at.After(time.Now()) {
			return fmt.Errorf("stop time cannot be in the future")
		}
		edited, err := env.tracker.Edit(ctx, session.ID, session.StartTime, &at)
		if err != nil {
			return fmt.Errorf("failed to backdate stop: %w", err)
		}
		session = edited
	}

	minutes := timeutil.WholeMinutes(session.Duration(*session.EndTime))
	fmt.Printf("Stopped %s after %d minutes\n", session.Category, minutes)
	return nil
}
