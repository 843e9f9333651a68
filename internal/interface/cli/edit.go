package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

var (
	editStart  string
	editEnd    string
	editReopen bool
)

var editCmd = &cobra.Command{
	Use:   "edit <session-id>",
	Short: "Retroactively correct a session",
	Long: `Change a session's start and/or end time. Times accept natural
language or timestamps. --reopen clears the end time, making the session
active again; any other running session is stopped at that moment.

Examples:
  punchcard edit 0ccfddc4 --start "9am" --end "9:45"
  punchcard edit 0ccfddc4 --end "5 minutes ago"
  punchcard edit 0ccfddc4 --reopen`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editStart, "start", "", "New start time")
	editCmd.Flags().StringVar(&editEnd, "end", "", "New end time")
	editCmd.Flags().BoolVar(&editReopen, "reopen", false, "Clear the end time, re-activating the session")
}

func runEdit(cmd *cobra.Command, args []string) error {
	if editReopen && editEnd != "" {
		return fmt.Errorf("--reopen and --end are mutually exclusive")
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	session, err := resolveSession(env, args[0])
	if err != nil {
		return err
	}

	now := time.Now()
	newStart := session.StartTime
	if editStart != "" {
		if newStart, err = timeutil.ParseInstant(editStart, now); err != nil {
			return err
		}
	}

	newEnd := session.EndTime
	switch {
	case editReopen:
		newEnd = nil
	case editEnd != "":
		parsed, err := timeutil.ParseInstant(editEnd, now)
		if err != nil {
			return err
		}
		newEnd = &parsed
	}

	edited, err := env.tracker.Edit(context.Background(), session.ID, newStart, newEnd)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %s: %s\n", edited.Category, formatSessionLine(*edited, now))
	return nil
}
