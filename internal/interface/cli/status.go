package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running session, if any",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	active, err := env.store.Active(env.owner())
	if err != nil {
		return fmt.Errorf("failed to query active session: %w", err)
	}
	if len(active) == 0 {
		fmt.Println("Idle - no session running")
		return nil
	}

	session := active[0]
	fmt.Printf("Tracking %s (started %s)\n", session.Category, humanize.Time(session.StartTime))

	pending, err := env.store.PendingSync(env.owner())
	if err == nil && pending > 0 {
		fmt.Printf("%d change(s) not yet synced\n", pending)
	}
	return nil
}
