package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Refresh the local cache from the remote backend",
	Long: `Fetch the session collection from the configured remote backend and
overwrite the local cache with it. Without a configured remote this just
reads the local cache.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	if !env.cfg.RemoteConfigured() {
		fmt.Println("No remote backend configured; running in local-only mode")
	}

	sessions, err := env.store.LoadAll(context.Background(), env.owner())
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	fmt.Printf("%d session(s) in cache\n", len(sessions))
	return nil
}
