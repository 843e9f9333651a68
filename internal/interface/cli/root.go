package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/config"
	"github.com/punchcard-dev/punchcard/internal/core/db"
	"github.com/punchcard-dev/punchcard/internal/core/remote"
	"github.com/punchcard-dev/punchcard/internal/core/store"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
	"github.com/punchcard-dev/punchcard/internal/core/tracker"
)

var (
	dbPath      string
	versionInfo string
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "punchcard",
	Short: "Personal time tracker",
	Long: `punchcard - track your time by category, from the terminal

Start and stop timed sessions, browse the timeline, and see where the
hours went. Works fully offline; optionally syncs to a hosted backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to TUI if no subcommand specified
		return tuiCmd.RunE(cmd, args)
	},
}

func init() {
	// Global flags
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	defaultDB := filepath.Join(home, ".config", "punchcard", "punchcard.db")

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Database path")
}

// env bundles the handles a command needs: config, the open local cache, the
// session store, and the invariant-enforcing tracker.
type env struct {
	cfg     *config.Config
	db      *db.DB
	store   *store.Store
	tracker *tracker.Tracker
}

// openEnv wires the process: config decides whether a remote backend exists;
// everything else is the same either way.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var backend remote.Backend
	if cfg.RemoteConfigured() {
		backend = remote.NewHTTP(cfg.Remote.URL, cfg.Remote.Token)
	}

	st := store.New(database, backend, timeutil.SystemClock{})
	return &env{
		cfg:     cfg,
		db:      database,
		store:   st,
		tracker: tracker.New(st, cfg.Remote.Owner),
	}, nil
}

// close flushes in-flight remote writes, surfaces any sync failures as
// notices, and closes the database. Sync failures never change the exit
// status.
func (e *env) close() {
	e.store.Flush()
	for {
		select {
		case syncErr := <-e.store.SyncErrors():
			fmt.Fprintf(os.Stderr, "note: %v (local copy saved)\n", syncErr)
		default:
			e.db.Close()
			return
		}
	}
}

func (e *env) owner() string {
	return e.cfg.Remote.Owner
}
