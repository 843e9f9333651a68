package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/internal/core/export"
)

var (
	exportOutput    string
	exportClipboard bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to CSV",
	Long: `Export all sessions to a CSV file with one row per session.

By default exports to punchcard-export.csv in the current directory.

Examples:
  punchcard export
  punchcard export --output ~/sessions.csv
  punchcard export --clipboard`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path (default: punchcard-export.csv)")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Copy CSV to the clipboard instead of writing a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.close()

	sessions, err := env.store.LoadAll(context.Background(), env.owner())
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sessions, time.Now()); err != nil {
		return fmt.Errorf("failed to build CSV: %w", err)
	}

	if exportClipboard {
		if err := clipboard.WriteAll(buf.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Printf("Copied %d session(s) to clipboard\n", len(sessions))
		return nil
	}

	outputPath := exportOutput
	if outputPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputPath = filepath.Join(cwd, "punchcard-export.csv")
	}

	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	fmt.Printf("Exported %d session(s) to: %s\n", len(sessions), outputPath)
	return nil
}
