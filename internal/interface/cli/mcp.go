package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/punchcard-dev/punchcard/cmd/punchcard/mcp"
)

var mcpCmd = &cobra.Command{
	Use:     "serve-mcp",
	Aliases: []string{"mcp"},
	Short:   "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server that lets an AI
assistant start and stop sessions and query your tracked time.

Configure in the assistant's MCP config:
  {
    "mcpServers": {
      "punchcard": {
        "command": "punchcard",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if err := mcp.StartServer(dbPath); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
