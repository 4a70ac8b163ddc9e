package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extract-method/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing the extract_method tools",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
analyze, preview and apply extractions.

The MCP server:
- Provides extract_method_analyze, extract_method_preview and extract_method_apply
- Caches parsed files by content for the life of the session
- Communicates via stdio (standard MCP transport)

Example:
  extract-method mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, Version, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	// Serve (blocks until shutdown)
	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
