package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/canvas/internal/mcp"
	"github.com/ziadkadry99/canvas/internal/snippets"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing preview composition, export and snippet tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		lib, err := snippets.Open(cfg.Snippets.Dir, cfg.Snippets.Include)
		if err != nil {
			return fmt.Errorf("loading snippets: %w", err)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "canvas MCP server started on stdio (snippets=%d)\n", len(lib.Names()))

		srv := mcpserver.NewServer(cfg.Export.Title, lib)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
