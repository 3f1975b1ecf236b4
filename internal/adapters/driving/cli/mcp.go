package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/batchwriter/internal/adapters/driving/mcp"
	"github.com/custodia-labs/batchwriter/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so an AI assistant can prepare
topics, submit jobs and read results.

By default the server talks JSON-RPC over stdio. Use --port to serve
streamable HTTP instead.

A submitted job keeps being followed while the server runs; stopping the
server leaves the job running on the generation server, and the next
'batchwriter resume' picks it up again.

Examples:
  # Stdio mode
  batchwriter mcp serve

  # HTTP mode
  batchwriter mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "batchwriter": {
        "command": "/path/to/batchwriter",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Workspace:    topicWorkspace,
		Orchestrator: jobOrchestrator,
		Resolver:     attachmentResolver,
		History:      historyService,
		Artifacts:    artifactService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	// Timestamp log lines while serving.
	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
