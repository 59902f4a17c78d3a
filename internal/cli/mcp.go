package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	penguinmcp "github.com/penguin-assist/penguin/internal/mcp"
)

var mcpSignatures string

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVar(&mcpSignatures, "signatures", "", "Path to extra signature pack YAML")
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long:  "Runs penguin as an MCP (Model Context Protocol) server over stdio.\nExposes the offline tools: penguin_check, penguin_explain, penguin_suggest.",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	srv, err := penguinmcp.New(penguinmcp.Config{SignaturesPath: mcpSignatures})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down MCP server...")
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "penguin MCP server running on stdio")
	return srv.Run(ctx)
}
