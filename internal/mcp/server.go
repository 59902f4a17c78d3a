// Package mcp exposes the classifier and prompt helpers over the Model
// Context Protocol so other agent runtimes can call them.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/penguin-assist/penguin/internal/risk"
)

// Config holds MCP server configuration.
type Config struct {
	SignaturesPath string
}

// Server wraps the MCP SDK server around the offline penguin tools. No
// completion provider is involved; every tool is a pure function.
type Server struct {
	mcpServer  *mcpsdk.Server
	classifier *risk.Classifier
}

// New creates an MCP server with the signature table loaded from cfg.
func New(cfg Config) (*Server, error) {
	classifier, err := risk.Load(cfg.SignaturesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load signatures: %w", err)
	}

	s := &Server{classifier: classifier}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "penguin",
			Version: "0.1.0",
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport. Blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds the penguin tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "penguin_check",
		Description: "Classify a shell command against the danger signature table. Returns every matching finding plus guidance text.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "penguin_explain",
		Description: "Build an explanation prompt for a shell command, ready to hand to a language model.",
	}, s.handleExplain)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "penguin_suggest",
		Description: "Build a prompt asking for a shell command that accomplishes the given task.",
	}, s.handleSuggest)
}
