package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/penguin-assist/penguin/internal/prompt"
	"github.com/penguin-assist/penguin/internal/risk"
)

// --- Input/Output types ---

// CheckInput defines parameters for the penguin_check tool.
type CheckInput struct {
	Command string `json:"command" jsonschema:"shell command to classify"`
}

// CheckOutput carries the classification verdict.
type CheckOutput struct {
	Command   string         `json:"command"`
	HasDanger bool           `json:"has_danger"`
	Findings  []risk.Finding `json:"findings,omitempty"`
	Guidance  string         `json:"guidance"`
}

// ExplainInput defines parameters for the penguin_explain tool.
type ExplainInput struct {
	Command string `json:"command" jsonschema:"shell command to explain"`
}

// SuggestInput defines parameters for the penguin_suggest tool.
type SuggestInput struct {
	Task string `json:"task" jsonschema:"what the command should accomplish"`
}

// PromptOutput carries a ready-to-use model prompt.
type PromptOutput struct {
	Prompt string `json:"prompt"`
}

// --- Handlers ---

func (s *Server) handleCheck(ctx context.Context, req *mcpsdk.CallToolRequest, input CheckInput) (*mcpsdk.CallToolResult, CheckOutput, error) {
	result := s.classifier.Classify(input.Command)
	return nil, CheckOutput{
		Command:   result.Command,
		HasDanger: result.HasDanger,
		Findings:  result.Findings,
		Guidance:  result.Guidance,
	}, nil
}

func (s *Server) handleExplain(ctx context.Context, req *mcpsdk.CallToolRequest, input ExplainInput) (*mcpsdk.CallToolResult, PromptOutput, error) {
	return nil, PromptOutput{Prompt: prompt.ExplainCommand(input.Command)}, nil
}

func (s *Server) handleSuggest(ctx context.Context, req *mcpsdk.CallToolRequest, input SuggestInput) (*mcpsdk.CallToolResult, PromptOutput, error) {
	return nil, PromptOutput{Prompt: prompt.SuggestCommand(input.Task)}, nil
}
