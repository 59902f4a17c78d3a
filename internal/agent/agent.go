// Package agent drives the language model that answers Linux questions,
// exposing the risk classifier and prompt builders to it as tools.
package agent

import (
	"context"
	"fmt"
	"strings"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/openaicompat"

	"github.com/penguin-assist/penguin/internal/history"
	"github.com/penguin-assist/penguin/internal/risk"
)

const personaPrompt = `You are penguin, a Linux system administration assistant.

You help users understand shell commands, pick the right command for a task,
troubleshoot failures, and digest man pages. You have tools available; use
them instead of guessing:

1. Before discussing any command the user wants to RUN, call check_danger on
   it and fold the guidance it returns into your answer.
2. Use explain_command, suggest_command, troubleshoot_error and
   summarize_man_page to structure answers for those request types.
3. Use check_disk_usage when the user asks about disk space.

RULES:
- Never encourage running a command that check_danger flags without first
  walking through the risks it reports.
- Prefer concrete command lines over vague advice.
- Keep answers focused on Linux; say so when a question is out of scope.`

// Agent answers conversation turns using a chat-completion model
type Agent struct {
	model        fantasy.LanguageModel
	classify     func(command string) risk.Result
	confirmTools bool
}

// Config wires an Agent to a chat-completion provider and the classifier
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	Classify     func(command string) risk.Result
	ConfirmTools bool
}

// New connects to the configured provider and returns a ready Agent
func New(ctx context.Context, cfg Config) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Classify == nil {
		return nil, fmt.Errorf("classify function is required")
	}

	provider, err := openaicompat.New(
		openaicompat.WithBaseURL(cfg.BaseURL),
		openaicompat.WithAPIKey(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create language model: %w", err)
	}

	return &Agent{
		model:        model,
		classify:     cfg.Classify,
		confirmTools: cfg.ConfirmTools,
	}, nil
}

// Reply generates the assistant's next message for the given transcript.
// Tool activity is reported through sink while the reply is produced.
func (a *Agent) Reply(ctx context.Context, transcript []history.Message, sink EventSink) (string, error) {
	if sink == nil {
		sink = NopSink{}
	}

	ai := fantasy.NewAgent(
		a.model,
		fantasy.WithSystemPrompt(personaPrompt),
		fantasy.WithTools(
			fantasy.NewAgentTool(
				"explain_command",
				`Break down what a Linux command does, flag by flag.`,
				a.explainTool(sink),
			),
			fantasy.NewAgentTool(
				"suggest_command",
				`Suggest a command line for a task described in plain language.`,
				a.suggestTool(sink),
			),
			fantasy.NewAgentTool(
				"check_danger",
				`Check a command against known danger signatures before the user runs it.`,
				a.checkDangerTool(sink),
			),
			fantasy.NewAgentTool(
				"troubleshoot_error",
				`Diagnose why a command failed from its error output.`,
				a.troubleshootTool(sink),
			),
			fantasy.NewAgentTool(
				"summarize_man_page",
				`Summarize the man page for a command.`,
				a.manPageTool(sink),
			),
			fantasy.NewAgentTool(
				"check_disk_usage",
				`Report disk usage for a path.`,
				a.diskUsageTool(sink),
			),
		),
	)

	result, err := ai.Generate(ctx, fantasy.AgentCall{
		Prompt: renderTranscript(transcript),
	})
	if err != nil {
		return "", fmt.Errorf("agent generation failed: %w", err)
	}

	return result.Response.Content.Text(), nil
}

// renderTranscript flattens the stored conversation into a single prompt
func renderTranscript(transcript []history.Message) string {
	var sb strings.Builder

	sb.WriteString("Conversation so far:\n\n")
	for _, msg := range transcript {
		switch msg.Role {
		case history.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("\nReply to the latest user message. Use your tools when they help.")

	return sb.String()
}
