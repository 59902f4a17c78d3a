package agent

import (
	"context"

	"charm.land/fantasy"
	"github.com/google/uuid"

	"github.com/penguin-assist/penguin/internal/prompt"
	"github.com/penguin-assist/penguin/pkg/protocol"
)

const declinedNote = "The user declined this tool call. Continue without its output."

type ExplainInput struct {
	Command string `json:"command"`
}

type SuggestInput struct {
	Task string `json:"task"`
}

type CheckDangerInput struct {
	Command string `json:"command"`
}

type TroubleshootInput struct {
	Command     string `json:"command"`
	ErrorOutput string `json:"error_output"`
}

type ManPageInput struct {
	Name string `json:"name"`
}

type DiskUsageInput struct {
	Path string `json:"path"`
}

// runTool announces the call, waits for approval when confirmation is on,
// then runs it and reports the outcome through the sink.
func (a *Agent) runTool(sink EventSink, name string, input any, run func() string) (fantasy.ToolResponse, error) {
	call := protocol.ToolCallInfo{
		ID:    uuid.New().String(),
		Name:  name,
		Input: input,
	}
	sink.ToolCalled(call)

	if a.confirmTools && !sink.ConfirmTool(call) {
		sink.ToolReturned(protocol.ToolResultInfo{
			ID:     call.ID,
			Name:   name,
			Output: declinedNote,
			Denied: true,
		})
		return fantasy.ToolResponse{
			Type:    string(fantasy.ContentTypeText),
			Content: declinedNote,
		}, nil
	}

	output := run()
	sink.ToolReturned(protocol.ToolResultInfo{
		ID:     call.ID,
		Name:   name,
		Output: output,
	})
	return fantasy.ToolResponse{
		Type:    string(fantasy.ContentTypeText),
		Content: output,
	}, nil
}

func (a *Agent) explainTool(sink EventSink) func(context.Context, ExplainInput, fantasy.ToolCall) (fantasy.ToolResponse, error) {
	return func(_ context.Context, input ExplainInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
		return a.runTool(sink, "explain_command", input, func() string {
			return prompt.ExplainCommand(input.Command)
		})
	}
}

func (a *Agent) suggestTool(sink EventSink) func(context.Context, SuggestInput, fantasy.ToolCall) (fantasy.ToolResponse, error) {
	return func(_ context.Context, input SuggestInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
		return a.runTool(sink, "suggest_command", input, func() string {
			return prompt.SuggestCommand(input.Task)
		})
	}
}

func (a *Agent) checkDangerTool(sink EventSink) func(context.Context, CheckDangerInput, fantasy.ToolCall) (fantasy.ToolResponse, error) {
	return func(_ context.Context, input CheckDangerInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
		return a.runTool(sink, "check_danger", input, func() string {
			return a.classify(input.Command).Guidance
		})
	}
}

func (a *Agent) troubleshootTool(sink EventSink) func(context.Context, TroubleshootInput, fantasy.ToolCall) (fantasy.ToolResponse, error) {
	return func(_ context.Context, input TroubleshootInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
		return a.runTool(sink, "troubleshoot_error", input, func() string {
			return prompt.TroubleshootError(input.Command, input.ErrorOutput)
		})
	}
}

func (a *Agent) manPageTool(sink EventSink) func(context.Context, ManPageInput, fantasy.ToolCall) (fantasy.ToolResponse, error) {
	return func(_ context.Context, input ManPageInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
		return a.runTool(sink, "summarize_man_page", input, func() string {
			return prompt.SummarizeManPage(input.Name)
		})
	}
}

func (a *Agent) diskUsageTool(sink EventSink) func(context.Context, DiskUsageInput, fantasy.ToolCall) (fantasy.ToolResponse, error) {
	return func(_ context.Context, input DiskUsageInput, _ fantasy.ToolCall) (fantasy.ToolResponse, error) {
		return a.runTool(sink, "check_disk_usage", input, func() string {
			return prompt.DiskUsageReport(input.Path)
		})
	}
}
