package agent

import "github.com/penguin-assist/penguin/pkg/protocol"

// EventSink receives tool activity while a reply is being generated.
// Implementations are called from the generation goroutine.
type EventSink interface {
	// ToolCalled fires before a tool runs.
	ToolCalled(call protocol.ToolCallInfo)
	// ToolReturned fires after a tool finishes or is denied.
	ToolReturned(result protocol.ToolResultInfo)
	// ConfirmTool blocks until the user approves or denies the call. It is
	// only consulted when tool confirmation is enabled.
	ConfirmTool(call protocol.ToolCallInfo) bool
}

// NopSink discards tool events and approves every call.
type NopSink struct{}

func (NopSink) ToolCalled(protocol.ToolCallInfo)       {}
func (NopSink) ToolReturned(protocol.ToolResultInfo)   {}
func (NopSink) ConfirmTool(protocol.ToolCallInfo) bool { return true }
