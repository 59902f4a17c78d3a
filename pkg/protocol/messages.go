// Package protocol defines the WebSocket messages exchanged between the
// penguin server and its clients.
package protocol

import (
	"encoding/json"
	"fmt"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	// Client -> Server
	TypeChat        MessageType = "chat"         // Client sends a chat message
	TypeClear       MessageType = "clear"        // Client wipes the conversation
	TypeGetHistory  MessageType = "get_history"  // Client requests the stored transcript
	TypeToolConfirm MessageType = "tool_confirm" // Client approves or denies a pending tool call
	TypePing        MessageType = "ping"         // Keep-alive

	// Server -> Client
	TypeHistory     MessageType = "history"      // Stored transcript for the conversation
	TypeStream      MessageType = "stream"       // Chunk of the assistant reply
	TypeDone        MessageType = "done"         // Reply finished, carries the full text
	TypeError       MessageType = "error"        // Error message
	TypeCleared     MessageType = "cleared"      // Conversation wiped
	TypeToolCalls   MessageType = "tool_calls"   // Tools the assistant is about to run
	TypeToolResults MessageType = "tool_results" // Outcomes of those tool runs
	TypePong        MessageType = "pong"         // Keep-alive response
)

// Message is the base WebSocket message structure
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ChatPayload sent by client to add a user message and request a reply
type ChatPayload struct {
	Content string `json:"content"`
}

// ToolConfirmPayload answers a pending tool confirmation
type ToolConfirmPayload struct {
	ID       string `json:"id"`
	Approved bool   `json:"approved"`
}

// HistoryEntry is one stored message in a conversation transcript
type HistoryEntry struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// HistoryPayload carries the stored transcript
type HistoryPayload struct {
	ConversationID string         `json:"conversation_id"`
	Messages       []HistoryEntry `json:"messages"`
}

// StreamPayload is one chunk of an in-flight assistant reply
type StreamPayload struct {
	Chunk string `json:"chunk"`
}

// DonePayload closes a reply with the fully assembled text
type DonePayload struct {
	Content string `json:"content"`
}

// ErrorPayload for error messages
type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ToolCallInfo describes one tool invocation surfaced to the client
type ToolCallInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input any    `json:"input,omitempty"`
}

// ToolCallsPayload announces tool invocations before they run
type ToolCallsPayload struct {
	Calls        []ToolCallInfo `json:"calls"`
	NeedsConfirm bool           `json:"needs_confirm,omitempty"`
}

// ToolResultInfo carries the outcome of a tool invocation
type ToolResultInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Output string `json:"output"`
	Denied bool   `json:"denied,omitempty"`
}

// ToolResultsPayload reports finished tool invocations
type ToolResultsPayload struct {
	Results []ToolResultInfo `json:"results"`
}

// Helper functions to create messages

func NewChatMessage(content string) Message {
	payload := ChatPayload{Content: content}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeChat, Payload: payloadBytes}
}

func NewClearMessage() Message {
	return Message{Type: TypeClear}
}

func NewGetHistoryMessage() Message {
	return Message{Type: TypeGetHistory}
}

func NewToolConfirmMessage(id string, approved bool) Message {
	payload := ToolConfirmPayload{ID: id, Approved: approved}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeToolConfirm, Payload: payloadBytes}
}

func NewPingMessage() Message {
	return Message{Type: TypePing}
}

func NewHistoryMessage(conversationID string, entries []HistoryEntry) Message {
	payload := HistoryPayload{
		ConversationID: conversationID,
		Messages:       entries,
	}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeHistory, Payload: payloadBytes}
}

func NewStreamMessage(chunk string) Message {
	payload := StreamPayload{Chunk: chunk}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeStream, Payload: payloadBytes}
}

func NewDoneMessage(content string) Message {
	payload := DonePayload{Content: content}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeDone, Payload: payloadBytes}
}

func NewErrorMessage(message string, err error) Message {
	errMsg := message
	if err != nil {
		errMsg = fmt.Sprintf("%s: %v", message, err)
	}
	payload := ErrorPayload{Message: errMsg}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeError, Payload: payloadBytes}
}

func NewClearedMessage() Message {
	return Message{Type: TypeCleared}
}

func NewToolCallsMessage(calls []ToolCallInfo, needsConfirm bool) Message {
	payload := ToolCallsPayload{
		Calls:        calls,
		NeedsConfirm: needsConfirm,
	}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeToolCalls, Payload: payloadBytes}
}

func NewToolResultsMessage(results []ToolResultInfo) Message {
	payload := ToolResultsPayload{Results: results}
	payloadBytes, _ := json.Marshal(payload)
	return Message{Type: TypeToolResults, Payload: payloadBytes}
}

func NewPongMessage() Message {
	return Message{Type: TypePong}
}

// ParseChatPayload extracts the chat payload from a message
func ParseChatPayload(msg Message) (*ChatPayload, error) {
	var payload ChatPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse chat payload: %w", err)
	}
	return &payload, nil
}

// ParseToolConfirmPayload extracts a tool confirmation answer from a message
func ParseToolConfirmPayload(msg Message) (*ToolConfirmPayload, error) {
	var payload ToolConfirmPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse tool_confirm payload: %w", err)
	}
	return &payload, nil
}

// ParseHistoryPayload extracts the transcript from a history message
func ParseHistoryPayload(msg Message) (*HistoryPayload, error) {
	var payload HistoryPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse history payload: %w", err)
	}
	return &payload, nil
}

// ParseStreamPayload extracts a reply chunk from a stream message
func ParseStreamPayload(msg Message) (*StreamPayload, error) {
	var payload StreamPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse stream payload: %w", err)
	}
	return &payload, nil
}

// ParseDonePayload extracts the full reply text from a done message
func ParseDonePayload(msg Message) (*DonePayload, error) {
	var payload DonePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse done payload: %w", err)
	}
	return &payload, nil
}

// ParseErrorPayload extracts the error text from an error message
func ParseErrorPayload(msg Message) (*ErrorPayload, error) {
	var payload ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse error payload: %w", err)
	}
	return &payload, nil
}

// ParseToolCallsPayload extracts announced tool invocations from a message
func ParseToolCallsPayload(msg Message) (*ToolCallsPayload, error) {
	var payload ToolCallsPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse tool_calls payload: %w", err)
	}
	return &payload, nil
}

// ParseToolResultsPayload extracts finished tool invocations from a message
func ParseToolResultsPayload(msg Message) (*ToolResultsPayload, error) {
	var payload ToolResultsPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse tool_results payload: %w", err)
	}
	return &payload, nil
}
