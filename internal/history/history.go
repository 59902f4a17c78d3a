// Package history stores conversation transcripts.
package history

import (
	"context"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one stored entry of a conversation transcript.
type Message struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

// Store persists conversation transcripts keyed by conversation ID.
type Store interface {
	// Append adds a message to the end of a conversation.
	Append(ctx context.Context, conversationID string, msg Message) error
	// Messages returns a conversation's messages in insertion order.
	Messages(ctx context.Context, conversationID string) ([]Message, error)
	// Clear removes every message of a conversation.
	Clear(ctx context.Context, conversationID string) error
	// Close releases the underlying resources.
	Close() error
}
