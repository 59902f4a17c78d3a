package history

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps transcripts in process memory. Used in tests and when
// running without a database file.
type MemoryStore struct {
	mu            sync.Mutex
	conversations map[string][]Message
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conversations: make(map[string][]Message)}
}

func (s *MemoryStore) Append(ctx context.Context, conversationID string, msg Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conversationID] = append(s.conversations[conversationID], msg)
	return nil
}

func (s *MemoryStore) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.conversations[conversationID]
	messages := make([]Message, len(stored))
	copy(messages, stored)
	return messages, nil
}

func (s *MemoryStore) Clear(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
