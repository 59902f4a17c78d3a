package server

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/penguin-assist/penguin/internal/history"
	"github.com/penguin-assist/penguin/pkg/protocol"
)

// streamChunkSize is how many runes of the reply each stream event carries.
const streamChunkSize = 64

// Session represents a connected WebSocket client and its conversation.
type Session struct {
	conn           *websocket.Conn
	srv            *Server
	send           chan protocol.Message
	conversationID string

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	busy     bool // one reply generated at a time
	confirms map[string]chan bool
}

func newSession(conn *websocket.Conn, srv *Server) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		conn:           conn,
		srv:            srv,
		send:           make(chan protocol.Message, 256),
		conversationID: uuid.New().String(),
		ctx:            ctx,
		cancel:         cancel,
		confirms:       make(map[string]chan bool),
	}
}

// SendMessage queues msg for delivery, dropping it when the client cannot
// keep up.
func (s *Session) SendMessage(msg protocol.Message) {
	select {
	case s.send <- msg:
	default:
		log.Printf("[WARN] Session %s send buffer full, dropping %s", s.conversationID, msg.Type)
	}
}

func (s *Session) SendError(message string, err error) {
	s.SendMessage(protocol.NewErrorMessage(message, err))
}

func (s *Session) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.conn.WriteJSON(msg); err != nil {
				log.Printf("[ERROR] Session %s write failed: %v", s.conversationID, err)
				return
			}

		case <-ticker.C:
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) readPump() {
	defer func() {
		s.cancel()
		s.conn.Close()
		log.Printf("[INFO] Session %s disconnected", s.conversationID)
	}()

	for {
		var msg protocol.Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[ERROR] Session %s read failed: %v", s.conversationID, err)
			}
			return
		}

		switch msg.Type {
		case protocol.TypeChat:
			s.handleChat(msg)
		case protocol.TypeClear:
			s.handleClear()
		case protocol.TypeGetHistory:
			s.handleGetHistory()
		case protocol.TypeToolConfirm:
			s.handleToolConfirm(msg)
		case protocol.TypePing:
			s.SendMessage(protocol.NewPongMessage())
		default:
			s.SendError(fmt.Sprintf("Unknown message type: %s", msg.Type), nil)
		}
	}
}

func (s *Session) handleChat(msg protocol.Message) {
	payload, err := protocol.ParseChatPayload(msg)
	if err != nil {
		s.SendError("Failed to parse chat request", err)
		return
	}
	if payload.Content == "" {
		s.SendError("Chat message is empty", nil)
		return
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		s.SendError("A reply is already being generated", nil)
		return
	}
	s.busy = true
	s.mu.Unlock()

	if err := s.srv.store.Append(s.ctx, s.conversationID, history.Message{
		Role:    history.RoleUser,
		Content: payload.Content,
	}); err != nil {
		s.setIdle()
		s.SendError("Failed to record message", err)
		return
	}

	// Off the read loop, so tool confirmations can still arrive.
	go s.generate()
}

func (s *Session) setIdle() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// generate produces one assistant reply: stream chunks, then done carrying
// the full text. The reply is recorded before done goes out.
func (s *Session) generate() {
	defer s.setIdle()

	transcript, err := s.srv.store.Messages(s.ctx, s.conversationID)
	if err != nil {
		s.SendError("Failed to load history", err)
		return
	}

	reply, err := s.srv.responder.Reply(s.ctx, transcript, s)
	if err != nil {
		if s.ctx.Err() != nil {
			return // client went away
		}
		log.Printf("[ERROR] Session %s generation failed: %v", s.conversationID, err)
		s.SendError("Generation failed", err)
		return
	}

	for _, chunk := range chunkReply(reply) {
		s.SendMessage(protocol.NewStreamMessage(chunk))
	}

	if err := s.srv.store.Append(s.ctx, s.conversationID, history.Message{
		Role:    history.RoleAssistant,
		Content: reply,
	}); err != nil {
		log.Printf("[WARN] Session %s failed to record reply: %v", s.conversationID, err)
	}

	s.SendMessage(protocol.NewDoneMessage(reply))
}

func (s *Session) handleClear() {
	if err := s.srv.store.Clear(s.ctx, s.conversationID); err != nil {
		s.SendError("Failed to clear conversation", err)
		return
	}
	s.SendMessage(protocol.NewClearedMessage())
}

func (s *Session) handleGetHistory() {
	messages, err := s.srv.store.Messages(s.ctx, s.conversationID)
	if err != nil {
		s.SendError("Failed to load history", err)
		return
	}

	entries := make([]protocol.HistoryEntry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, protocol.HistoryEntry{Role: msg.Role, Content: msg.Content})
	}
	s.SendMessage(protocol.NewHistoryMessage(s.conversationID, entries))
}

func (s *Session) handleToolConfirm(msg protocol.Message) {
	payload, err := protocol.ParseToolConfirmPayload(msg)
	if err != nil {
		s.SendError("Failed to parse tool_confirm request", err)
		return
	}

	s.mu.Lock()
	ch, ok := s.confirms[payload.ID]
	s.mu.Unlock()
	if !ok {
		s.SendError(fmt.Sprintf("No pending tool call with id %s", payload.ID), nil)
		return
	}

	select {
	case ch <- payload.Approved:
	default:
		// Already answered.
	}
}

// ToolCalled relays a tool announcement to the client. When confirmation is
// on, the pending entry is registered first so an answer can never beat it.
func (s *Session) ToolCalled(call protocol.ToolCallInfo) {
	if s.srv.confirmTools() {
		s.mu.Lock()
		if _, ok := s.confirms[call.ID]; !ok {
			s.confirms[call.ID] = make(chan bool, 1)
		}
		s.mu.Unlock()
	}
	s.SendMessage(protocol.NewToolCallsMessage([]protocol.ToolCallInfo{call}, s.srv.confirmTools()))
}

// ToolReturned relays a finished tool invocation to the client.
func (s *Session) ToolReturned(result protocol.ToolResultInfo) {
	s.SendMessage(protocol.NewToolResultsMessage([]protocol.ToolResultInfo{result}))
}

// ConfirmTool blocks until the client answers with tool_confirm. A dropped
// connection counts as denial.
func (s *Session) ConfirmTool(call protocol.ToolCallInfo) bool {
	s.mu.Lock()
	ch, ok := s.confirms[call.ID]
	if !ok {
		ch = make(chan bool, 1)
		s.confirms[call.ID] = ch
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.confirms, call.ID)
		s.mu.Unlock()
	}()

	select {
	case approved := <-ch:
		return approved
	case <-s.ctx.Done():
		return false
	}
}

// chunkReply splits a reply into rune-safe stream chunks.
func chunkReply(reply string) []string {
	runes := []rune(reply)
	var chunks []string
	for start := 0; start < len(runes); start += streamChunkSize {
		end := start + streamChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
