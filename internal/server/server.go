// Package server exposes penguin over a WebSocket endpoint.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/penguin-assist/penguin/internal/agent"
	"github.com/penguin-assist/penguin/internal/config"
	"github.com/penguin-assist/penguin/internal/history"
	"github.com/penguin-assist/penguin/internal/risk"
)

// Responder produces the assistant reply for a transcript. Implemented by
// agent.Agent.
type Responder interface {
	Reply(ctx context.Context, transcript []history.Message, sink agent.EventSink) (string, error)
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server owns the state shared by every WebSocket session.
type Server struct {
	cfg        *config.Config
	store      history.Store
	responder  Responder
	classifier atomic.Pointer[risk.Classifier]
}

// New builds a server around the given transcript store. The signature pack
// referenced by cfg is loaded immediately; a broken pack fails startup.
func New(cfg *config.Config, store history.Store) (*Server, error) {
	cls, err := risk.Load(cfg.Signatures.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load signatures: %w", err)
	}

	s := &Server{cfg: cfg, store: store}
	s.classifier.Store(cls)
	return s, nil
}

// SetResponder installs the reply generator used by chat sessions. Must be
// called before the server starts accepting connections.
func (s *Server) SetResponder(r Responder) {
	s.responder = r
}

// Classify runs the currently loaded signature table against a command.
func (s *Server) Classify(command string) risk.Result {
	return s.classifier.Load().Classify(command)
}

// ReloadSignatures re-reads the signature pack and swaps the classifier.
// On failure the previous table keeps serving.
func (s *Server) ReloadSignatures() error {
	cls, err := risk.Load(s.cfg.Signatures.Path)
	if err != nil {
		return fmt.Errorf("failed to reload signatures: %w", err)
	}
	s.classifier.Store(cls)
	return nil
}

func (s *Server) confirmTools() bool {
	return s.cfg.Tools.Confirm
}

// Handler returns the HTTP handler exposing /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/ws", s.serveWs)
	return mux
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ERROR] Failed to upgrade connection: %v", err)
		return
	}

	session := newSession(conn, s)
	log.Printf("[INFO] Session %s connected", session.conversationID)

	// Start goroutines for reading and writing
	go session.writePump()
	go session.readPump()
}
