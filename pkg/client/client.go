// Package client is a small WebSocket client for the penguin server.
package client

import (
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/penguin-assist/penguin/pkg/protocol"
)

// Client is a connected penguin session.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a penguin server. url is the full WebSocket URL,
// e.g. ws://localhost:8080/ws.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// SendChat submits a user message for a reply.
func (c *Client) SendChat(content string) error {
	return c.conn.WriteJSON(protocol.NewChatMessage(content))
}

// Clear wipes the server-side conversation.
func (c *Client) Clear() error {
	return c.conn.WriteJSON(protocol.NewClearMessage())
}

// RequestHistory asks for the stored transcript.
func (c *Client) RequestHistory() error {
	return c.conn.WriteJSON(protocol.NewGetHistoryMessage())
}

// ConfirmTool answers a pending tool confirmation.
func (c *Client) ConfirmTool(id string, approved bool) error {
	return c.conn.WriteJSON(protocol.NewToolConfirmMessage(id, approved))
}

// Ping sends a keep-alive probe.
func (c *Client) Ping() error {
	return c.conn.WriteJSON(protocol.NewPingMessage())
}

// Send transmits a raw protocol message.
func (c *Client) Send(msg protocol.Message) error {
	return c.conn.WriteJSON(msg)
}

// Receive blocks until the next server message arrives.
func (c *Client) Receive() (protocol.Message, error) {
	var msg protocol.Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return protocol.Message{}, fmt.Errorf("failed to read message: %w", err)
	}
	return msg, nil
}

// ReadReply consumes server messages until the in-flight reply completes and
// returns its full text. Stream chunks, tool events and keep-alives are
// passed over; an error event aborts the read.
func (c *Client) ReadReply() (string, error) {
	for {
		msg, err := c.Receive()
		if err != nil {
			return "", err
		}

		switch msg.Type {
		case protocol.TypeStream, protocol.TypeToolCalls, protocol.TypeToolResults, protocol.TypePong:
			continue
		case protocol.TypeDone:
			payload, err := protocol.ParseDonePayload(msg)
			if err != nil {
				return "", err
			}
			return payload.Content, nil
		case protocol.TypeError:
			payload, err := protocol.ParseErrorPayload(msg)
			if err != nil {
				return "", err
			}
			return "", fmt.Errorf("server error: %s", payload.Message)
		}
	}
}

// Close tears down the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
