package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguin-assist/penguin/internal/agent"
	"github.com/penguin-assist/penguin/internal/config"
	"github.com/penguin-assist/penguin/internal/history"
	"github.com/penguin-assist/penguin/pkg/client"
	"github.com/penguin-assist/penguin/pkg/protocol"
)

type stubResponder struct {
	reply func(ctx context.Context, transcript []history.Message, sink agent.EventSink) (string, error)
}

func (r *stubResponder) Reply(ctx context.Context, transcript []history.Message, sink agent.EventSink) (string, error) {
	return r.reply(ctx, transcript, sink)
}

func fixedResponder(reply string) *stubResponder {
	return &stubResponder{reply: func(context.Context, []history.Message, agent.EventSink) (string, error) {
		return reply, nil
	}}
}

// startServer spins up a server on an httptest listener and dials it.
func startServer(t *testing.T, cfg *config.Config, responder Responder) (*Server, *client.Client) {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{}
	}
	srv, err := New(cfg, history.NewMemoryStore())
	require.NoError(t, err)
	srv.SetResponder(responder)

	httpSrv := httptest.NewServer(srv.Handler())
	t.Cleanup(httpSrv.Close)

	cl, err := client.Dial("ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws")
	require.NoError(t, err)
	t.Cleanup(func() { cl.Close() })

	return srv, cl
}

func TestChatStreamsReply(t *testing.T) {
	reply := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 5)
	_, cl := startServer(t, nil, fixedResponder(reply))

	require.NoError(t, cl.SendChat("what does ls do?"))

	var chunks []string
	for {
		msg, err := cl.Receive()
		require.NoError(t, err)

		if msg.Type == protocol.TypeStream {
			payload, err := protocol.ParseStreamPayload(msg)
			require.NoError(t, err)
			chunks = append(chunks, payload.Chunk)
			continue
		}

		require.Equal(t, protocol.TypeDone, msg.Type)
		payload, err := protocol.ParseDonePayload(msg)
		require.NoError(t, err)
		assert.Equal(t, reply, payload.Content)
		break
	}

	assert.Greater(t, len(chunks), 1, "long replies should arrive in pieces")
	assert.Equal(t, reply, strings.Join(chunks, ""))
}

func TestChatRecordsTranscript(t *testing.T) {
	_, cl := startServer(t, nil, fixedResponder("Use ls -la."))

	require.NoError(t, cl.SendChat("how do I list hidden files?"))
	reply, err := cl.ReadReply()
	require.NoError(t, err)
	require.Equal(t, "Use ls -la.", reply)

	require.NoError(t, cl.RequestHistory())
	msg, err := cl.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TypeHistory, msg.Type)

	payload, err := protocol.ParseHistoryPayload(msg)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.ConversationID)
	require.Len(t, payload.Messages, 2)
	assert.Equal(t, protocol.HistoryEntry{Role: history.RoleUser, Content: "how do I list hidden files?"}, payload.Messages[0])
	assert.Equal(t, protocol.HistoryEntry{Role: history.RoleAssistant, Content: "Use ls -la."}, payload.Messages[1])
}

func TestResponderReceivesTranscript(t *testing.T) {
	seen := make(chan []history.Message, 1)
	_, cl := startServer(t, nil, &stubResponder{
		reply: func(_ context.Context, transcript []history.Message, _ agent.EventSink) (string, error) {
			seen <- transcript
			return "ok", nil
		},
	})

	require.NoError(t, cl.SendChat("first question"))
	_, err := cl.ReadReply()
	require.NoError(t, err)

	transcript := <-seen
	require.Len(t, transcript, 1)
	assert.Equal(t, history.RoleUser, transcript[0].Role)
	assert.Equal(t, "first question", transcript[0].Content)
}

func TestClearWipesConversation(t *testing.T) {
	_, cl := startServer(t, nil, fixedResponder("noted"))

	require.NoError(t, cl.SendChat("remember this"))
	_, err := cl.ReadReply()
	require.NoError(t, err)

	require.NoError(t, cl.Clear())
	msg, err := cl.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeCleared, msg.Type)

	require.NoError(t, cl.RequestHistory())
	msg, err = cl.Receive()
	require.NoError(t, err)
	payload, err := protocol.ParseHistoryPayload(msg)
	require.NoError(t, err)
	assert.Empty(t, payload.Messages)
}

func TestUnknownTypeReportsError(t *testing.T) {
	_, cl := startServer(t, nil, fixedResponder("unused"))

	require.NoError(t, cl.Send(protocol.Message{Type: "bogus"}))
	msg, err := cl.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TypeError, msg.Type)

	payload, err := protocol.ParseErrorPayload(msg)
	require.NoError(t, err)
	assert.Contains(t, payload.Message, "Unknown message type")

	// The connection survives a bad message.
	require.NoError(t, cl.Ping())
	msg, err = cl.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.TypePong, msg.Type)
}

func TestMalformedChatPayloadReportsError(t *testing.T) {
	_, cl := startServer(t, nil, fixedResponder("unused"))

	require.NoError(t, cl.Send(protocol.Message{Type: protocol.TypeChat, Payload: []byte(`{"content": 42}`)}))
	msg, err := cl.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TypeError, msg.Type)

	require.NoError(t, cl.Ping())
	msg, err = cl.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.TypePong, msg.Type)
}

func TestEmptyChatRejected(t *testing.T) {
	_, cl := startServer(t, nil, fixedResponder("unused"))

	require.NoError(t, cl.SendChat(""))
	msg, err := cl.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TypeError, msg.Type)

	payload, err := protocol.ParseErrorPayload(msg)
	require.NoError(t, err)
	assert.Contains(t, payload.Message, "empty")
}

func TestBusySessionRejectsSecondChat(t *testing.T) {
	release := make(chan struct{})
	_, cl := startServer(t, nil, &stubResponder{
		reply: func(ctx context.Context, _ []history.Message, _ agent.EventSink) (string, error) {
			select {
			case <-release:
			case <-ctx.Done():
			}
			return "finally done", nil
		},
	})

	require.NoError(t, cl.SendChat("slow question"))
	require.NoError(t, cl.SendChat("impatient question"))

	msg, err := cl.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TypeError, msg.Type)
	payload, err := protocol.ParseErrorPayload(msg)
	require.NoError(t, err)
	assert.Contains(t, payload.Message, "already being generated")

	close(release)
	reply, err := cl.ReadReply()
	require.NoError(t, err)
	assert.Equal(t, "finally done", reply)
}

func TestGenerationFailureReportsError(t *testing.T) {
	_, cl := startServer(t, nil, &stubResponder{
		reply: func(context.Context, []history.Message, agent.EventSink) (string, error) {
			return "", fmt.Errorf("upstream unavailable")
		},
	})

	require.NoError(t, cl.SendChat("anything"))
	msg, err := cl.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TypeError, msg.Type)

	payload, err := protocol.ParseErrorPayload(msg)
	require.NoError(t, err)
	assert.Contains(t, payload.Message, "Generation failed")

	// The user message from the failed turn stays recorded.
	require.NoError(t, cl.RequestHistory())
	msg, err = cl.Receive()
	require.NoError(t, err)
	historyPayload, err := protocol.ParseHistoryPayload(msg)
	require.NoError(t, err)
	require.Len(t, historyPayload.Messages, 1)
	assert.Equal(t, history.RoleUser, historyPayload.Messages[0].Role)
}

func TestToolConfirmation(t *testing.T) {
	for _, approve := range []bool{true, false} {
		name := "denied"
		if approve {
			name = "approved"
		}

		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Tools.Confirm = true

			outcome := make(chan bool, 1)
			_, cl := startServer(t, cfg, &stubResponder{
				reply: func(_ context.Context, _ []history.Message, sink agent.EventSink) (string, error) {
					call := protocol.ToolCallInfo{ID: "tool-1", Name: "check_danger"}
					sink.ToolCalled(call)
					approved := sink.ConfirmTool(call)
					outcome <- approved
					sink.ToolReturned(protocol.ToolResultInfo{
						ID:     call.ID,
						Name:   call.Name,
						Output: "guidance",
						Denied: !approved,
					})
					return "done after tools", nil
				},
			})

			require.NoError(t, cl.SendChat("is rm -rf / safe?"))

			msg, err := cl.Receive()
			require.NoError(t, err)
			require.Equal(t, protocol.TypeToolCalls, msg.Type)
			calls, err := protocol.ParseToolCallsPayload(msg)
			require.NoError(t, err)
			require.Len(t, calls.Calls, 1)
			assert.True(t, calls.NeedsConfirm)
			assert.Equal(t, "tool-1", calls.Calls[0].ID)

			require.NoError(t, cl.ConfirmTool("tool-1", approve))

			msg, err = cl.Receive()
			require.NoError(t, err)
			require.Equal(t, protocol.TypeToolResults, msg.Type)
			results, err := protocol.ParseToolResultsPayload(msg)
			require.NoError(t, err)
			require.Len(t, results.Results, 1)
			assert.Equal(t, !approve, results.Results[0].Denied)

			reply, err := cl.ReadReply()
			require.NoError(t, err)
			assert.Equal(t, "done after tools", reply)
			assert.Equal(t, approve, <-outcome)
		})
	}
}

func TestConfirmUnknownToolReportsError(t *testing.T) {
	_, cl := startServer(t, nil, fixedResponder("unused"))

	require.NoError(t, cl.ConfirmTool("never-announced", true))
	msg, err := cl.Receive()
	require.NoError(t, err)
	require.Equal(t, protocol.TypeError, msg.Type)

	payload, err := protocol.ParseErrorPayload(msg)
	require.NoError(t, err)
	assert.Contains(t, payload.Message, "No pending tool call")
}

func TestReloadSignatures(t *testing.T) {
	srv, _ := startServer(t, nil, fixedResponder("unused"))

	require.True(t, srv.Classify("rm -rf /").HasDanger)
	assert.False(t, srv.Classify("ls -la").HasDanger)

	// Empty path means builtins only, so a reload is a no-op swap.
	require.NoError(t, srv.ReloadSignatures())
	assert.True(t, srv.Classify("rm -rf /").HasDanger)
}

func TestHealthEndpoint(t *testing.T) {
	srv, err := New(&config.Config{}, history.NewMemoryStore())
	require.NoError(t, err)

	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	resp, err := http.Get(httpSrv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestChunkReply(t *testing.T) {
	assert.Nil(t, chunkReply(""))

	chunks := chunkReply(strings.Repeat("a", 130))
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], streamChunkSize)
	assert.Len(t, chunks[2], 2)

	// Multibyte runes are never split mid-character.
	uni := strings.Repeat("ü", 70)
	parts := chunkReply(uni)
	require.Len(t, parts, 2)
	assert.Equal(t, uni, strings.Join(parts, ""))
}
