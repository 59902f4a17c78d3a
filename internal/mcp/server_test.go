package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguin-assist/penguin/internal/risk"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{})
	require.NoError(t, err)
	return s
}

func TestCheckFlagsDangerousCommand(t *testing.T) {
	s := newTestServer(t)

	result, out, err := s.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{Command: "rm -rf /"})
	require.NoError(t, err)
	assert.Nil(t, result)

	assert.True(t, out.HasDanger)
	require.Len(t, out.Findings, 2)
	assert.Equal(t, risk.LevelCritical, out.Findings[0].Level)
	assert.Equal(t, risk.LevelHigh, out.Findings[1].Level)
	assert.Contains(t, out.Guidance, "rm -rf /")
}

func TestCheckSafeCommand(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{Command: "ls -la"})
	require.NoError(t, err)
	assert.False(t, out.HasDanger)
	assert.Empty(t, out.Findings)
	assert.Contains(t, out.Guidance, "No obvious danger")
}

func TestCheckUsesSignaturePack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signatures.yaml")
	pack := `signatures:
  - pattern: '\bshred\b'
    level: high
    reason: Irreversibly erases file contents
`
	require.NoError(t, os.WriteFile(path, []byte(pack), 0o644))

	s, err := New(Config{SignaturesPath: path})
	require.NoError(t, err)

	_, out, err := s.handleCheck(context.Background(), &mcpsdk.CallToolRequest{}, CheckInput{Command: "shred -u notes.txt"})
	require.NoError(t, err)
	assert.True(t, out.HasDanger)
}

func TestNewRejectsBrokenPack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signatures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signatures: ["), 0o644))

	_, err := New(Config{SignaturesPath: path})
	assert.Error(t, err)
}

func TestExplainBuildsPrompt(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleExplain(context.Background(), &mcpsdk.CallToolRequest{}, ExplainInput{Command: "tar -xzf backup.tgz"})
	require.NoError(t, err)
	assert.Contains(t, out.Prompt, "tar -xzf backup.tgz")
}

func TestSuggestBuildsPrompt(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleSuggest(context.Background(), &mcpsdk.CallToolRequest{}, SuggestInput{Task: "find files larger than 100MB"})
	require.NoError(t, err)
	assert.Contains(t, out.Prompt, "find files larger than 100MB")
}
