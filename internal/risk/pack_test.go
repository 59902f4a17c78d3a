package risk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signatures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppendsPackAfterBuiltins(t *testing.T) {
	path := writePack(t, `signatures:
  - pattern: '\bshred\b'
    level: high
    reason: Irreversibly erases file contents
`)

	cls, err := Load(path)
	require.NoError(t, err)

	result := cls.Classify("shred -u secrets.txt")
	require.Len(t, result.Findings, 1)
	assert.Equal(t, Finding{Level: LevelHigh, Reason: "Irreversibly erases file contents"}, result.Findings[0])

	combined := cls.Classify("rm -rf / && shred -u secrets.txt")
	require.Len(t, combined.Findings, 3)
	assert.Equal(t, "Deletes root filesystem", combined.Findings[0].Reason)
	assert.Equal(t, "Recursive force delete without confirmation", combined.Findings[1].Reason)
	assert.Equal(t, "Irreversibly erases file contents", combined.Findings[2].Reason)
}

func TestLoadEmptyPathUsesBuiltins(t *testing.T) {
	cls, err := Load("")
	require.NoError(t, err)
	assert.True(t, cls.Classify("rm -rf /tmp/cache").HasDanger)
	assert.False(t, cls.Classify("uptime").HasDanger)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedPack(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not yaml",
			content: "{signatures: [",
		},
		{
			name: "bad pattern",
			content: `signatures:
  - pattern: '(['
    level: high
    reason: broken
`,
		},
		{
			name: "unknown level",
			content: `signatures:
  - pattern: 'shred'
    level: catastrophic
    reason: nope
`,
		},
		{
			name: "missing reason",
			content: `signatures:
  - pattern: 'shred'
    level: high
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePack(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
