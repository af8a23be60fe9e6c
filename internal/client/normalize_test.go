package client

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLegacyResult_SynthesizesTextFromToolResultMeta(t *testing.T) {
	result := &mcp.CallToolResult{
		Meta: &mcp.Meta{
			AdditionalFields: map[string]any{"toolResult": "legacy output"},
		},
	}

	normalizeLegacyResult(result)

	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.Equal(t, "legacy output", text.Text)
}

func TestNormalizeLegacyResult_NonStringToolResultIsJSONEncoded(t *testing.T) {
	result := &mcp.CallToolResult{
		Meta: &mcp.Meta{
			AdditionalFields: map[string]any{"toolResult": map[string]any{"ok": true}},
		},
	}

	normalizeLegacyResult(result)

	require.Len(t, result.Content, 1)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok)
	assert.JSONEq(t, `{"ok":true}`, text.Text)
}

func TestNormalizeLegacyResult_NoopWhenContentAlreadyPresent(t *testing.T) {
	existing := mcp.NewTextContent("already here")
	result := &mcp.CallToolResult{
		Meta:    &mcp.Meta{AdditionalFields: map[string]any{"toolResult": "ignored"}},
		Content: []mcp.Content{existing},
	}

	normalizeLegacyResult(result)

	require.Len(t, result.Content, 1)
	assert.Equal(t, existing, result.Content[0])
}

func TestNormalizeLegacyResult_NoopWhenNoMeta(t *testing.T) {
	result := &mcp.CallToolResult{}
	normalizeLegacyResult(result)
	assert.Empty(t, result.Content)
}

func TestNormalizeLegacyResult_NoopWhenMetaHasNoToolResultKey(t *testing.T) {
	result := &mcp.CallToolResult{
		Meta: &mcp.Meta{AdditionalFields: map[string]any{"other": "value"}},
	}
	normalizeLegacyResult(result)
	assert.Empty(t, result.Content)
}
