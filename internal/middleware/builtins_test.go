package middleware

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}
}

func onlyText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestStripJSONKeys(t *testing.T) {
	result, err := StripJSONKeys("any", textResult(`{"name": "x", "count": 3}`))
	require.NoError(t, err)
	assert.Equal(t, `{name: "x", count: 3}`, onlyText(t, result))
}

func TestStripResultWrapper_StringValue(t *testing.T) {
	result, err := StripResultWrapper("any", textResult(`{"result": "plain text"}`))
	require.NoError(t, err)
	assert.Equal(t, "plain text", onlyText(t, result))
}

func TestStripResultWrapper_ObjectValue(t *testing.T) {
	result, err := StripResultWrapper("any", textResult(`{"result": {"a": 1}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, onlyText(t, result))
}

func TestStripResultWrapper_NonMatchingTextPassesThrough(t *testing.T) {
	result, err := StripResultWrapper("any", textResult(`{"other": 1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"other": 1}`, onlyText(t, result))
}

func TestExtractJSONResults(t *testing.T) {
	result, err := ExtractJSONResults("any", textResult(`{"results": [1, 2, 3]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, onlyText(t, result))
}

func TestExtractJSONResults_NoResultsKeyPassesThrough(t *testing.T) {
	result, err := ExtractJSONResults("any", textResult(`{"other": 1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"other": 1}`, onlyText(t, result))
}

func TestMapTextBlocks_PassesNonTextBlocksThrough(t *testing.T) {
	result := &mcp.CallToolResult{Content: []mcp.Content{mcp.NewImageContent("abc", "image/png")}}
	out, err := StripJSONKeys("any", result)
	require.NoError(t, err)
	require.Len(t, out.Content, 1)
	_, ok := out.Content[0].(mcp.ImageContent)
	assert.True(t, ok)
}
