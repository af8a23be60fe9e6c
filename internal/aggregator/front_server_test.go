package aggregator

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpd/internal/middleware"
)

func TestFrontServer_BuildRegistersAllExposedTools(t *testing.T) {
	a := New()
	require.NoError(t, a.AddBackend(context.Background(), "svc", &fakeBackend{tools: []mcp.Tool{tool("ping")}}, nil))

	fs := NewFrontServer(a, nil)
	srv := fs.Build()
	require.NotNil(t, srv)
}

func TestFrontServer_CallToolHandlerAppliesMiddleware(t *testing.T) {
	a := New()
	backend := &fakeBackend{tools: []mcp.Tool{tool("ping")}}
	require.NoError(t, a.AddBackend(context.Background(), "svc", backend, nil))

	pipelines := map[string][]middleware.Middleware{
		"svc": {{
			Name: "suffix",
			Response: func(_ string, r *mcp.CallToolResult) (*mcp.CallToolResult, error) {
				tc := r.Content[0].(mcp.TextContent)
				return mcp.NewToolResultText(tc.Text + " [mw]"), nil
			},
		}},
	}
	fs := NewFrontServer(a, pipelines)
	fs.Build()

	handler := fs.callToolHandler("ping")
	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "ping", Arguments: map[string]interface{}{}},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "ping ok [mw]", tc.Text)
}
