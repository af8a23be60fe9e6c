package client

import (
	"context"
	"fmt"

	"mcpd/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// SSEClient reaches a backend already running and listening over
// Server-Sent Events; it never owns a child process.
type SSEClient struct {
	base
	url string
}

func NewSSEClient(url string) *SSEClient {
	return &SSEClient{url: url}
}

func (c *SSEClient) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	logging.Debug("BackendClient", "connecting SSE backend %s", c.url)
	mcpClient, err := client.NewSSEMCPClient(c.url)
	if err != nil {
		return fmt.Errorf("create SSE client: %w", err)
	}
	if err := mcpClient.Start(ctx); err != nil {
		return fmt.Errorf("start SSE transport: %w", err)
	}

	if _, err := mcpClient.Initialize(ctx, mcp.InitializeRequest{
		Params: struct {
			ProtocolVersion string                 `json:"protocolVersion"`
			Capabilities    mcp.ClientCapabilities `json:"capabilities"`
			ClientInfo      mcp.Implementation     `json:"clientInfo"`
		}{
			ProtocolVersion: "2024-11-05",
			ClientInfo:      mcp.Implementation{Name: "mcpd", Version: "1.0.0"},
			Capabilities:    mcp.ClientCapabilities{},
		},
	}); err != nil {
		_ = mcpClient.Close()
		return fmt.Errorf("initialize MCP protocol over SSE: %w", err)
	}

	c.client = mcpClient
	c.connected = true
	return nil
}

func (c *SSEClient) Close() error { return c.closeClient() }

// PID is always 0: an SSE backend is a connection, not an owned process.
func (c *SSEClient) PID() int { return 0 }
