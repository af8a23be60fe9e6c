package aggregator

import (
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"mcpd/internal/client"
)

// backendInfo holds one registered backend's client plus its cached tool
// inventory. Tools are fetched once, when the backend is registered.
type backendInfo struct {
	name         string
	client       client.BackendClient
	excludeTools map[string]struct{}
	registeredAt time.Time

	mu      sync.RWMutex
	tools   []mcp.Tool
	offline bool
}

func (b *backendInfo) isExcluded(toolName string) bool {
	if len(b.excludeTools) == 0 {
		return false
	}
	_, excluded := b.excludeTools[toolName]
	return excluded
}

func (b *backendInfo) setTools(tools []mcp.Tool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tools = tools
}

func (b *backendInfo) getTools() []mcp.Tool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]mcp.Tool, len(b.tools))
	copy(out, b.tools)
	return out
}

// ExposedTool is a tool as presented by listAllTools: its external name
// (possibly service-prefixed), plus the routing fields needed to recover
// which backend and original tool name it came from.
type ExposedTool struct {
	mcp.Tool
	Service      string
	OriginalName string
}
