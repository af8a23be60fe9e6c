package client

import (
	"context"
	"fmt"
	"time"

	"mcpd/pkg/logging"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultStdioInitTimeout bounds how long the handshake over a freshly
// spawned child's stdin/stdout may take.
const DefaultStdioInitTimeout = 10 * time.Second

// StdioClient owns a child process reached over stdin/stdout framing.
// Closing it terminates the child.
type StdioClient struct {
	base
	command string
	args    []string
	cwd     string
	env     map[string]string
	pid     int
}

// NewStdioClient constructs a client that will spawn command on Initialize.
//
// cwd is recorded but not applied: mcp-go's client.NewStdioMCPClient takes
// only a command, an environment, and args, with no working-directory
// option, so a configured cwd has no effect until this client spawns the
// child itself instead of delegating to that constructor.
func NewStdioClient(command string, args []string, cwd string, env map[string]string) *StdioClient {
	return &StdioClient{command: command, args: args, cwd: cwd, env: env}
}

func (c *StdioClient) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected {
		return nil
	}

	var envStrings []string
	for k, v := range c.env {
		envStrings = append(envStrings, fmt.Sprintf("%s=%s", k, v))
	}

	logging.Debug("BackendClient", "spawning stdio backend %s %v", c.command, c.args)
	mcpClient, err := client.NewStdioMCPClient(c.command, envStrings, c.args...)
	if err != nil {
		return fmt.Errorf("create stdio client: %w", err)
	}

	initCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		initCtx, cancel = context.WithTimeout(ctx, DefaultStdioInitTimeout)
		defer cancel()
	}

	if _, err := mcpClient.Initialize(initCtx, mcp.InitializeRequest{
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
		return fmt.Errorf("initialize MCP protocol over stdio: %w", err)
	}

	c.client = mcpClient
	c.connected = true
	return nil
}

func (c *StdioClient) Close() error { return c.closeClient() }

// PID returns the spawned child's process id, or 0 if unknown.
//
// mcp-go's stdio transport doesn't expose the child's pid through its
// public API, so this client can't populate it directly; it reports 0
// unless SetPID has been called. Nothing in this module calls SetPID, so
// `mcpd start` registers stdio backends with the supervisor under pid 0.
func (c *StdioClient) PID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pid
}

// SetPID lets a caller that controls the underlying process (rather than
// mcp-go's internal spawn) record the pid for registerPid reconciliation.
func (c *StdioClient) SetPID(pid int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pid = pid
}
