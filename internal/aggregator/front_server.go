package aggregator

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"mcpd/internal/middleware"
	"mcpd/pkg/logging"
)

// FrontServer binds an Aggregator to an MCP server exposed over stdio,
// applying each tool's origin-service middleware chain to its results.
type FrontServer struct {
	agg       *Aggregator
	pipelines map[string][]middleware.Middleware
	mcpServer *mcpserver.MCPServer
}

// NewFrontServer builds a FrontServer. pipelines maps a service name to
// its configured response middleware chain; a service absent from the
// map runs no middleware.
func NewFrontServer(agg *Aggregator, pipelines map[string][]middleware.Middleware) *FrontServer {
	return &FrontServer{agg: agg, pipelines: pipelines}
}

// Build constructs the underlying mcp-go server and registers every tool
// currently known to the aggregator. Call this after the backends that
// will serve the session have been added.
func (f *FrontServer) Build() *mcpserver.MCPServer {
	srv := mcpserver.NewMCPServer(
		"mcpd",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	tools := f.agg.ListAllTools()
	serverTools := make([]mcpserver.ServerTool, 0, len(tools))
	for _, t := range tools {
		exposed := t // capture for the closure below
		serverTools = append(serverTools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        exposed.Name,
				Description: exposed.Description,
				InputSchema: exposed.InputSchema,
			},
			Handler: f.callToolHandler(exposed.Name),
		})
	}
	if len(serverTools) > 0 {
		srv.AddTools(serverTools...)
	}

	f.mcpServer = srv
	return srv
}

// callToolHandler routes a call for the exposed tool name through the
// aggregator and applies the origin service's middleware chain to the
// result before returning it to the protocol layer.
func (f *FrontServer) callToolHandler(exposedName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		if req.Params.Arguments != nil {
			if m, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = m
			}
		}

		service, result, err := f.agg.RouteToolCall(ctx, exposedName, args)
		if err != nil {
			return nil, fmt.Errorf("tool execution failed: %w", err)
		}

		pipeline := f.pipelines[service]
		return middleware.Apply(pipeline, exposedName, result), nil
	}
}

// Serve runs the front server over stdio until ctx is canceled.
func (f *FrontServer) Serve(ctx context.Context) error {
	if f.mcpServer == nil {
		f.Build()
	}
	logging.Info("FrontServer", "serving %d tools over stdio", len(f.agg.ListAllTools()))
	stdioServer := mcpserver.NewStdioServer(f.mcpServer)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}
