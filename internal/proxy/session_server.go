package proxy

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"mcpd/internal/client"
)

// buildSessionServer constructs the MCP server a proxy's SSE sessions
// share, advertising only the capabilities the backend actually reported.
// If the backend reported no resources and no prompts, tools is still
// advertised by default since every MCP backend exposes at least a tool
// surface worth forwarding.
func buildSessionServer(name string, backend *client.StdioClient, tools []mcp.Tool, resources []mcp.Resource, resourcesSupported bool, prompts []mcp.Prompt, promptsSupported bool) *mcpserver.MCPServer {
	opts := []mcpserver.ServerOption{mcpserver.WithToolCapabilities(true)}
	if resourcesSupported {
		opts = append(opts, mcpserver.WithResourceCapabilities(true, true))
	}
	if promptsSupported {
		opts = append(opts, mcpserver.WithPromptCapabilities(true))
	}

	srv := mcpserver.NewMCPServer(name, "1.0.0", opts...)

	serverTools := make([]mcpserver.ServerTool, 0, len(tools))
	for _, t := range tools {
		serverTools = append(serverTools, mcpserver.ServerTool{
			Tool:    t,
			Handler: toolCallHandler(backend, t.Name),
		})
	}
	if len(serverTools) > 0 {
		srv.AddTools(serverTools...)
	}

	if resourcesSupported {
		serverResources := make([]mcpserver.ServerResource, 0, len(resources))
		for _, r := range resources {
			serverResources = append(serverResources, mcpserver.ServerResource{
				Resource: r,
				Handler:  resourceReadHandler(backend),
			})
		}
		if len(serverResources) > 0 {
			srv.AddResources(serverResources...)
		}
	}

	if promptsSupported {
		serverPrompts := make([]mcpserver.ServerPrompt, 0, len(prompts))
		for _, pr := range prompts {
			serverPrompts = append(serverPrompts, mcpserver.ServerPrompt{
				Prompt:  pr,
				Handler: promptGetHandler(backend, pr.Name),
			})
		}
		if len(serverPrompts) > 0 {
			srv.AddPrompts(serverPrompts...)
		}
	}

	return srv
}

func toolCallHandler(backend *client.StdioClient, toolName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		if req.Params.Arguments != nil {
			if m, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = m
			}
		}
		result, err := backend.CallTool(ctx, toolName, args)
		if err != nil {
			return nil, fmt.Errorf("call tool %s: %w", toolName, err)
		}
		return result, nil
	}
}

func resourceReadHandler(backend *client.StdioClient) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		result, err := backend.ReadResource(ctx, req.Params.URI)
		if err != nil {
			return nil, fmt.Errorf("read resource %s: %w", req.Params.URI, err)
		}
		return result.Contents, nil
	}
}

func promptGetHandler(backend *client.StdioClient, promptName string) func(context.Context, mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := map[string]interface{}{}
		for k, v := range req.Params.Arguments {
			args[k] = v
		}
		result, err := backend.GetPrompt(ctx, promptName, args)
		if err != nil {
			return nil, fmt.Errorf("get prompt %s: %w", promptName, err)
		}
		return result, nil
	}
}
