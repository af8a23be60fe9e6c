package client

import (
	"fmt"

	"mcpd/internal/config"
)

// NewFromServiceConfig picks the transport-appropriate BackendClient for a
// ServiceConfig, mirroring the transport switch the supervisor resolves at
// startup.
func NewFromServiceConfig(svc config.ServiceConfig) (BackendClient, error) {
	switch svc.Transport {
	case config.TransportStdio:
		if svc.Command == "" {
			return nil, fmt.Errorf("command is required for stdio transport")
		}
		return NewStdioClient(svc.Command, svc.Args, svc.Cwd, svc.Env), nil
	case config.TransportSSE, "":
		if svc.URL == "" {
			return nil, fmt.Errorf("url is required for sse transport")
		}
		return NewSSEClient(svc.URL), nil
	default:
		return nil, fmt.Errorf("unsupported transport %q", svc.Transport)
	}
}
