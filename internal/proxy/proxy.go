// Package proxy exposes a single stdio MCP backend as an HTTP/SSE
// endpoint, spawning and reconnecting the backend's child process
// according to a restart policy.
package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"mcpd/internal/client"
	"mcpd/internal/config"
	"mcpd/pkg/logging"
)

// State is one of the proxy's lifecycle states.
type State string

const (
	StateStarting     State = "starting"
	StateServing      State = "serving"
	StateReconnecting State = "reconnecting"
	StateShuttingDown State = "shutting-down"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// Proxy owns one stdio backend child process and republishes it over SSE.
type Proxy struct {
	Name    string
	Command string
	Args    []string
	Restart config.RestartPolicy

	mu           sync.RWMutex
	state        State
	generation   string // uuid identifying the current backend instance, refreshed on every (re)connect
	client       *client.StdioClient
	mcpServer    *mcpserver.MCPServer
	sseServer    *mcpserver.SSEServer
	httpServer   *http.Server
	listener     net.Listener
	shuttingDown bool
}

// New creates a Proxy for the given stdio backend command. If name is
// empty, it's derived from the command's basename.
func New(name, command string, args []string, restart config.RestartPolicy) *Proxy {
	if name == "" {
		name = filepath.Base(command)
	}
	return &Proxy{Name: name, Command: command, Args: args, Restart: restart, state: StateStarting}
}

// State returns the proxy's current lifecycle state.
func (p *Proxy) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Proxy) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	logging.Audit(logging.AuditEvent{Action: "proxy_state", Outcome: string(s), Service: p.Name})
}

// Start spawns the backend, connects as a client, builds the MCP server
// bound to it, and begins listening on addr (port 0 picks an OS-assigned
// port). It returns once the HTTP listener is bound; serving happens in
// the background until ctx is canceled.
func (p *Proxy) Start(ctx context.Context, host string, port int) (effectivePort int, err error) {
	if err := p.spawnAndConnect(ctx); err != nil {
		return 0, fmt.Errorf("starting backend %s: %w", p.Name, err)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return 0, fmt.Errorf("listen: %w", err)
	}
	effectivePort = ln.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// baseURL must reflect the bound listener, not the requested port: when
	// port 0 asks for an OS-assigned port, the SSE "endpoint" event advertises
	// this URL to clients for their subsequent POST /message calls.
	baseURL := fmt.Sprintf("http://%s:%d", host, effectivePort)
	p.mu.Lock()
	p.sseServer = mcpserver.NewSSEServer(
		p.mcpServer,
		mcpserver.WithBaseURL(baseURL),
		mcpserver.WithSSEEndpoint("/sse"),
		mcpserver.WithMessageEndpoint("/message"),
	)
	// SSEServer implements http.Handler itself, demuxing /sse and /message
	// (the endpoints configured above) and 404ing everything else.
	mux.Handle("/", p.sseServer)
	p.listener = ln
	p.httpServer = &http.Server{Handler: mux}
	p.mu.Unlock()

	go func() {
		if err := p.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			logging.Error("Proxy", err, "http server for %s exited", p.Name)
		}
	}()

	go p.watchChild(ctx)

	p.setState(StateServing)
	logging.Info("Proxy", "%s serving on %s (effective port %d)", p.Name, baseURL, effectivePort)
	return effectivePort, nil
}

// spawnAndConnect starts the child process, connects a client to it, and
// (re)builds the bound MCP server advertising the backend's capabilities.
func (p *Proxy) spawnAndConnect(ctx context.Context) error {
	p.setState(StateStarting)

	generation := uuid.NewString()
	c := client.NewStdioClient(p.Command, p.Args, "", nil)
	if err := c.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}

	tools, err := c.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	resources, resErr := c.ListResources(ctx)
	prompts, promptErr := c.ListPrompts(ctx)

	srv := buildSessionServer(p.Name, c, tools, resources, resErr == nil, prompts, promptErr == nil)

	p.mu.Lock()
	p.generation = generation
	p.client = c
	p.mcpServer = srv
	p.mu.Unlock()
	logging.Info("Proxy", "%s backend instance %s connected (%d tools)", p.Name, generation, len(tools))
	return nil
}

// watchChild waits for the backend to exit and applies the reconnect
// policy. "never" shuts the proxy down; "on-failure" and "always"
// reconnect with exponential backoff, the former giving up (and shutting
// down) if a reconnect attempt itself fails, the latter retrying forever.
func (p *Proxy) watchChild(ctx context.Context) {
	p.mu.RLock()
	c := p.client
	p.mu.RUnlock()
	if c == nil {
		return
	}

	<-waitForDisconnect(ctx, c)

	p.mu.RLock()
	down := p.shuttingDown
	p.mu.RUnlock()
	if down {
		return
	}

	if p.Restart == config.RestartNever {
		logging.Info("Proxy", "%s backend exited, restart policy is never, shutting down", p.Name)
		p.Shutdown(ctx)
		return
	}

	p.reconnectLoop(ctx)
}

// waitForDisconnect returns a channel that closes once the backend's Ping
// starts failing, treated as the child having gone away.
func waitForDisconnect(ctx context.Context, c *client.StdioClient) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Ping(ctx); err != nil {
					return
				}
			}
		}
	}()
	return done
}

func (p *Proxy) reconnectLoop(ctx context.Context) {
	p.setState(StateReconnecting)
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		p.mu.RLock()
		down := p.shuttingDown
		p.mu.RUnlock()
		if down {
			return
		}

		if err := p.spawnAndConnect(ctx); err != nil {
			logging.Warn("Proxy", "%s reconnect attempt failed: %v", p.Name, err)
			if p.Restart == config.RestartOnFailure {
				logging.Error("Proxy", err, "%s giving up after failed reconnect under on-failure policy", p.Name)
				p.Shutdown(ctx)
				return
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		logging.Info("Proxy", "%s reconnected", p.Name)
		p.setState(StateServing)
		go p.watchChild(ctx)
		return
	}
}

// Shutdown stops the HTTP listener and disconnects the backend client.
func (p *Proxy) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.shuttingDown {
		p.mu.Unlock()
		return
	}
	p.shuttingDown = true
	httpServer := p.httpServer
	c := p.client
	p.mu.Unlock()

	p.setState(StateShuttingDown)

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Proxy", "%s http shutdown error: %v", p.Name, err)
		}
	}
	if c != nil {
		if err := c.Close(); err != nil {
			logging.Warn("Proxy", "%s backend close error: %v", p.Name, err)
		}
	}
}
