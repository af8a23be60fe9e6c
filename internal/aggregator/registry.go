// Package aggregator fans tool calls out across registered backend clients
// and routes them back by parsing the service prefix from a tool's
// exposed name.
package aggregator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"mcpd/internal/client"
	"mcpd/pkg/logging"
)

// Aggregator holds the set of registered backends and presents them as one
// tool inventory, routing each call back to its origin backend.
type Aggregator struct {
	mu       sync.RWMutex
	backends map[string]*backendInfo
	order    []string // registration order, for listAllTools's ordering guarantee
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{backends: make(map[string]*backendInfo)}
}

// AddBackend registers a backend under name, replacing any tool exclusion
// set left over from a prior registration of the same name. It eagerly
// fetches the backend's tool inventory.
func (a *Aggregator) AddBackend(ctx context.Context, name string, c client.BackendClient, excludeTools []string) error {
	excludeSet := make(map[string]struct{}, len(excludeTools))
	for _, t := range excludeTools {
		excludeSet[t] = struct{}{}
	}

	info := &backendInfo{name: name, client: c, excludeTools: excludeSet}

	tools, err := c.ListTools(ctx)
	if err != nil {
		logging.Warn("Aggregator", "failed to list tools for backend %s: %v", name, err)
		info.offline = true
	} else {
		info.setTools(tools)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.backends[name]; !exists {
		a.order = append(a.order, name)
	}
	a.backends[name] = info

	logging.Info("Aggregator", "registered backend %s with %d tools", name, len(info.getTools()))
	return nil
}

// RemoveBackend deregisters a backend. A subsequent AddBackend for the same
// name starts with a clean exclusion set.
func (a *Aggregator) RemoveBackend(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.backends[name]; !exists {
		return
	}
	delete(a.backends, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// BackendNames returns the registered backend names in registration order.
func (a *Aggregator) BackendNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// ListAllTools fans listTools out across every registered backend,
// excludes per-backend-excluded tools, and assigns each tool its external
// name: the tool's own name when exactly one backend is registered,
// otherwise "service_originalName". Order is backend registration order,
// each backend's tools in the order the backend reported them.
func (a *Aggregator) ListAllTools() []ExposedTool {
	a.mu.RLock()
	names := make([]string, len(a.order))
	copy(names, a.order)
	backends := make(map[string]*backendInfo, len(a.backends))
	for k, v := range a.backends {
		backends[k] = v
	}
	a.mu.RUnlock()

	singleBackend := len(names) == 1

	var out []ExposedTool
	for _, name := range names {
		info := backends[name]
		for _, tool := range info.getTools() {
			if info.isExcluded(tool.Name) {
				continue
			}

			exposed := tool
			if singleBackend {
				exposed.Name = tool.Name
			} else {
				exposed.Name = name + "_" + tool.Name
			}

			if tool.Description != "" {
				exposed.Description = fmt.Sprintf("[%s] %s", name, tool.Description)
			} else {
				exposed.Description = fmt.Sprintf("[%s]", name)
			}

			out = append(out, ExposedTool{Tool: exposed, Service: name, OriginalName: tool.Name})
		}
	}
	return out
}

// ParseName recovers the origin service and original tool name from an
// externally-visible tool name. With a single registered backend, the
// name is returned unchanged, attributed to that backend. With multiple
// backends, every underscore position is a candidate split; the
// left-hand side of the longest candidate that names a registered
// backend wins, so "a_b_tool" resolves to backend "a_b" over backend "a"
// when both are registered.
func (a *Aggregator) ParseName(name string) (service, originalName string, err error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.order) == 1 {
		return a.order[0], name, nil
	}

	type candidate struct {
		service  string
		original string
	}
	var candidates []candidate
	for i, r := range name {
		if r != '_' {
			continue
		}
		prefix := name[:i]
		rest := name[i+1:]
		if rest == "" {
			continue
		}
		if _, ok := a.backends[prefix]; ok {
			candidates = append(candidates, candidate{service: prefix, original: rest})
		}
	}
	if len(candidates) == 0 {
		return "", "", fmt.Errorf("invalid name %q: no matching service prefix", name)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].service) > len(candidates[j].service)
	})
	best := candidates[0]
	return best.service, best.original, nil
}

// RouteToolCall parses name, looks up its backend, and invokes the call
// against the backend's original tool name.
func (a *Aggregator) RouteToolCall(ctx context.Context, name string, args map[string]interface{}) (string, *mcp.CallToolResult, error) {
	service, originalName, err := a.ParseName(name)
	if err != nil {
		return "", nil, err
	}

	a.mu.RLock()
	info, ok := a.backends[service]
	a.mu.RUnlock()
	if !ok {
		return "", nil, fmt.Errorf("unknown service %q", service)
	}

	result, err := info.client.CallTool(ctx, originalName, args)
	return service, result, err
}
