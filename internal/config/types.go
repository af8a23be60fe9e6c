// Package config loads and validates mcpd's YAML service declarations.
package config

import "time"

// Transport selects how a service's MCP traffic is carried.
type Transport string

const (
	TransportSSE   Transport = "sse"
	TransportStdio Transport = "stdio"
)

// RestartPolicy governs what the supervisor does when a service's process exits.
type RestartPolicy string

const (
	RestartOnFailure RestartPolicy = "on-failure"
	RestartAlways    RestartPolicy = "always"
	RestartNever     RestartPolicy = "never"
)

// Config is the top-level `mcpd.yml` document.
type Config struct {
	Services map[string]ServiceConfig `yaml:"services"`
}

// Readiness describes how a service's HTTP readiness endpoint is polled.
type Readiness struct {
	Check    string        `yaml:"check"` // only "http" is recognized
	URL      string        `yaml:"url,omitempty"`
	Timeout  time.Duration `yaml:"-"`
	Interval time.Duration `yaml:"-"`

	// Raw holds the as-parsed YAML duration strings/numbers before
	// Timeout/Interval are resolved by resolveDurations.
	TimeoutRaw  yamlDuration `yaml:"timeout,omitempty"`
	IntervalRaw yamlDuration `yaml:"interval,omitempty"`
}

// Middleware is the per-service ordered response-transform chain.
type Middleware struct {
	Response []string `yaml:"response,omitempty"`
}

// ServiceConfig declares one backend the supervisor manages.
type ServiceConfig struct {
	Command      string            `yaml:"command"`
	Args         []string          `yaml:"args,omitempty"`
	Cwd          string            `yaml:"cwd,omitempty"`
	Env          map[string]string `yaml:"env,omitempty"`
	Transport    Transport         `yaml:"transport,omitempty"`
	URL          string            `yaml:"url,omitempty"`
	Readiness    Readiness         `yaml:"readiness,omitempty"`
	Restart      RestartPolicy     `yaml:"restart,omitempty"`
	KeepAlive    *bool             `yaml:"keep_alive,omitempty"`
	ExcludeTools []string          `yaml:"exclude_tools,omitempty"`
	Middleware   Middleware        `yaml:"middleware,omitempty"`
}

// KeepAliveOrDefault returns KeepAlive, defaulting to true per the schema.
func (s ServiceConfig) KeepAliveOrDefault() bool {
	if s.KeepAlive == nil {
		return true
	}
	return *s.KeepAlive
}

// ReadinessURLOrDefault returns the readiness probe URL, defaulting to the
// service's own URL when unset.
func (s ServiceConfig) ReadinessURLOrDefault() string {
	if s.Readiness.URL != "" {
		return s.Readiness.URL
	}
	return s.URL
}
