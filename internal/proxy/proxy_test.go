package proxy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"mcpd/internal/config"
)

func TestNew_DerivesNameFromCommandBasename(t *testing.T) {
	p := New("", "/usr/local/bin/my-backend", nil, config.RestartNever)
	assert.Equal(t, "my-backend", p.Name)
}

func TestNew_ExplicitNameWins(t *testing.T) {
	p := New("custom", "/usr/local/bin/my-backend", nil, config.RestartNever)
	assert.Equal(t, "custom", p.Name)
}

func TestProxy_InitialStateIsStarting(t *testing.T) {
	p := New("svc", "sleep", []string{"1"}, config.RestartNever)
	assert.Equal(t, StateStarting, p.State())
}

func TestProxy_ShutdownIsIdempotent(t *testing.T) {
	p := New("svc", "sleep", []string{"1"}, config.RestartNever)
	p.mu.Lock()
	p.state = StateServing
	p.mu.Unlock()

	p.Shutdown(context.Background())
	assert.Equal(t, StateShuttingDown, p.State())

	// A second call must not panic or re-run shutdown logic.
	p.Shutdown(context.Background())
	assert.Equal(t, StateShuttingDown, p.State())
}
