package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpd/internal/config"
)

func TestNewFromServiceConfig_Stdio(t *testing.T) {
	c, err := NewFromServiceConfig(config.ServiceConfig{
		Transport: config.TransportStdio,
		Command:   "echo",
		Args:      []string{"hi"},
	})
	require.NoError(t, err)
	_, ok := c.(*StdioClient)
	assert.True(t, ok)
}

func TestNewFromServiceConfig_SSE(t *testing.T) {
	c, err := NewFromServiceConfig(config.ServiceConfig{
		Transport: config.TransportSSE,
		URL:       "http://127.0.0.1:9001",
	})
	require.NoError(t, err)
	_, ok := c.(*SSEClient)
	assert.True(t, ok)
}

func TestNewFromServiceConfig_StdioRequiresCommand(t *testing.T) {
	_, err := NewFromServiceConfig(config.ServiceConfig{Transport: config.TransportStdio})
	assert.Error(t, err)
}

func TestNewFromServiceConfig_SSERequiresURL(t *testing.T) {
	_, err := NewFromServiceConfig(config.ServiceConfig{Transport: config.TransportSSE})
	assert.Error(t, err)
}

func TestNewFromServiceConfig_UnsupportedTransport(t *testing.T) {
	_, err := NewFromServiceConfig(config.ServiceConfig{Transport: "carrier-pigeon"})
	assert.Error(t, err)
}
