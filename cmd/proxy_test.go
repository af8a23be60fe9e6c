package cmd

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"mcpd/internal/config"
)

func TestNewProxyCmd_FlagsAndRequiredPort(t *testing.T) {
	c := newProxyCmd()

	portFlag := c.Flags().Lookup("port")
	assert.NotNil(t, portFlag)
	assert.Equal(t, "p", portFlag.Shorthand)
	assert.Equal(t, []string{"true"}, portFlag.Annotations[cobra.BashCompOneRequiredFlag])

	nameFlag := c.Flags().Lookup("name")
	assert.NotNil(t, nameFlag)

	restartFlag := c.Flags().Lookup("restart")
	assert.NotNil(t, restartFlag)
	assert.Equal(t, string(config.RestartOnFailure), restartFlag.DefValue)

	assert.Error(t, c.Args(c, nil))
}

func TestRunProxy_UnknownCommandErrors(t *testing.T) {
	// The child never spawns, so Start fails fast instead of blocking on
	// ctx.Done() and this test returns quickly.
	err := runProxy(context.Background(), 0, "test-proxy", config.RestartNever, "definitely-not-a-real-binary-xyz", nil)
	assert.Error(t, err)
}
