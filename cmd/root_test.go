package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_RegistersEverySubcommand(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"start", "ps", "kill", "restart", "stop", "proxy", "doctor", "version"} {
		assert.True(t, names[want], "expected %q to be registered", want)
	}
}

func TestRootCmd_PsAliases(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "ps" {
			assert.Contains(t, c.Aliases, "list")
			assert.Contains(t, c.Aliases, "ls")
			return
		}
	}
	t.Fatal("ps command not found")
}

func TestSetVersion(t *testing.T) {
	SetVersion("9.9.9")
	assert.Equal(t, "9.9.9", rootCmd.Version)
}
