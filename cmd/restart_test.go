package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpd/internal/config"
	"mcpd/internal/statestore"
)

func TestRunRestart_UnknownServiceErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0o644))

	err := runRestart(context.Background(), path, "does-not-exist")
	assert.Error(t, err)
}

func TestRunRestart_StdioServiceIsNotReSupervised(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
services:
  shell:
    command: shell-mcp
    transport: stdio
`), 0o644))

	store := statestore.New(config.StateFilePath(path))
	require.NoError(t, store.Put("shell", statestore.State{State: statestore.StateReady, PID: 99999999}))

	// A stdio service's child is owned by a live daemon session, so restart
	// only kills its tracked pid; it must not attempt supervisor.Start.
	assert.NoError(t, runRestart(context.Background(), path, "shell"))
}

func TestKillTargets_All(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0o644))

	names, err := killTargets(path, "all")
	require.NoError(t, err)
	assert.Empty(t, names)
}
