package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpd/internal/config"
	"mcpd/internal/statestore"
)

func TestRunKill_UnknownServiceErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0o644))

	err := runKill(path, "does-not-exist")
	assert.Error(t, err)
}

func TestRunKill_TrackedDeadPIDDoesNotError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0o644))

	store := statestore.New(config.StateFilePath(path))
	require.NoError(t, store.Put("web", statestore.State{State: statestore.StateReady, PID: 99999999}))

	assert.NoError(t, runKill(path, "web"))
}

func TestRunKill_All(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0o644))

	store := statestore.New(config.StateFilePath(path))
	require.NoError(t, store.Put("a", statestore.State{State: statestore.StateReady, PID: 99999998}))
	require.NoError(t, store.Put("b", statestore.State{State: statestore.StateReady, PID: 99999999}))

	assert.NoError(t, runKill(path, "all"))
}
