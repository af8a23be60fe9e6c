package statestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), ".mcpd-state.json"))
	all, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), ".mcpd-state.json"))
	want := map[string]State{
		"serena": {State: StateReady, PID: 1234, URL: "http://127.0.0.1:9001"},
		"other":  {State: StateStopped},
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPutAndDelete(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), ".mcpd-state.json"))

	require.NoError(t, store.Put("svc", State{State: StateStarting}))
	all, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, StateStarting, all["svc"].State)

	require.NoError(t, store.Delete("svc"))
	all, err = store.Load()
	require.NoError(t, err)
	_, ok := all["svc"]
	assert.False(t, ok)
}

func TestLoad_CorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".mcpd-state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0o644))

	store := New(path)
	all, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSave_NoStrayTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store := New(filepath.Join(dir, ".mcpd-state.json"))
	require.NoError(t, store.Save(map[string]State{"a": {State: StateReady}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, ".mcpd-state.json", entries[0].Name())
}
