package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatch_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte("services: {}\n"), 0o644))

	changed := make(chan struct{}, 1)
	stop := make(chan struct{})
	defer close(stop)

	require.NoError(t, Watch(path, changed, stop))

	require.NoError(t, os.WriteFile(path, []byte("services:\n  a:\n    command: x\n"), 0o644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification after rewriting the watched file")
	}
}

func TestWatch_UnknownPathErrors(t *testing.T) {
	changed := make(chan struct{}, 1)
	stop := make(chan struct{})
	defer close(stop)

	err := Watch(filepath.Join(t.TempDir(), "does-not-exist.yml"), changed, stop)
	require.Error(t, err)
}
