package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDoctor_ReportsConfigOKAndCommandNotFound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
services:
  shell:
    command: definitely-not-a-real-binary-xyz
    transport: stdio
`), 0o644))

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetContext(context.Background())

	require.NoError(t, runDoctor(c, path))
	assert.Contains(t, out.String(), "config: OK")
	assert.Contains(t, out.String(), "shell:")
	assert.Contains(t, out.String(), "NOT FOUND")
}

func TestRunDoctor_BadConfigReportsFail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mcpd.yml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	c.SetContext(context.Background())

	assert.Error(t, runDoctor(c, path))
	assert.Contains(t, out.String(), "config: FAIL")
}
