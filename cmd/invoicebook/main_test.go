package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	saved := os.Args
	os.Args = append([]string{"invoicebook"}, args...)
	t.Cleanup(func() { os.Args = saved })
}

func TestRun_ClosesDatabaseOnCommandError(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "invoicebook.db")
	t.Setenv("INVOICEBOOK_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("INVOICEBOOK_BACKEND", "sqlite")
	t.Setenv("INVOICEBOOK_DB_PATH", dbPath)
	t.Setenv("INVOICEBOOK_EXPORT_DIR", dir)
	t.Setenv("INVOICEBOOK_LOG_OUTPUT", "discard")

	withArgs(t, "invoices", "show", "no-such-invoice")
	assert.Equal(t, 1, run())

	// A clean close checkpoints and removes the WAL file
	_, err := os.Stat(dbPath)
	require.NoError(t, err)
	_, err = os.Stat(dbPath + "-wal")
	assert.True(t, os.IsNotExist(err), "database left open after failed command")
}
