package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, BackendSQLCipher, cfg.Storage.Backend)
	assert.Equal(t, int64(DefaultQuotaBytes), cfg.Storage.QuotaBytes)
	assert.Equal(t, 1, cfg.Invoice.DefaultDueMonths)
	assert.Len(t, cfg.Invoice.ServiceTypes, 6)
	assert.NoError(t, cfg.Validate())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Backend = BackendSQLite
	cfg.Storage.Path = "/tmp/books.db"
	cfg.Invoice.ServiceTypes = []string{"Consulting"}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, loaded.Storage.Backend)
	assert.Equal(t, "/tmp/books.db", loaded.Storage.Path)
	assert.Equal(t, []string{"Consulting"}, loaded.Invoice.ServiceTypes)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: memory\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, 1, cfg.Invoice.DefaultDueMonths)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("INVOICEBOOK_BACKEND", "memory")
	t.Setenv("INVOICEBOOK_QUOTA_BYTES", "1024")
	t.Setenv("INVOICEBOOK_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, int64(1024), cfg.Storage.QuotaBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.Storage.Backend = "postgres" },
			errorString: "invalid storage backend 'postgres'",
		},
		{
			name:        "empty path",
			mutate:      func(c *Config) { c.Storage.Backend = BackendSQLite; c.Storage.Path = " " },
			errorString: "storage path cannot be empty when using sqlite backend",
		},
		{
			name:        "negative quota",
			mutate:      func(c *Config) { c.Storage.QuotaBytes = -1 },
			errorString: "invalid quota -1",
		},
		{
			name:        "node out of range",
			mutate:      func(c *Config) { c.Storage.NodeID = 2048 },
			errorString: "invalid node id 2048",
		},
		{
			name:        "blank service type",
			mutate:      func(c *Config) { c.Invoice.ServiceTypes = []string{"Other", ""} },
			errorString: "service type 2 is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "nope"
	cfg.Invoice.DefaultDueMonths = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid storage backend")
	assert.Contains(t, err.Error(), "invalid default due months -1")
}
