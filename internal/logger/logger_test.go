package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_FileOutput(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	closer, err := Setup(LogConfig{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	l := WithComponent("test")
	l.Info().Str("invoice_id", "42").Msg("saved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"invoice_id":"42"`)
	assert.Contains(t, string(data), `"message":"saved"`)
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup(LogConfig{Level: "loud", Output: "discard"})
	assert.Error(t, err)
}
