package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyring_RoundTrip(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "")

	k := NewKeyring()
	assert.True(t, k.IsAvailable())

	_, err := k.GetKey()
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, k.SetKey("s3cret"))
	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", key)

	require.NoError(t, k.DeleteKey())
	_, err = k.GetKey()
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting again is harmless
	assert.NoError(t, k.DeleteKey())
}

func TestKeyring_EnvOverride(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "from-env")

	k := NewKeyring()
	require.NoError(t, k.SetKey("from-keyring"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestKeyring_RejectsEmptyPassword(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, NewKeyring().SetKey(""))
}
