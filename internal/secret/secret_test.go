package secret_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/andy/invoicer/internal/secret"
)

const testEnv = "INVOICER_TEST_API_KEY"

func newStore(t *testing.T) secret.Store {
	t.Helper()
	keyring.MockInit()
	t.Setenv(testEnv, "")
	return secret.NewStore(testEnv)
}

func TestGetKey_NotFound(t *testing.T) {
	s := newStore(t)

	_, src, err := s.GetKey()
	assert.ErrorIs(t, err, secret.ErrNotFound)
	assert.Equal(t, secret.SourceNone, src)
}

func TestSetGetDelete(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.SetKey("  abc123  "))

	key, src, err := s.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
	assert.Equal(t, secret.SourceKeyring, src)

	require.NoError(t, s.DeleteKey())
	_, _, err = s.GetKey()
	assert.ErrorIs(t, err, secret.ErrNotFound)

	assert.ErrorIs(t, s.DeleteKey(), secret.ErrNotFound)
}

func TestEnvOverridesKeyring(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SetKey("from-keyring"))
	t.Setenv(testEnv, "from-env")

	key, src, err := s.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
	assert.Equal(t, secret.SourceEnv, src)
}

func TestSetKey_RejectsEmpty(t *testing.T) {
	s := newStore(t)
	assert.Error(t, s.SetKey("   "))
}

func TestIsAvailable_WithMock(t *testing.T) {
	s := newStore(t)
	assert.True(t, s.IsAvailable())
}
