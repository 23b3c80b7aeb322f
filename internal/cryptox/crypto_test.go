package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandByteArray(t *testing.T) {
	a := GenerateRandByteArray(32)
	b := GenerateRandByteArray(32)
	assert.Len(t, a, 32)
	assert.Len(t, b, 32)
	assert.NotEqual(t, a, b)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := GenerateRandByteArray(KeySize)

	sealed, err := Seal([]byte("eyJhbGciOi.token"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "token")

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.token", string(plain))
}

func TestSeal_NonceDiffers(t *testing.T) {
	key := GenerateRandByteArray(KeySize)
	a, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	b, err := Seal([]byte("same"), key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_Errors(t *testing.T) {
	key := GenerateRandByteArray(KeySize)
	sealed, err := Seal([]byte("payload"), key)
	require.NoError(t, err)

	_, err = Open(sealed, GenerateRandByteArray(KeySize))
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = Open(sealed[:5], key)
	assert.ErrorIs(t, err, ErrShortSealed)

	_, err = Open(sealed, []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Seal([]byte("x"), []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLoadOrCreateKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device.key")

	k1, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Len(t, k1, KeySize)

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	k2, err := LoadOrCreateKey(path)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestLoadOrCreateKey_BadSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.key")
	require.NoError(t, os.WriteFile(path, []byte("tiny"), 0o600))

	_, err := LoadOrCreateKey(path)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	assert.Equal(t, make([]byte, 6), b)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
