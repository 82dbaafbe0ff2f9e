package licensee

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadPrivateKeyRoundTrips(t *testing.T) {
	priv, err := GenerateKeyPair(1024)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "priv.pem")
	require.NoError(t, SavePrivateKey(priv, path))

	loaded, err := LoadPrivateKey(path)
	require.NoError(t, err)
	require.Equal(t, priv.N, loaded.N)
	require.Equal(t, priv.E, loaded.E)
}

func TestSaveLoadPublicKeyRoundTrips(t *testing.T) {
	priv, err := GenerateKeyPair(1024)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pub.pem")
	require.NoError(t, SavePublicKey(&priv.PublicKey, path))

	loaded, err := LoadPublicKey(path)
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey.N, loaded.N)
	require.Equal(t, priv.PublicKey.E, loaded.E)
}

func TestLoadPrivateKeyRejectsGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a pem file"), 0o600))

	_, err := LoadPrivateKey(path)
	require.Error(t, err)
}
