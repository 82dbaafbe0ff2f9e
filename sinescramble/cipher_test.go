package sinescramble

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiRoundEncryptDecryptRoundTrips(t *testing.T) {
	c, err := New([]float64{1.5, 2.5, 3.5, 4.5}, MultiRound)
	require.NoError(t, err)

	plaintext := []byte("Hello, SineScramble! This is a comprehensive test message.")
	ciphertext, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	require.NotEqual(t, plaintext, ciphertext)

	decrypted, err := c.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestSegmentedEncryptDecryptRoundTrips(t *testing.T) {
	c, err := New([]float64{0.1, 0.2, 0.3}, Segmented)
	require.NoError(t, err)

	plaintext := []byte("0123456789abcdefghijklmno")
	ciphertext, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	decrypted, err := c.Decrypt(ciphertext)
	require.NoError(t, err)
	require.Equal(t, plaintext, decrypted)
}

func TestSegmentedRejectsBufferShorterThanKey(t *testing.T) {
	c, err := New([]float64{0.1, 0.2, 0.3, 0.4, 0.5}, Segmented)
	require.NoError(t, err)

	_, err = c.Encrypt([]byte("abc"))
	require.ErrorIs(t, err, ErrBufferTooShortForSegments)
}

func TestNewRejectsEmptyKey(t *testing.T) {
	_, err := New(nil, MultiRound)
	require.ErrorIs(t, err, ErrNoKeyComponents)
}

func TestDifferentModesProduceDifferentCiphertextForSameKey(t *testing.T) {
	key := []float64{1.1, 2.2, 3.3}
	plaintext := []byte("the quick brown fox jumps over the lazy dog")

	multi, err := New(key, MultiRound)
	require.NoError(t, err)
	seg, err := New(key, Segmented)
	require.NoError(t, err)

	cm, err := multi.Encrypt(plaintext)
	require.NoError(t, err)
	cs, err := seg.Encrypt(plaintext)
	require.NoError(t, err)

	require.NotEqual(t, cm, cs)
}

func TestEncryptIsDeterministic(t *testing.T) {
	c, err := New([]float64{9.9}, MultiRound)
	require.NoError(t, err)
	plaintext := []byte("deterministic output for a fixed key and input")

	c1, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	c2, err := c.Encrypt(plaintext)
	require.NoError(t, err)
	require.Equal(t, c1, c2)
}
