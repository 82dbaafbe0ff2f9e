package xofhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256HashDeterministic(t *testing.T) {
	h := SHA256Hash{}
	a := h.Hash([]byte("seed"), 64)
	b := h.Hash([]byte("seed"), 64)
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestSHA256HashShortLength(t *testing.T) {
	h := SHA256Hash{}
	out := h.Hash([]byte("seed"), 16)
	require.Len(t, out, 16)
}

func TestSHA256HashExtendsBeyondDigestSize(t *testing.T) {
	h := SHA256Hash{}
	out := h.Hash([]byte("seed"), 100)
	require.Len(t, out, 100)
}

func TestSHA256HashDifferentInputsDiffer(t *testing.T) {
	h := SHA256Hash{}
	a := h.Hash([]byte("seed-a"), 32)
	b := h.Hash([]byte("seed-b"), 32)
	require.NotEqual(t, a, b)
}

func TestBlake3HashDeterministicAndLength(t *testing.T) {
	h := Blake3Hash{}
	a := h.Hash([]byte("seed"), 48)
	b := h.Hash([]byte("seed"), 48)
	require.Equal(t, a, b)
	require.Len(t, a, 48)
}

func TestBlake3HashArbitraryLength(t *testing.T) {
	h := Blake3Hash{}
	out := h.Hash([]byte("seed"), 1000)
	require.Len(t, out, 1000)
}
