// Package xofhash implements the Hash/XOF capability contract shared by the genetics engine:
// hash(D, L) -> bytes of length exactly L, a pure deterministic function of (D, L).
package xofhash

import (
	"crypto/sha256"

	"github.com/zeebo/blake3"
)

// HashFunction is the capability trait for both native-XOF and fixed-digest hash expansion.
// Implementations must be pure: identical (data, length) must always yield identical output.
type HashFunction interface {
	// Hash returns exactly `length` bytes derived from data.
	Hash(data []byte, length int) []byte

	// Name identifies the hash function, used in config and diagnostics.
	Name() string
}

// Blake3Hash is the native-XOF variant: BLAKE3 emits arbitrary-length output directly.
type Blake3Hash struct{}

// Hash derives length bytes from data using BLAKE3's native XOF output.
func (Blake3Hash) Hash(data []byte, length int) []byte {
	if length <= 0 {
		return []byte{}
	}
	h := blake3.New()
	h.Write(data)
	out := make([]byte, length)
	d := h.Digest()
	_, _ = d.Read(out)
	return out
}

// Name returns "blake3".
func (Blake3Hash) Name() string { return "blake3" }

// SHA256Hash is the fixed-digest variant: it extends SHA-256's 32-byte digest to arbitrary
// length by repeatedly re-hashing the previous block and concatenating, truncating to length.
type SHA256Hash struct{}

// Hash derives length bytes from data by chaining SHA-256 blocks: h0 = SHA256(data); if
// length <= 32, return the first `length` bytes of h0; otherwise keep appending
// h_{k+1} = SHA256(h_k) until the concatenation reaches at least `length` bytes, then truncate.
func (SHA256Hash) Hash(data []byte, length int) []byte {
	if length <= 0 {
		return []byte{}
	}
	h0 := sha256.Sum256(data)
	if length <= len(h0) {
		return append([]byte{}, h0[:length]...)
	}

	out := make([]byte, 0, length+sha256.Size)
	out = append(out, h0[:]...)
	prev := h0
	for len(out) < length {
		prev = sha256.Sum256(prev[:])
		out = append(out, prev[:]...)
	}
	return out[:length]
}

// Name returns "sha256".
func (SHA256Hash) Name() string { return "sha256" }
