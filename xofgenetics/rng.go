package xofgenetics

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Rng is a mutex-guarded, explicitly seeded pseudo-random generator threaded through the
// evolution config and reproduction operators so that any randomness (Simple-mode parent
// sampling, Random pairing, random/weighted method selection) is fully replayable given a seed
// and a fixed pairing order (spec §5).
type Rng struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRng constructs a seeded Rng.
func NewRng(seed int64) *Rng {
	return &Rng{src: rand.New(rand.NewSource(seed))}
}

// SeedForOffspring derives a deterministic child seed from a parent identifier and an index,
// so that offspring RNG streams are reproducible without being identical across siblings.
// Mirrors the teacher's SHA256-based deterministic lineage seeding.
func SeedForOffspring(parentID []byte, index int) int64 {
	h := sha256.New()
	h.Write(parentID)
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], uint64(index))
	h.Write(idx[:])
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Float64 returns a pseudo-random float64 in [0,1).
func (r *Rng) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// Intn returns a pseudo-random int in [0,n).
func (r *Rng) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

// Bool returns a pseudo-random coin flip.
func (r *Rng) Bool() bool {
	return r.Intn(2) == 0
}

// Shuffle deterministically shuffles indices [0,n) using Fisher-Yates.
func (r *Rng) Shuffle(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.src.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx
}

// chooseMask returns a uniformly chosen element from a non-empty slice of mutation masks.
func chooseMask(r *Rng, masks [][]byte) []byte {
	return masks[r.Intn(len(masks))]
}
