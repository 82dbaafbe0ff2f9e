// Package permcore implements the shared sine-score permutation primitive used by both the
// Licensee codec and the SineScramble cipher. Given a real-valued key s and a size N, it
// produces a permutation of [0..N) by sorting indices by a sine-based score.
//
// Two index conventions are in use across the pack this was grounded on (see DESIGN.md):
// original->new ("Licensee convention") and new->original ("cipher/argsort convention"). Both
// are exposed as distinct named functions rather than picking one silently, since spec.md
// marks this as an open implementer choice that must be resolved consistently per call site.
package permcore

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
)

// ErrLengthMismatch is returned when a buffer's length does not match the permutation's size.
var ErrLengthMismatch = errors.New("permcore: length mismatch")

// ErrInvalidMap is returned when a supplied map is not a valid permutation of [0..N).
var ErrInvalidMap = errors.New("permcore: map is not a valid permutation")

// ScoreParams holds the amplitude A and frequency omega of the scoring function
// score(i) = A*sin(phi + i*omega) + i. The phase phi is passed separately.
type ScoreParams struct {
	Amplitude float64
	Omega     float64
}

// LicenseeParams returns the Licensee/SineShift scoring form: A=1000, omega=0.2,
// phi(s) = 100*s.
func LicenseeParams() ScoreParams {
	return ScoreParams{Amplitude: 1000, Omega: 0.2}
}

// SineScrambleParams returns the SineScramble default scoring form: A=100, omega=0.1.
// The phase multiplier gamma is applied by the caller before computing phi.
func SineScrambleParams() ScoreParams {
	return ScoreParams{Amplitude: 100, Omega: 0.1}
}

// NormalizeLicenseeKey implements the Licensee form's key normalization: if |s| > 2*pi take
// s mod 2*pi; require s >= 0 afterward.
func NormalizeLicenseeKey(s float64) (float64, error) {
	if math.Abs(s) > 2*math.Pi {
		s = math.Mod(s, 2*math.Pi)
	}
	if s < 0 {
		return 0, errors.Newf("permcore: normalized key %f must be >= 0", s)
	}
	return s, nil
}

type scoredIndex struct {
	score float64
	index int
}

// scores computes score(i) = A*sin(phi + i*omega) + i for i in [0..n).
func scores(p ScoreParams, phi float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = p.Amplitude*math.Sin(phi+float64(i)*p.Omega) + float64(i)
	}
	return out
}

func sortedIndices(sc []float64) []scoredIndex {
	pairs := make([]scoredIndex, len(sc))
	for i, s := range sc {
		pairs[i] = scoredIndex{score: s, index: i}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		if pairs[a].score != pairs[b].score {
			return pairs[a].score < pairs[b].score
		}
		return pairs[a].index < pairs[b].index
	})
	return pairs
}

// Map computes the original->new permutation map (the "Licensee convention"): map[original] =
// new_pos. phi is the already-computed key-dependent phase (e.g. 100*s for the Licensee form).
func Map(p ScoreParams, phi float64, n int) []int {
	pairs := sortedIndices(scores(p, phi, n))
	m := make([]int, n)
	for newPos, pr := range pairs {
		m[pr.index] = newPos
	}
	return m
}

// ArgsortMap computes the new->original permutation map (the "cipher convention"):
// out[new] = original. This is what numpy's argsort(scores) yields directly.
func ArgsortMap(p ScoreParams, phi float64, n int) []int {
	pairs := sortedIndices(scores(p, phi, n))
	m := make([]int, n)
	for newPos, pr := range pairs {
		m[newPos] = pr.index
	}
	return m
}

// FractionalScores returns frac(score_i) for i in [0..n), used by SineScramble to derive its
// substitution mask.
func FractionalScores(p ScoreParams, phi float64, n int) []float64 {
	sc := scores(p, phi, n)
	out := make([]float64, n)
	for i, s := range sc {
		out[i] = s - math.Floor(s)
	}
	return out
}

// Invert converts between the two conventions: given an original->new map, returns the
// new->original map, and vice versa (the inversion operation is self-symmetric).
func Invert(m []int) ([]int, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}
	inv := make([]int, len(m))
	for i, j := range m {
		inv[j] = i
	}
	return inv, nil
}

// Validate checks that m is a permutation of [0..len(m)).
func Validate(m []int) error {
	n := len(m)
	seen := make([]bool, n)
	for _, v := range m {
		if v < 0 || v >= n || seen[v] {
			return ErrInvalidMap
		}
		seen[v] = true
	}
	return nil
}

// Apply applies an original->new map: y[map[i]] = x[i].
func Apply(x []byte, m []int) ([]byte, error) {
	if len(x) != len(m) {
		return nil, ErrLengthMismatch
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	y := make([]byte, len(x))
	for i, v := range x {
		y[m[i]] = v
	}
	return y, nil
}

// ApplyInverse applies the inverse of an original->new map: x[inv[new]] = y[new], where inv is
// the map returned by Invert. Equivalently, x[i] = y[m[i]].
func ApplyInverse(y []byte, m []int) ([]byte, error) {
	if len(y) != len(m) {
		return nil, ErrLengthMismatch
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	x := make([]byte, len(y))
	for i, v := range m {
		x[i] = y[v]
	}
	return x, nil
}

// ApplyArgsort applies a new->original map: out[new] = x[m[new]]. This matches the cipher
// convention's forward permutation (data[permutation_map] in the numpy reference).
func ApplyArgsort(x []byte, m []int) ([]byte, error) {
	if len(x) != len(m) {
		return nil, ErrLengthMismatch
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	out := make([]byte, len(x))
	for newPos, orig := range m {
		out[newPos] = x[orig]
	}
	return out, nil
}

// ApplyArgsortInverse applies the inverse of a new->original map: out[m[new]] = x[new].
func ApplyArgsortInverse(x []byte, m []int) ([]byte, error) {
	if len(x) != len(m) {
		return nil, ErrLengthMismatch
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	out := make([]byte, len(x))
	for newPos, orig := range m {
		out[orig] = x[newPos]
	}
	return out, nil
}
