// Package sinescramble implements the SineScramble byte-permutation cipher: a sine-scored
// permute-then-XOR round primitive, run in either Multi-Round mode (every key component over the
// whole buffer) or Segmented mode (one key component per contiguous segment).
package sinescramble

import (
	"go.uber.org/zap"

	"github.com/Nackloose/perturbarium/internal/logging"
	"github.com/Nackloose/perturbarium/internal/permcore"
)

// Params holds the cipher's non-key parameters. A, Omega, and Gamma default to 100, 0.1, 1 per
// spec and are part of the configuration, not the key.
type Params struct {
	Amplitude float64
	Omega     float64
	Gamma     float64
}

// DefaultParams returns the spec's default parameter set.
func DefaultParams() Params {
	return Params{Amplitude: 100, Omega: 0.1, Gamma: 1}
}

func (p Params) scoreParams() permcore.ScoreParams {
	return permcore.ScoreParams{Amplitude: p.Amplitude, Omega: p.Omega}
}

// Mode selects how a multi-component key is applied to a buffer.
type Mode int

const (
	// MultiRound applies every key component, in order, over the whole buffer for encryption
	// (and the reverse order for decryption).
	MultiRound Mode = iota
	// Segmented splits the buffer into len(key) contiguous segments (the last segment absorbs
	// any remainder) and transforms segment i once with key component i.
	Segmented
)

// Cipher is a configured SineScramble instance: a key (n real components) plus parameters and a
// mode. It is immutable and safe for concurrent use.
type Cipher struct {
	Key    []float64
	Params Params
	Mode   Mode

	// Logger receives Debug lifecycle events and Warn/Error transform failures. Defaults to a
	// no-op logger; never logs key material.
	Logger *zap.Logger
}

// New constructs a cipher from a key and mode, using DefaultParams.
func New(key []float64, mode Mode) (*Cipher, error) {
	return NewWithParams(key, mode, DefaultParams())
}

// NewWithParams constructs a cipher with explicit parameters.
func NewWithParams(key []float64, mode Mode, params Params) (*Cipher, error) {
	if len(key) == 0 {
		return nil, ErrNoKeyComponents
	}
	return &Cipher{Key: append([]float64{}, key...), Params: params, Mode: mode, Logger: logging.Nop()}, nil
}

func (m Mode) String() string {
	if m == Segmented {
		return "segmented"
	}
	return "multi_round"
}

func (c *Cipher) logger() *zap.Logger {
	if c.Logger == nil {
		return logging.Nop()
	}
	return c.Logger
}

// encryptRound computes the encrypt transform of buf using a single key component: permute by the
// argsort convention, then XOR in the fractional-score substitution mask.
func (c *Cipher) encryptRound(buf []byte, k float64) ([]byte, error) {
	n := len(buf)
	phi := k * c.Params.Gamma
	perm := permcore.ArgsortMap(c.Params.scoreParams(), phi, n)
	mask := permcore.FractionalScores(c.Params.scoreParams(), phi, n)

	permuted, err := permcore.ApplyArgsort(buf, perm)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	for i, b := range permuted {
		out[i] = b ^ maskBit(mask[i])
	}
	return out, nil
}

// decryptRound reverses encryptRound: XOR the mask back in, then apply the inverse permutation.
func (c *Cipher) decryptRound(buf []byte, k float64) ([]byte, error) {
	n := len(buf)
	phi := k * c.Params.Gamma
	perm := permcore.ArgsortMap(c.Params.scoreParams(), phi, n)
	mask := permcore.FractionalScores(c.Params.scoreParams(), phi, n)

	unmasked := make([]byte, n)
	for i, b := range buf {
		unmasked[i] = b ^ maskBit(mask[i])
	}
	return permcore.ApplyArgsortInverse(unmasked, perm)
}

func maskBit(frac float64) byte {
	if frac > 0.5 {
		return 1
	}
	return 0
}

// Encrypt transforms plaintext into ciphertext per the configured mode.
func (c *Cipher) Encrypt(plaintext []byte) ([]byte, error) {
	c.logger().Debug("sinescramble: encrypt",
		zap.String("mode", c.Mode.String()), zap.Int("bytes", len(plaintext)), zap.Int("key_components", len(c.Key)))
	var out []byte
	var err error
	if c.Mode == Segmented {
		out, err = c.encryptSegmented(plaintext)
	} else {
		out, err = c.encryptMultiRound(plaintext)
	}
	if err != nil {
		c.logger().Warn("sinescramble: encrypt failed", zap.Error(err))
	}
	return out, err
}

// Decrypt reverses Encrypt.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	c.logger().Debug("sinescramble: decrypt",
		zap.String("mode", c.Mode.String()), zap.Int("bytes", len(ciphertext)), zap.Int("key_components", len(c.Key)))
	var out []byte
	var err error
	if c.Mode == Segmented {
		out, err = c.decryptSegmented(ciphertext)
	} else {
		out, err = c.decryptMultiRound(ciphertext)
	}
	if err != nil {
		c.logger().Warn("sinescramble: decrypt failed", zap.Error(err))
	}
	return out, err
}

func (c *Cipher) encryptMultiRound(buf []byte) ([]byte, error) {
	out := append([]byte{}, buf...)
	var err error
	for _, k := range c.Key {
		out, err = c.encryptRound(out, k)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Cipher) decryptMultiRound(buf []byte) ([]byte, error) {
	out := append([]byte{}, buf...)
	var err error
	for i := len(c.Key) - 1; i >= 0; i-- {
		out, err = c.decryptRound(out, c.Key[i])
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// segments splits buf into len(c.Key) contiguous segments; the last segment absorbs any
// remainder. Returns an error if buf is shorter than the number of key components.
func (c *Cipher) segments(buf []byte) ([][]byte, error) {
	n := len(c.Key)
	if len(buf) < n {
		return nil, ErrBufferTooShortForSegments
	}
	size := len(buf) / n
	out := make([][]byte, n)
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i == n-1 {
			end = len(buf)
		}
		out[i] = buf[start:end]
		start = end
	}
	return out, nil
}

func (c *Cipher) encryptSegmented(buf []byte) ([]byte, error) {
	segs, err := c.segments(buf)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(buf))
	for i, seg := range segs {
		transformed, err := c.encryptRound(seg, c.Key[i])
		if err != nil {
			return nil, err
		}
		out = append(out, transformed...)
	}
	return out, nil
}

func (c *Cipher) decryptSegmented(buf []byte) ([]byte, error) {
	segs, err := c.segments(buf)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(buf))
	for i, seg := range segs {
		transformed, err := c.decryptRound(seg, c.Key[i])
		if err != nil {
			return nil, err
		}
		out = append(out, transformed...)
	}
	return out, nil
}
