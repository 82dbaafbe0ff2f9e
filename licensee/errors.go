// Package licensee implements the signed, bit-packed license-key codec: pack license fields into
// a 150-bit payload, sign with RSA-PSS, base-32 encode over a confusion-free alphabet, permute
// the character string with the shared sine-scored permutation core, and segment with hyphens.
package licensee

import "github.com/cockroachdb/errors"

var (
	ErrFieldOverflow     = errors.New("licensee: field value exceeds its bit width")
	ErrInvalidKeyString  = errors.New("licensee: key string has the wrong character count")
	ErrInvalidCharacter  = errors.New("licensee: key string contains a character outside the alphabet")
	ErrChecksumMismatch  = errors.New("licensee: checksum verification failed")
	ErrSignatureInvalid  = errors.New("licensee: signature verification failed")
	ErrSwapParamNotFound = errors.New("licensee: no swap parameter candidate decoded a valid payload")
	ErrModeMismatch      = errors.New("licensee: decoded mode_flag does not match the validation path used")
	ErrExpired           = errors.New("licensee: license has expired")
	ErrVersionLocked     = errors.New("licensee: license is locked to a different host version")
)
