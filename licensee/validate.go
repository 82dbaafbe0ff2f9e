package licensee

import (
	"crypto/rsa"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/Nackloose/perturbarium/internal/logging"
)

// ValidateOptions configures license key validation.
type ValidateOptions struct {
	PublicKey *rsa.PublicKey
	KeyString string

	// CurrentAppVersion gates VersionLock: when the decoded VersionLock is nonzero, it must equal
	// this value. A decoded VersionLock of 0 bypasses the check entirely.
	CurrentAppVersion uint8

	// HardcodedSwapParam, when non-nil, is a real value in [0,1] used directly instead of
	// brute-forcing the embedded swap_param field. Use this for mode_flag=0 keys, where no
	// swap_param is embedded.
	HardcodedSwapParam *float64

	// Now overrides the instant used for expiry checks; zero value means time.Now().
	Now time.Time

	// Logger receives Debug/Info lifecycle events and Warn/Error failures. Defaults to a no-op
	// logger.
	Logger *zap.Logger
}

// ValidationResult is the decoded, verified contents of a license key.
type ValidationResult struct {
	Payload   *Payload
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Validate decodes, un-permutes, verifies, and checks a license key string end to end.
func Validate(opts ValidateOptions) (*ValidationResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	if opts.PublicKey == nil {
		return nil, errors.New("licensee: ValidateOptions.PublicKey is required")
	}

	stripped := StripHyphens(opts.KeyString)
	sigLen := opts.PublicKey.Size()
	totalBits := TotalBits + 8*sigLen
	expectedChars := (totalBits + 4) / 5
	if len(stripped) != expectedChars {
		logger.Warn("licensee: validate rejected malformed key string",
			zap.Int("got_chars", len(stripped)), zap.Int("want_chars", expectedChars))
		return nil, ErrInvalidKeyString
	}

	var payload *Payload
	var signature []byte

	if opts.HardcodedSwapParam != nil {
		field := quantizeSwapParam(*opts.HardcodedSwapParam)
		p, sig, err := decodeWithSwapParam(stripped, field, sigLen)
		if err != nil {
			logger.Warn("licensee: validate failed to decode with hardcoded swap_param", zap.Error(err))
			return nil, err
		}
		if p.ModeFlag {
			logger.Warn("licensee: validate rejected mode_flag=1 key on the hardcoded swap_param path")
			return nil, ErrModeMismatch
		}
		payload, signature = p, sig
	} else {
		found := false
		for candidate := 0; candidate < 256; candidate++ {
			p, sig, err := decodeWithSwapParam(stripped, uint8(candidate), sigLen)
			if err != nil {
				continue
			}
			if !p.ModeFlag || int(p.SwapParam) != candidate {
				continue
			}
			if computeChecksum(p) != p.Checksum {
				continue
			}
			payload, signature = p, sig
			found = true
			break
		}
		if !found {
			logger.Warn("licensee: validate failed to recover embedded swap_param by brute force")
			return nil, ErrSwapParamNotFound
		}
		logger.Debug("licensee: validate recovered embedded swap_param", zap.Uint8("swap_param", payload.SwapParam))
	}

	if computeChecksum(payload) != payload.Checksum {
		logger.Warn("licensee: validate rejected checksum mismatch")
		return nil, ErrChecksumMismatch
	}

	if err := verifyPayload(opts.PublicKey, payload.payloadBytes(), signature); err != nil {
		logger.Warn("licensee: validate rejected invalid signature", zap.Error(err))
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	issuedAt := Epoch.Add(time.Duration(payload.IssueDateDays) * 24 * time.Hour)
	expiresAt := issuedAt.Add(time.Duration(payload.DurationDays) * 24 * time.Hour)
	if now.After(expiresAt) {
		logger.Info("licensee: validate rejected expired key", zap.Time("expired_at", expiresAt))
		return nil, ErrExpired
	}

	if payload.VersionLock != 0 && payload.VersionLock != opts.CurrentAppVersion {
		logger.Info("licensee: validate rejected version lock mismatch",
			zap.Uint8("required", payload.VersionLock), zap.Uint8("got", opts.CurrentAppVersion))
		return nil, ErrVersionLocked
	}

	logger.Info("licensee: validated license key",
		zap.Uint8("license_plan", payload.LicensePlan),
		zap.Uint32("unique_license_id", payload.UniqueLicenseID),
	)
	return &ValidationResult{Payload: payload, IssuedAt: issuedAt, ExpiresAt: expiresAt}, nil
}

// decodeWithSwapParam un-permutes stripped with swapParam and decodes the resulting bit stream
// into a payload and signature, without checking the checksum or signature.
func decodeWithSwapParam(stripped string, swapParam uint8, sigLen int) (*Payload, []byte, error) {
	unpermuted, err := unpermuteChars(stripped, swapParam)
	if err != nil {
		return nil, nil, err
	}
	totalBits := TotalBits + 8*sigLen
	combined, err := unpackCharsToBits(unpermuted, totalBits)
	if err != nil {
		return nil, nil, err
	}
	payloadValue, signature := splitValueAndSignature(combined, sigLen)
	payload := unpackPayload(payloadValue)
	return payload, signature, nil
}
