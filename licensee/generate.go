package licensee

import (
	"crypto/rsa"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/Nackloose/perturbarium/internal/logging"
)

// GenerateOptions configures key generation.
type GenerateOptions struct {
	PrivateKey *rsa.PrivateKey

	LicensePlan     uint8
	DurationDays    uint16
	KeyHolderGroup  uint8
	UniqueLicenseID uint32
	VersionLock     uint8

	// IssuedAt overrides the issue instant used to compute issue_date_days; zero value means now.
	IssuedAt time.Time

	// UseIncludedSwapParam selects mode_flag=1: a fresh, unpredictable swap parameter is drawn and
	// embedded in the payload itself, so validators recover it without a shared secret by trying
	// all 256 field values.
	// FixedSwapParam is ignored in this case. When false (mode_flag=0), FixedSwapParam, a real
	// value in [0,1], names the out-of-band swap parameter shared with validators.
	UseIncludedSwapParam bool
	FixedSwapParam       float64

	// Logger receives Debug/Info lifecycle events and Warn/Error failures. Defaults to a no-op
	// logger.
	Logger *zap.Logger
}

func (o GenerateOptions) validate() error {
	if o.PrivateKey == nil {
		return errors.New("licensee: GenerateOptions.PrivateKey is required")
	}
	if o.LicensePlan >= 1<<licensePlanBits {
		return ErrFieldOverflow
	}
	if o.DurationDays >= 1<<durationDaysBits {
		return ErrFieldOverflow
	}
	if !o.UseIncludedSwapParam && (o.FixedSwapParam < 0 || o.FixedSwapParam > 1) {
		return errors.New("licensee: GenerateOptions.FixedSwapParam must be in [0,1]")
	}
	return nil
}

// Generate builds a complete signed, permuted, hyphenated license key string.
func Generate(opts GenerateOptions) (string, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	if err := opts.validate(); err != nil {
		logger.Warn("licensee: generate rejected invalid options", zap.Error(err))
		return "", err
	}

	issuedAt := opts.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	var swapParamField uint8
	if opts.UseIncludedSwapParam {
		field, err := randomSwapParamField()
		if err != nil {
			logger.Error("licensee: generate failed to draw swap_param", zap.Error(err))
			return "", err
		}
		swapParamField = field
	} else {
		swapParamField = quantizeSwapParam(opts.FixedSwapParam)
	}

	payload := &Payload{
		ModeFlag:  opts.UseIncludedSwapParam,
		SwapParam: swapParamField,
		Fields: Fields{
			IssueDateDays:   IssueDateDaysFor(issuedAt),
			LicensePlan:     opts.LicensePlan,
			DurationDays:    opts.DurationDays,
			KeyHolderGroup:  opts.KeyHolderGroup,
			UniqueLicenseID: opts.UniqueLicenseID,
			VersionLock:     opts.VersionLock,
		},
	}
	payload.Checksum = computeChecksum(payload)

	entropyBits := entropyBitsFor(payload.ModeFlag)
	entropy, err := randomEntropy(entropyBits)
	if err != nil {
		logger.Error("licensee: generate failed to draw entropy", zap.Error(err))
		return "", err
	}
	payload.Entropy = entropy
	payload.EntropyBits = entropyBits

	payloadBytes := payload.payloadBytes()
	signature, err := signPayload(opts.PrivateKey, payloadBytes)
	if err != nil {
		logger.Error("licensee: generate failed to sign payload", zap.Error(err))
		return "", err
	}

	payloadValue := payload.pack()
	totalBits := TotalBits + 8*len(signature)
	combined := combineValueAndSignature(payloadValue, signature)

	chars := packBitsToChars(combined, totalBits)

	permuted, err := permuteChars(chars, swapParamField)
	if err != nil {
		logger.Error("licensee: generate failed to permute key string", zap.Error(err))
		return "", err
	}

	key := Hyphenate(permuted, 5)
	logger.Info("licensee: generated license key",
		zap.Bool("mode_flag", payload.ModeFlag),
		zap.Uint8("license_plan", payload.LicensePlan),
		zap.Uint32("unique_license_id", payload.UniqueLicenseID),
	)
	return key, nil
}
