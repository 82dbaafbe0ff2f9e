package licensee

import (
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	priv, err := GenerateKeyPair(1024) // weak key: tests only, keeps key generation fast
	require.NoError(t, err)
	return priv, &priv.PublicKey
}

func TestGenerateValidateRoundTripsWithIncludedSwapParam(t *testing.T) {
	priv, pub := testKeyPair(t)

	key, err := Generate(GenerateOptions{
		PrivateKey:           priv,
		LicensePlan:          3,
		DurationDays:         90,
		KeyHolderGroup:       5,
		UniqueLicenseID:      555555,
		VersionLock:          1,
		UseIncludedSwapParam: true,
		IssuedAt:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, key)

	result, err := Validate(ValidateOptions{
		PublicKey:         pub,
		KeyString:         key,
		CurrentAppVersion: 1,
		Now:               time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, uint8(3), result.Payload.LicensePlan)
	require.Equal(t, uint16(90), result.Payload.DurationDays)
	require.Equal(t, uint32(555555), result.Payload.UniqueLicenseID)
}

func TestGenerateValidateRoundTripsWithHardcodedSwapParam(t *testing.T) {
	priv, pub := testKeyPair(t)
	swap := 0.88 // spec scenario 6

	key, err := Generate(GenerateOptions{
		PrivateKey:           priv,
		LicensePlan:          1,
		DurationDays:         30,
		KeyHolderGroup:       2,
		UniqueLicenseID:      1,
		UseIncludedSwapParam: false,
		FixedSwapParam:       swap,
		IssuedAt:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	result, err := Validate(ValidateOptions{
		PublicKey:          pub,
		KeyString:          key,
		HardcodedSwapParam: &swap,
		Now:                time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, uint8(1), result.Payload.LicensePlan)
}

func TestQuantizeSwapParamMatchesSpecScenarioSix(t *testing.T) {
	// spec scenario 6: fixed_swap_param=0.88 quantizes to field byte 224 (0.88*255 truncated).
	require.Equal(t, uint8(224), quantizeSwapParam(0.88))
}

func TestValidateRejectsExpiredLicense(t *testing.T) {
	priv, pub := testKeyPair(t)

	key, err := Generate(GenerateOptions{
		PrivateKey:           priv,
		DurationDays:         10,
		UseIncludedSwapParam: true,
		IssuedAt:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = Validate(ValidateOptions{
		PublicKey: pub,
		KeyString: key,
		Now:       time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrExpired)
}

func TestValidateRejectsMismatchedVersionLock(t *testing.T) {
	priv, pub := testKeyPair(t)

	key, err := Generate(GenerateOptions{
		PrivateKey:           priv,
		DurationDays:         365,
		VersionLock:          5,
		UseIncludedSwapParam: true,
		IssuedAt:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = Validate(ValidateOptions{
		PublicKey:         pub,
		KeyString:         key,
		CurrentAppVersion: 4,
		Now:               time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrVersionLocked)
}

func TestValidateAllowsVersionLockZeroForAnyHostVersion(t *testing.T) {
	priv, pub := testKeyPair(t)

	key, err := Generate(GenerateOptions{
		PrivateKey:           priv,
		DurationDays:         365,
		VersionLock:          0,
		UseIncludedSwapParam: true,
		IssuedAt:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = Validate(ValidateOptions{
		PublicKey:         pub,
		KeyString:         key,
		CurrentAppVersion: 200,
		Now:               time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func TestValidateRejectsTamperedSignature(t *testing.T) {
	priv, pub := testKeyPair(t)

	key, err := Generate(GenerateOptions{
		PrivateKey:           priv,
		DurationDays:         365,
		UseIncludedSwapParam: true,
		IssuedAt:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	tampered := []byte(key)
	// Flip a character in the middle of the key, away from hyphen positions.
	mid := len(tampered) / 2
	if tampered[mid] == '-' {
		mid++
	}
	if tampered[mid] == '0' {
		tampered[mid] = '1'
	} else {
		tampered[mid] = '0'
	}

	_, err = Validate(ValidateOptions{
		PublicKey: pub,
		KeyString: string(tampered),
		Now:       time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
}
