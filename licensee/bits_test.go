package licensee

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackUnpackBitsToCharsRoundTripsOnByteAlignedInput(t *testing.T) {
	v := new(big.Int).SetUint64(0x1F2F3F4F5F)
	chars := packBitsToChars(v, 40)
	require.Len(t, chars, 8)

	back, err := unpackCharsToBits(chars, 40)
	require.NoError(t, err)
	require.Equal(t, v, back)
}

func TestPackUnpackBitsToCharsRoundTripsOnNonMultipleOfFive(t *testing.T) {
	v := new(big.Int).SetUint64(0b1011001101) // 10 bits
	chars := packBitsToChars(v, 10)
	require.Len(t, chars, 2)

	back, err := unpackCharsToBits(chars, 10)
	require.NoError(t, err)
	require.Equal(t, v, back)
}

func TestUnpackCharsToBitsRejectsUnknownCharacter(t *testing.T) {
	_, err := unpackCharsToBits("I", 5)
	require.ErrorIs(t, err, ErrInvalidCharacter)
}

func TestUnpackCharsToBitsRejectsTooFewCharacters(t *testing.T) {
	_, err := unpackCharsToBits("0", 10)
	require.ErrorIs(t, err, ErrInvalidKeyString)
}

func TestBigIntBytesRoundTripsWithLeftPadding(t *testing.T) {
	v := new(big.Int).SetUint64(0xABCD)
	b := bigIntToBytes(v, 8)
	require.Len(t, b, 8)
	require.Equal(t, v, bytesToBigInt(b))
}

func TestCombineAndSplitValueAndSignatureRoundTrips(t *testing.T) {
	value := new(big.Int).SetUint64(0x3FFFF) // fits in 150 bits trivially
	signature := []byte{0x01, 0x02, 0x03, 0x04}

	combined := combineValueAndSignature(value, signature)
	gotValue, gotSig := splitValueAndSignature(combined, len(signature))

	require.Equal(t, value, gotValue)
	require.Equal(t, signature, gotSig)
}
