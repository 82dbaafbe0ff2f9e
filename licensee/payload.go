package licensee

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Field bit widths, in packing order (spec §3/§4.8).
const (
	modeFlagBits        = 1
	swapParamBits       = 8
	issueDateBits       = 14
	licensePlanBits     = 4
	durationDaysBits    = 10
	keyHolderGroupBits  = 8
	uniqueLicenseIDBits = 32
	versionLockBits     = 8
	checksumBits        = 5

	// TotalBits is the full payload width: fixed fields plus entropy filling the remainder.
	TotalBits = 150
	// PayloadBytes is the byte-aligned serialization size (150 bits rounds up to 19 bytes, with
	// 2 zero padding bits at the end of the 19th byte).
	PayloadBytes = (TotalBits + 7) / 8
)

// Epoch is the fixed reference instant for issue_date_days.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Fields holds the license data fields that are common to both modes (the "mode_flag=0" and
// "mode_flag=1" payload variants differ only in whether swap_param is present).
type Fields struct {
	IssueDateDays   uint16
	LicensePlan     uint8
	DurationDays    uint16
	KeyHolderGroup  uint8
	UniqueLicenseID uint32
	VersionLock     uint8
}

// Payload is a fully decoded (or ready-to-encode) 150-bit license payload.
type Payload struct {
	ModeFlag  bool
	SwapParam uint8 // meaningful only when ModeFlag is true
	Fields
	Checksum    uint8
	Entropy     *big.Int
	EntropyBits int
}

// IssueDateDaysFor computes issue_date_days for a given instant, clamped to [0, 2^14).
func IssueDateDaysFor(now time.Time) uint16 {
	days := int64(now.UTC().Sub(Epoch) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	if days >= 1<<issueDateBits {
		days = (1 << issueDateBits) - 1
	}
	return uint16(days)
}

// computeChecksum sums {mode_flag, issue_date_days, license_plan, duration_days,
// key_holder_group, unique_license_id, version_lock} modulo 2^5. swap_param and entropy are
// excluded.
func computeChecksum(p *Payload) uint8 {
	modeFlagInt := 0
	if p.ModeFlag {
		modeFlagInt = 1
	}
	sum := modeFlagInt +
		int(p.IssueDateDays) +
		int(p.LicensePlan) +
		int(p.DurationDays) +
		int(p.KeyHolderGroup) +
		int(p.UniqueLicenseID) +
		int(p.VersionLock)
	return uint8(sum % 32)
}

func entropyBitsFor(modeFlag bool) int {
	fixed := modeFlagBits + issueDateBits + licensePlanBits + durationDaysBits +
		keyHolderGroupBits + uniqueLicenseIDBits + versionLockBits + checksumBits
	if modeFlag {
		fixed += swapParamBits
	}
	return TotalBits - fixed
}

// randomSwapParamField draws a uniformly random 8-bit swap_param field via crypto/rand, for the
// embedded (mode_flag=1) case where the parameter must be unpredictable without a shared secret.
func randomSwapParamField() (uint8, error) {
	var buf [1]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// randomEntropy draws n random bits via crypto/rand.
func randomEntropy(n int) (*big.Int, error) {
	numBytes := (n + 7) / 8
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	v := bytesToBigInt(buf)
	excess := numBytes*8 - n
	v.Rsh(v, uint(excess))
	return v, nil
}

// pack serializes the payload into its 150-bit value (occupying the low 150 bits of the returned
// big.Int), MSB-first in field order: mode_flag, [swap_param], issue_date_days, license_plan,
// duration_days, key_holder_group, unique_license_id, version_lock, checksum, entropy.
func (p *Payload) pack() *big.Int {
	v := new(big.Int)
	put := func(val uint64, bits int) {
		v.Lsh(v, uint(bits))
		v.Or(v, new(big.Int).SetUint64(val))
	}

	if p.ModeFlag {
		put(1, modeFlagBits)
		put(uint64(p.SwapParam), swapParamBits)
	} else {
		put(0, modeFlagBits)
	}
	put(uint64(p.IssueDateDays), issueDateBits)
	put(uint64(p.LicensePlan), licensePlanBits)
	put(uint64(p.DurationDays), durationDaysBits)
	put(uint64(p.KeyHolderGroup), keyHolderGroupBits)
	put(uint64(p.UniqueLicenseID), uniqueLicenseIDBits)
	put(uint64(p.VersionLock), versionLockBits)
	put(uint64(p.Checksum), checksumBits)

	entropyBits := entropyBitsFor(p.ModeFlag)
	v.Lsh(v, uint(entropyBits))
	if p.Entropy != nil {
		v.Or(v, p.Entropy)
	}
	return v
}

// payloadBytes renders the packed 150-bit value as 19 MSB-aligned bytes (2 zero padding bits at
// the end of the final byte).
func (p *Payload) payloadBytes() []byte {
	v := new(big.Int).Lsh(p.pack(), uint(PayloadBytes*8-TotalBits))
	return bigIntToBytes(v, PayloadBytes)
}

// unpackPayload decodes a 150-bit value (occupying the low 150 bits) into a Payload. modeFlag is
// read from the value itself.
func unpackPayload(v *big.Int) *Payload {
	bitPos := TotalBits
	get := func(bits int) uint64 {
		bitPos -= bits
		chunk := new(big.Int).Rsh(v, uint(bitPos))
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1))
		chunk.And(chunk, mask)
		return chunk.Uint64()
	}

	p := &Payload{}
	p.ModeFlag = get(modeFlagBits) == 1
	if p.ModeFlag {
		p.SwapParam = uint8(get(swapParamBits))
	}
	p.IssueDateDays = uint16(get(issueDateBits))
	p.LicensePlan = uint8(get(licensePlanBits))
	p.DurationDays = uint16(get(durationDaysBits))
	p.KeyHolderGroup = uint8(get(keyHolderGroupBits))
	p.UniqueLicenseID = uint32(get(uniqueLicenseIDBits))
	p.VersionLock = uint8(get(versionLockBits))
	p.Checksum = uint8(get(checksumBits))

	p.EntropyBits = entropyBitsFor(p.ModeFlag)
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(p.EntropyBits)), big.NewInt(1))
	p.Entropy = new(big.Int).And(v, mask)

	return p
}

// payloadValueFromBytes reverses payloadBytes: given the 19-byte MSB-aligned serialization,
// returns the 150-bit value (occupying the low 150 bits).
func payloadValueFromBytes(b []byte) *big.Int {
	v := bytesToBigInt(b)
	return v.Rsh(v, uint(PayloadBytes*8-TotalBits))
}
