package licensee

import "github.com/Nackloose/perturbarium/internal/permcore"

// swapParamToKey converts an 8-bit swap_param field into the Licensee form's real-valued key in
// [0,1], per the reference implementation's swap_param / 255.0 ((1<<8)-1) convention.
func swapParamToKey(swapParam uint8) float64 {
	return float64(swapParam) / 255.0
}

// quantizeSwapParam maps a real-valued swap parameter in [0,1] to its 8-bit field encoding,
// matching the reference implementation's int(value * ((1<<8)-1)) truncation.
func quantizeSwapParam(value float64) uint8 {
	return uint8(value * 255.0)
}

// permuteChars applies the Licensee-convention permutation to s, keyed by swapParam.
func permuteChars(s string, swapParam uint8) (string, error) {
	key, err := permcore.NormalizeLicenseeKey(swapParamToKey(swapParam))
	if err != nil {
		return "", err
	}
	params := permcore.LicenseeParams()
	phi := 100 * key
	m := permcore.Map(params, phi, len(s))
	out, err := permcore.Apply([]byte(s), m)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// unpermuteChars reverses permuteChars.
func unpermuteChars(s string, swapParam uint8) (string, error) {
	key, err := permcore.NormalizeLicenseeKey(swapParamToKey(swapParam))
	if err != nil {
		return "", err
	}
	params := permcore.LicenseeParams()
	phi := 100 * key
	m := permcore.Map(params, phi, len(s))
	out, err := permcore.ApplyInverse([]byte(s), m)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
