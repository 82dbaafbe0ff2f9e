package licensee

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"

	"github.com/cockroachdb/errors"
)

// pssOptions mirrors the reference implementation's signing parameters: MGF1 with SHA-256 and a
// salt length equal to the maximum permitted for the key size.
var pssOptions = &rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA256,
}

// signPayload signs the 19-byte serialized payload with RSA-PSS/SHA-256.
func signPayload(priv *rsa.PrivateKey, payload []byte) ([]byte, error) {
	digest := sha256.Sum256(payload)
	sig, err := rsa.SignPSS(rand.Reader, priv, crypto.SHA256, digest[:], pssOptions)
	if err != nil {
		return nil, errors.Wrap(err, "licensee: signing payload")
	}
	return sig, nil
}

// verifyPayload verifies an RSA-PSS/SHA-256 signature over the 19-byte serialized payload.
func verifyPayload(pub *rsa.PublicKey, payload, signature []byte) error {
	digest := sha256.Sum256(payload)
	if err := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], signature, pssOptions); err != nil {
		return errors.Mark(err, ErrSignatureInvalid)
	}
	return nil
}
