package licensee

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/cockroachdb/errors"
)

// GenerateKeyPair creates a new RSA key pair of the given modulus size, matching the reference
// implementation's default of a 2048-bit signing key.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errors.Wrap(err, "licensee: generating key pair")
	}
	return key, nil
}

// SavePrivateKey writes priv to path as an unencrypted PKCS8 PEM block with file mode 0600. It
// takes no passphrase and does not encrypt the key.
func SavePrivateKey(priv *rsa.PrivateKey, path string) error {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return errors.Wrap(err, "licensee: marshaling private key")
	}
	block := &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	return os.WriteFile(path, pem.EncodeToMemory(block), 0o600)
}

// SavePublicKey writes pub to path as a SubjectPublicKeyInfo PEM block.
func SavePublicKey(pub *rsa.PublicKey, path string) error {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return errors.Wrap(err, "licensee: marshaling public key")
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return os.WriteFile(path, pem.EncodeToMemory(block), 0o644)
}

// LoadPrivateKey reads a PKCS8 PEM-encoded RSA private key from path.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "licensee: reading private key file")
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("licensee: no PEM block found in private key file")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "licensee: parsing private key")
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("licensee: private key is not an RSA key")
	}
	return rsaKey, nil
}

// LoadPublicKey reads a SubjectPublicKeyInfo PEM-encoded RSA public key from path.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "licensee: reading public key file")
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("licensee: no PEM block found in public key file")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(err, "licensee: parsing public key")
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("licensee: public key is not an RSA key")
	}
	return rsaKey, nil
}
