package sinescramble

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// EncryptFile reads srcPath, encrypts its contents, and writes the ciphertext to dstPath with
// the same file mode as the source.
func (c *Cipher) EncryptFile(srcPath, dstPath string) error {
	return c.transformFile(srcPath, dstPath, c.Encrypt)
}

// DecryptFile reads srcPath, decrypts its contents, and writes the plaintext to dstPath with the
// same file mode as the source.
func (c *Cipher) DecryptFile(srcPath, dstPath string) error {
	return c.transformFile(srcPath, dstPath, c.Decrypt)
}

func (c *Cipher) transformFile(srcPath, dstPath string, transform func([]byte) ([]byte, error)) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		c.logger().Error("sinescramble: stat failed", zap.String("path", srcPath), zap.Error(err))
		return errors.Wrapf(err, "sinescramble: stat %s", srcPath)
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		c.logger().Error("sinescramble: read failed", zap.String("path", srcPath), zap.Error(err))
		return errors.Wrapf(err, "sinescramble: read %s", srcPath)
	}

	out, err := transform(data)
	if err != nil {
		return errors.Wrapf(err, "sinescramble: transform %s", srcPath)
	}

	if err := os.WriteFile(dstPath, out, info.Mode()); err != nil {
		c.logger().Error("sinescramble: write failed", zap.String("path", dstPath), zap.Error(err))
		return errors.Wrapf(err, "sinescramble: write %s", dstPath)
	}
	c.logger().Info("sinescramble: file transform complete",
		zap.String("src", srcPath), zap.String("dst", dstPath), zap.Int("bytes", len(out)))
	return nil
}
