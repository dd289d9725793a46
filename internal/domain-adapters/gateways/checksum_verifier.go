package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// checksumVerifier verifies SHA-256 digests of uploaded files
type checksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumVerifier() *checksumVerifier {
	return &checksumVerifier{}
}

// VerifyChecksum verifies a file's SHA-256 checksum. The expected value is
// compared case-insensitively and may carry a "sha256:" prefix.
func (v *checksumVerifier) VerifyChecksum(filePath, expectedSum string) error {
	actualSum, err := v.CalculateChecksum(filePath)
	if err != nil {
		return err
	}

	expected := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(expectedSum), "sha256:"))
	if actualSum != expected {
		return errors.Newf("checksum mismatch: expected %s, got %s", expected, actualSum)
	}
	return nil
}

// CalculateChecksum calculates the SHA-256 checksum of a file
func (v *checksumVerifier) CalculateChecksum(filePath string) (string, error) {
	//nolint:gosec // G304: File path is a spooled upload
	f, err := os.Open(filePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to open file")
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "failed to hash file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
