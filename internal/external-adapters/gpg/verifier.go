// Package gpg provides detached OpenPGP signature verification for uploads.
package gpg

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/cockroachdb/errors"
)

const (
	armoredSignaturePrefix = "-----BEGIN PGP SIGNATURE---"
	maxSignatureBytes      = 64 * 1024
	maxKeyringBytes        = 10 * 1024 * 1024
)

// Verifier checks detached signatures against a trusted keyring.
// It is safe for concurrent use once keys are loaded.
type Verifier struct {
	mu      sync.RWMutex
	keyring openpgp.EntityList
}

// NewVerifier creates a verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{keyring: make(openpgp.EntityList, 0)}
}

// ImportKeyFromFile loads armored or binary public keys from keyPath
func (v *Verifier) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath comes from operator configuration
	data, err := os.ReadFile(keyPath)
	if err != nil {
		return errors.Wrap(err, "failed to open key file")
	}
	return v.ImportKeys(data)
}

// ImportKeys loads armored or binary public keys from raw bytes
func (v *Verifier) ImportKeys(data []byte) error {
	if len(data) > maxKeyringBytes {
		return errors.Newf("keyring too large: %d bytes", len(data))
	}

	entities, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		entities, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return errors.Wrap(err, "failed to read key")
		}
	}
	if len(entities) == 0 {
		return errors.New("no keys found in keyring")
	}

	v.mu.Lock()
	v.keyring = append(v.keyring, entities...)
	v.mu.Unlock()
	return nil
}

// KeyCount returns the number of loaded keys
func (v *Verifier) KeyCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keyring)
}

// VerifyDetachedFile verifies that sigPath is a valid signature of filePath
func (v *Verifier) VerifyDetachedFile(filePath, sigPath string) error {
	//nolint:gosec // G304: sigPath is a spooled upload inside the server's temp area
	sig, err := os.Open(sigPath)
	if err != nil {
		return errors.Wrap(err, "failed to open signature file")
	}
	//nolint:errcheck // Defer close on read-only file
	defer sig.Close()

	return v.VerifyDetached(filePath, io.LimitReader(sig, maxSignatureBytes))
}

// VerifyDetached verifies an armored or binary detached signature of filePath
func (v *Verifier) VerifyDetached(filePath string, signature io.Reader) error {
	v.mu.RLock()
	keyring := v.keyring
	v.mu.RUnlock()

	if len(keyring) == 0 {
		return errors.New("no keys loaded, cannot verify signature")
	}

	sigData, err := io.ReadAll(io.LimitReader(signature, maxSignatureBytes))
	if err != nil {
		return errors.Wrap(err, "failed to read signature")
	}
	if len(sigData) < 10 {
		return errors.New("signature too small to be a valid OpenPGP signature")
	}

	//nolint:gosec // G304: filePath is a spooled upload inside the server's temp area
	f, err := os.Open(filePath)
	if err != nil {
		return errors.Wrap(err, "failed to open data file")
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	if bytes.HasPrefix(sigData, []byte(armoredSignaturePrefix)) {
		_, err = openpgp.CheckArmoredDetachedSignature(keyring, f, bytes.NewReader(sigData), nil)
	} else {
		_, err = openpgp.CheckDetachedSignature(keyring, f, bytes.NewReader(sigData), nil)
	}
	if err != nil {
		return errors.Wrap(err, "signature verification failed")
	}
	return nil
}
