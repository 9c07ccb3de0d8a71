package jwt

import (
	"crypto/ed25519"
	"fmt"
)

// EdDSAAlgorithm implements EdDSA-based JWT signing (Ed25519)
type EdDSAAlgorithm struct {
	publicKey *Ed25519PublicKey
	secretKey *Ed25519SecretKey
}

// NewEdDSA creates a new EdDSA algorithm instance. secretKey is optional and
// only needed for signing. A nil publicKey is derived from secretKey.
func NewEdDSA(publicKey *Ed25519PublicKey, secretKey *Ed25519SecretKey) (*EdDSAAlgorithm, error) {
	if publicKey == nil {
		if secretKey == nil {
			return nil, ErrMissingKey
		}
		publicKey = secretKey.PublicKey()
	}
	return &EdDSAAlgorithm{
		publicKey: publicKey,
		secretKey: secretKey,
	}, nil
}

// Name returns the algorithm name
func (e *EdDSAAlgorithm) Name() string {
	return AlgEdDSA
}

// Sign creates a detached Ed25519 signature
func (e *EdDSAAlgorithm) Sign(signingInput []byte) ([]byte, error) {
	if e.secretKey == nil {
		return nil, ErrNoSecretKey
	}
	return ed25519.Sign(e.secretKey.key, signingInput), nil
}

// Verify checks a detached Ed25519 signature. A signature of the wrong length
// fails with ErrVerifyInput.
func (e *EdDSAAlgorithm) Verify(signingInput, signature []byte) (bool, error) {
	if len(signature) != ed25519.SignatureSize {
		return false, fmt.Errorf("%w: signature is %d bytes, want %d", ErrVerifyInput, len(signature), ed25519.SignatureSize)
	}
	return ed25519.Verify(e.publicKey.key, signingInput, signature), nil
}
