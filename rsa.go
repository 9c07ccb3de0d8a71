package jwt

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
)

// RSAAlgorithm implements RS256 (RSASSA-PKCS1-v1_5 with SHA-256) signing
type RSAAlgorithm struct {
	publicKey  *RSAPublicKey
	privateKey *RSAPrivateKey
}

// NewRS256 creates a new RS256 algorithm instance. privateKey is optional;
// without it the instance can only verify.
func NewRS256(publicKey *RSAPublicKey, privateKey *RSAPrivateKey) (*RSAAlgorithm, error) {
	if publicKey == nil {
		return nil, ErrMissingKey
	}
	return &RSAAlgorithm{
		publicKey:  publicKey,
		privateKey: privateKey,
	}, nil
}

// NewRS256WithPrivateKey creates an RS256 instance that signs with
// privateKey and verifies with its public half
func NewRS256WithPrivateKey(privateKey *RSAPrivateKey) (*RSAAlgorithm, error) {
	if privateKey == nil {
		return nil, ErrMissingKey
	}
	return NewRS256(privateKey.PublicKey(), privateKey)
}

// Name returns the algorithm name
func (r *RSAAlgorithm) Name() string {
	return AlgRS256
}

// Sign signs the signing input using the private key
func (r *RSAAlgorithm) Sign(signingInput []byte) ([]byte, error) {
	if r.privateKey == nil {
		return nil, ErrNoPrivateKey
	}

	h := sha256.Sum256(signingInput)
	signature, err := rsa.SignPKCS1v15(rand.Reader, r.privateKey.key, crypto.SHA256, h[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSign, err)
	}
	return signature, nil
}

// Verify checks the signature using the public key
func (r *RSAAlgorithm) Verify(signingInput, signature []byte) (bool, error) {
	h := sha256.Sum256(signingInput)
	err := rsa.VerifyPKCS1v15(r.publicKey.key, crypto.SHA256, h[:], signature)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, rsa.ErrVerification):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCryptoBackend, err)
	}
}
