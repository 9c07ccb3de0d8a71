package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
)

// HMACAlgorithm implements HS256 (HMAC-SHA256) signing
type HMACAlgorithm struct {
	key *SymmetricKey
}

// NewHS256 creates a new HMAC-SHA256 algorithm instance
func NewHS256(key *SymmetricKey) (*HMACAlgorithm, error) {
	if key == nil {
		return nil, ErrMissingKey
	}
	return &HMACAlgorithm{key: key}, nil
}

// Name returns the algorithm name
func (h *HMACAlgorithm) Name() string {
	return AlgHS256
}

// Sign returns the raw 32-byte HMAC of the signing input
func (h *HMACAlgorithm) Sign(signingInput []byte) ([]byte, error) {
	return h.sum(signingInput), nil
}

// Verify compares signatures in constant time
func (h *HMACAlgorithm) Verify(signingInput, signature []byte) (bool, error) {
	return hmac.Equal(h.sum(signingInput), signature), nil
}

func (h *HMACAlgorithm) sum(signingInput []byte) []byte {
	mac := hmac.New(sha256.New, h.key.key)
	mac.Write(signingInput)
	return mac.Sum(nil)
}
