package jwt

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// SymmetricKeySize is the length of an HS256 key, the size of a SHA-256 digest.
const SymmetricKeySize = 32

// SymmetricKey is an HS256 secret. It is immutable after construction.
type SymmetricKey struct {
	key []byte
}

// NewSymmetricKey copies raw into a new key. raw must be exactly 32 bytes.
func NewSymmetricKey(raw []byte) (*SymmetricKey, error) {
	if len(raw) != SymmetricKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrKeyLength, len(raw), SymmetricKeySize)
	}

	key := make([]byte, SymmetricKeySize)
	copy(key, raw)
	return &SymmetricKey{key: key}, nil
}

// GenerateSymmetricKey draws a fresh key from crypto/rand.
func GenerateSymmetricKey() (*SymmetricKey, error) {
	raw := make([]byte, SymmetricKeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate symmetric key: %w", err)
	}
	return &SymmetricKey{key: raw}, nil
}

// SymmetricKeyFromEncodedString is the inverse of Encode.
func SymmetricKeyFromEncodedString(encoded string) (*SymmetricKey, error) {
	raw, err := DecodeUnpadded(encoded)
	if err != nil {
		return nil, err
	}
	return NewSymmetricKey(raw)
}

// Encode returns the key as unpadded base64url.
func (k *SymmetricKey) Encode() string {
	return EncodeUnpadded(k.key)
}

// KeyID returns base64url(SHA-256(key)), suitable as a "kid" header value.
func (k *SymmetricKey) KeyID() string {
	sum := sha256.Sum256(k.key)
	return EncodeUnpadded(sum[:])
}

// Bytes returns a copy of the raw key.
func (k *SymmetricKey) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key)
	return out
}
