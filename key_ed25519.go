package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// Ed25519KeyPairSize is the length of a combined secret key and public key blob.
const Ed25519KeyPairSize = ed25519.PrivateKeySize + ed25519.PublicKeySize

// Ed25519SecretKey is an Ed25519 signing key, always held in its 64-byte
// expanded form (seed followed by public key).
type Ed25519SecretKey struct {
	key ed25519.PrivateKey
}

// Ed25519PublicKey is a raw 32-byte Ed25519 public key.
type Ed25519PublicKey struct {
	key ed25519.PublicKey
}

// NewEd25519SecretKey accepts a 32-byte seed, a 64-byte secret key, or a
// 96-byte key pair of which the first 64 bytes are the secret key.
func NewEd25519SecretKey(raw []byte) (*Ed25519SecretKey, error) {
	key := make([]byte, ed25519.PrivateKeySize)
	switch len(raw) {
	case ed25519.SeedSize:
		copy(key, ed25519.NewKeyFromSeed(raw))
	case ed25519.PrivateKeySize, Ed25519KeyPairSize:
		copy(key, raw[:ed25519.PrivateKeySize])
	default:
		return nil, fmt.Errorf("%w: got %d bytes, want %d, %d or %d", ErrKeyLength,
			len(raw), ed25519.SeedSize, ed25519.PrivateKeySize, Ed25519KeyPairSize)
	}
	return &Ed25519SecretKey{key: key}, nil
}

// GenerateEd25519SecretKey generates a new Ed25519 key pair and returns its
// secret half.
func GenerateEd25519SecretKey() (*Ed25519SecretKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	return &Ed25519SecretKey{key: priv}, nil
}

// Ed25519SecretKeyFromEncodedString is the inverse of Encode.
func Ed25519SecretKeyFromEncodedString(encoded string) (*Ed25519SecretKey, error) {
	raw, err := DecodeUnpadded(encoded)
	if err != nil {
		return nil, err
	}
	return NewEd25519SecretKey(raw)
}

// Encode returns the 64-byte secret key as unpadded base64url.
func (k *Ed25519SecretKey) Encode() string {
	return EncodeUnpadded(k.key)
}

// PublicKey derives the public key.
func (k *Ed25519SecretKey) PublicKey() *Ed25519PublicKey {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, k.key[ed25519.SeedSize:])
	return &Ed25519PublicKey{key: pub}
}

// Bytes returns a copy of the 64-byte secret key.
func (k *Ed25519SecretKey) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key)
	return out
}

// NewEd25519PublicKey copies raw into a new key. raw must be exactly 32 bytes.
func NewEd25519PublicKey(raw []byte) (*Ed25519PublicKey, error) {
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrKeyLength, len(raw), ed25519.PublicKeySize)
	}

	key := make([]byte, ed25519.PublicKeySize)
	copy(key, raw)
	return &Ed25519PublicKey{key: key}, nil
}

// Ed25519PublicKeyFromEncodedString is the inverse of Encode.
func Ed25519PublicKeyFromEncodedString(encoded string) (*Ed25519PublicKey, error) {
	raw, err := DecodeUnpadded(encoded)
	if err != nil {
		return nil, err
	}
	return NewEd25519PublicKey(raw)
}

// Encode returns the key as unpadded base64url.
func (k *Ed25519PublicKey) Encode() string {
	return EncodeUnpadded(k.key)
}

// KeyID returns base64url(SHA-256(key)), suitable as a "kid" header value.
func (k *Ed25519PublicKey) KeyID() string {
	sum := sha256.Sum256(k.key)
	return EncodeUnpadded(sum[:])
}

// Bytes returns a copy of the raw key.
func (k *Ed25519PublicKey) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key)
	return out
}
