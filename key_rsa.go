package jwt

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"math/big"

	"github.com/goccy/go-json"
)

// MinRSAModulusBytes is the smallest accepted private key modulus, 2048 bits
// (RFC 7518 section 4.2).
const MinRSAModulusBytes = 256

// RSAPublicKey wraps an RSA public key. The underlying *rsa.PublicKey is not
// exposed.
type RSAPublicKey struct {
	key *rsa.PublicKey
}

// RSAPrivateKey wraps an RSA private key of at least 2048 bits. The
// underlying *rsa.PrivateKey is not exposed.
type RSAPrivateKey struct {
	key *rsa.PrivateKey
}

// ParseRSAPublicKey accepts PEM or DER input holding a PKIX public key, a
// PKCS#1 public key or an X.509 certificate.
func ParseRSAPublicKey(data []byte) (*RSAPublicKey, error) {
	der := pemOrDER(data)

	var parsed any
	if pub, err := x509.ParsePKIXPublicKey(der); err == nil {
		parsed = pub
	} else if pub, err := x509.ParsePKCS1PublicKey(der); err == nil {
		parsed = pub
	} else if cert, err := x509.ParseCertificate(der); err == nil {
		parsed = cert.PublicKey
	} else {
		return nil, fmt.Errorf("%w: unable to parse public key", ErrInvalidKey)
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidKey)
	}
	return &RSAPublicKey{key: pub}, nil
}

// ParseRSAPrivateKey accepts PEM or DER input holding a PKCS#1 or PKCS#8
// private key. Keys with a modulus under 2048 bits fail with ErrWeakKey.
func ParseRSAPrivateKey(data []byte) (*RSAPrivateKey, error) {
	der := pemOrDER(data)

	var parsed any
	if priv, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		parsed = priv
	} else if priv, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		parsed = priv
	} else {
		return nil, fmt.Errorf("%w: unable to parse private key", ErrInvalidKey)
	}

	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidKey)
	}
	if priv.Size() < MinRSAModulusBytes {
		return nil, fmt.Errorf("%w: modulus is %d bits", ErrWeakKey, priv.N.BitLen())
	}
	return &RSAPrivateKey{key: priv}, nil
}

// RSAPublicKeyFromEncodedString is the inverse of RSAPublicKey.Encode.
func RSAPublicKeyFromEncodedString(encoded string) (*RSAPublicKey, error) {
	der, err := DecodeUnpadded(encoded)
	if err != nil {
		return nil, err
	}
	return ParseRSAPublicKey(der)
}

// RSAPrivateKeyFromEncodedString is the inverse of RSAPrivateKey.Encode.
func RSAPrivateKeyFromEncodedString(encoded string) (*RSAPrivateKey, error) {
	der, err := DecodeUnpadded(encoded)
	if err != nil {
		return nil, err
	}
	return ParseRSAPrivateKey(der)
}

// Encode returns the PKIX DER encoding as unpadded base64url.
func (k *RSAPublicKey) Encode() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(k.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return EncodeUnpadded(der), nil
}

// PEM returns the key as a "PUBLIC KEY" PEM block.
func (k *RSAPublicKey) PEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(k.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// Size returns the modulus size in bytes.
func (k *RSAPublicKey) Size() int {
	return k.key.Size()
}

type rsaJWK struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSet returns a JWK Set document holding this key.
func (k *RSAPublicKey) JWKSet() ([]byte, error) {
	set := struct {
		Keys []rsaJWK `json:"keys"`
	}{
		Keys: []rsaJWK{{
			Kty: "RSA",
			N:   EncodeUnpadded(k.key.N.Bytes()),
			E:   EncodeUnpadded(big.NewInt(int64(k.key.E)).Bytes()),
		}},
	}

	out, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeJSON, err)
	}
	return out, nil
}

// Encode returns the PKCS#8 DER encoding as unpadded base64url.
func (k *RSAPrivateKey) Encode() (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return EncodeUnpadded(der), nil
}

// PublicKey returns the public half of the key pair.
func (k *RSAPrivateKey) PublicKey() *RSAPublicKey {
	return &RSAPublicKey{key: &k.key.PublicKey}
}

// pemOrDER returns the body of the first PEM block in data, or data itself if
// it holds no PEM block.
func pemOrDER(data []byte) []byte {
	if block, _ := pem.Decode(data); block != nil {
		return block.Bytes
	}
	return data
}
