package jwt

import (
	"fmt"
	"os"
	"strings"
)

const keyFileMode = 0o600

// LoadSymmetricKey reads a key file holding an unpadded base64url key.
func LoadSymmetricKey(path string) (*SymmetricKey, error) {
	encoded, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	key, err := SymmetricKeyFromEncodedString(encoded)
	if err != nil {
		return nil, fmt.Errorf("key file %q: %w", path, err)
	}
	return key, nil
}

// SaveSymmetricKey writes key to path, readable by the owner only.
func SaveSymmetricKey(path string, key *SymmetricKey) error {
	return writeKeyFile(path, key.Encode())
}

// LoadEd25519SecretKey reads a key file holding an unpadded base64url
// Ed25519 secret key in any of the accepted lengths.
func LoadEd25519SecretKey(path string) (*Ed25519SecretKey, error) {
	encoded, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	key, err := Ed25519SecretKeyFromEncodedString(encoded)
	if err != nil {
		return nil, fmt.Errorf("key file %q: %w", path, err)
	}
	return key, nil
}

// SaveEd25519SecretKey writes key to path, readable by the owner only.
func SaveEd25519SecretKey(path string, key *Ed25519SecretKey) error {
	return writeKeyFile(path, key.Encode())
}

// LoadEd25519PublicKey reads a key file holding an unpadded base64url
// Ed25519 public key.
func LoadEd25519PublicKey(path string) (*Ed25519PublicKey, error) {
	encoded, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	key, err := Ed25519PublicKeyFromEncodedString(encoded)
	if err != nil {
		return nil, fmt.Errorf("key file %q: %w", path, err)
	}
	return key, nil
}

// LoadRSAPrivateKey reads a PEM encoded RSA private key.
func LoadRSAPrivateKey(path string) (*RSAPrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read key file %q: %w", path, err)
	}
	key, err := ParseRSAPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("key file %q: %w", path, err)
	}
	return key, nil
}

// LoadRSAPublicKey reads a PEM encoded RSA public key.
func LoadRSAPublicKey(path string) (*RSAPublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read key file %q: %w", path, err)
	}
	key, err := ParseRSAPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("key file %q: %w", path, err)
	}
	return key, nil
}

func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read key file %q: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func writeKeyFile(path, encoded string) error {
	if err := os.WriteFile(path, []byte(encoded+"\n"), keyFileMode); err != nil {
		return fmt.Errorf("unable to write key file %q: %w", path, err)
	}
	return nil
}
