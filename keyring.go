package jwt

import (
	"fmt"
	"sync"
	"time"
)

// Keyring decodes tokens signed by any of several keys of one algorithm,
// choosing the key by the token's "kid" header. It supports key rollover:
// add the new key, start signing with it, remove the old one later.
//
// A Keyring is safe for concurrent use.
type Keyring struct {
	algorithm string
	opts      []Option

	mu         sync.RWMutex
	algorithms map[string]Algorithm
}

// NewKeyring creates an empty keyring for algorithm, e.g. AlgEdDSA. opts are
// applied to the engine used for every Decode.
func NewKeyring(algorithm string, opts ...Option) *Keyring {
	return &Keyring{
		algorithm:  algorithm,
		opts:       opts,
		algorithms: make(map[string]Algorithm),
	}
}

// Add registers algorithm under keyID, replacing any previous entry.
func (k *Keyring) Add(keyID string, algorithm Algorithm) error {
	if algorithm == nil {
		return ErrNilAlgorithm
	}
	if keyID == "" {
		return ErrKeyIDMissing
	}
	if algorithm.Name() != k.algorithm {
		return fmt.Errorf("%w: got %s, want %s", ErrAlgorithmMismatch, algorithm.Name(), k.algorithm)
	}

	k.mu.Lock()
	k.algorithms[keyID] = algorithm
	k.mu.Unlock()
	return nil
}

// Remove drops keyID.
func (k *Keyring) Remove(keyID string) {
	k.mu.Lock()
	delete(k.algorithms, keyID)
	k.mu.Unlock()
}

// Len returns the number of registered keys.
func (k *Keyring) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.algorithms)
}

// Decode selects the key named by the token's "kid" header and fully decodes
// the token with it. Tokens without "kid" fail with ErrKeyIDMissing, tokens
// naming an unregistered key with ErrUnknownKeyID.
func (k *Keyring) Decode(tokenString string) (*Claims, error) {
	return k.decode(tokenString, k.opts)
}

// DecodeAt is Decode with "exp" and "nbf" checked against now.
func (k *Keyring) DecodeAt(tokenString string, now time.Time) (*Claims, error) {
	opts := make([]Option, 0, len(k.opts)+1)
	opts = append(opts, k.opts...)
	opts = append(opts, WithTime(now))
	return k.decode(tokenString, opts)
}

func (k *Keyring) decode(tokenString string, opts []Option) (*Claims, error) {
	keyID, ok, err := ExtractKeyID(tokenString, k.algorithm)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrKeyIDMissing
	}

	k.mu.RLock()
	algorithm, ok := k.algorithms[keyID]
	k.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyID, keyID)
	}

	engine, err := NewEngine(algorithm, opts...)
	if err != nil {
		return nil, err
	}
	return engine.Decode(tokenString)
}
