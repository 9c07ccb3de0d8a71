package jwt

import (
	"fmt"
	"strings"
	"time"
)

const (
	headerAlgorithm = "alg"
	headerType      = "typ"
	headerKeyID     = "kid"
	headerCritical  = "crit"

	tokenType = "JWT"
)

// Engine encodes and decodes compact JWTs with a single algorithm.
//
// Encode, Decode and ExtractKeyID are safe for concurrent use. SetKeyID,
// SetTime and ClearTime are not; call them before sharing the engine.
type Engine struct {
	algorithm Algorithm
	keyID     string
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithKeyID adds a "kid" header to every encoded token.
func WithKeyID(keyID string) Option {
	return func(e *Engine) {
		e.keyID = keyID
	}
}

// WithTime fixes the time used to check "exp" and "nbf".
func WithTime(t time.Time) Option {
	return func(e *Engine) {
		e.now = func() time.Time { return t }
	}
}

// WithClock sets the function used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine for algorithm.
func NewEngine(algorithm Algorithm, opts ...Option) (*Engine, error) {
	if algorithm == nil {
		return nil, ErrNilAlgorithm
	}

	e := &Engine{algorithm: algorithm}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Algorithm returns the JOSE "alg" identifier of the engine's algorithm.
func (e *Engine) Algorithm() string {
	return e.algorithm.Name()
}

// SetKeyID sets the "kid" header of subsequently encoded tokens. An empty
// keyID removes it.
func (e *Engine) SetKeyID(keyID string) {
	e.keyID = keyID
}

// SetTime overrides the current time for expiry checks. Meant for tests.
func (e *Engine) SetTime(t time.Time) {
	e.now = func() time.Time { return t }
}

// ClearTime restores the wall clock.
func (e *Engine) ClearTime() {
	e.now = nil
}

// Encode signs claims and returns the compact serialization. A nil claims
// value encodes as an empty object.
func (e *Engine) Encode(claims *Claims) (string, error) {
	header := NewClaims().
		Set(headerAlgorithm, e.algorithm.Name()).
		Set(headerType, tokenType)
	if e.keyID != "" {
		header.Set(headerKeyID, e.keyID)
	}

	headerJSON, err := EncodeJSON(header)
	if err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}
	claimsJSON, err := EncodeJSON(claims)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}

	headerB64 := EncodeUnpadded(headerJSON)
	claimsB64 := EncodeUnpadded(claimsJSON)

	var builder strings.Builder
	builder.Grow(len(headerB64) + 1 + len(claimsB64) + 1 + 344)

	builder.WriteString(headerB64)
	builder.WriteByte('.')
	builder.WriteString(claimsB64)

	signature, err := e.algorithm.Sign([]byte(builder.String()))
	if err != nil {
		return "", err
	}

	builder.WriteByte('.')
	builder.WriteString(EncodeUnpadded(signature))

	return builder.String(), nil
}

// Decode verifies tokenString and returns its claims.
//
// The header "alg" must match the engine's algorithm before the signature is
// checked at all. Claims are only parsed once the signature is valid.
func (e *Engine) Decode(tokenString string) (*Claims, error) {
	parts, err := splitToken(tokenString)
	if err != nil {
		return nil, err
	}

	if _, err := parseHeader(parts[0], e.algorithm.Name()); err != nil {
		return nil, err
	}

	if err := e.verifySignature(parts); err != nil {
		return nil, err
	}

	claims, err := parseClaims(parts[1])
	if err != nil {
		return nil, err
	}

	if err := validateTemporalClaims(claims, e.currentTime()); err != nil {
		return nil, err
	}

	return claims, nil
}

// ExtractKeyID returns the "kid" header of tokenString without verifying the
// signature. See the package-level ExtractKeyID.
func (e *Engine) ExtractKeyID(tokenString string) (string, bool, error) {
	return ExtractKeyID(tokenString, e.algorithm.Name())
}

// ExtractKeyID parses the header of tokenString, checks that its "alg" equals
// algorithm, and returns its "kid" value if present.
//
// The signature is NOT verified. The result is only good for choosing which
// key to decode with; it must not be trusted until Decode with that key
// succeeds.
func ExtractKeyID(tokenString, algorithm string) (string, bool, error) {
	parts, err := splitToken(tokenString)
	if err != nil {
		return "", false, err
	}

	header, err := parseHeader(parts[0], algorithm)
	if err != nil {
		return "", false, err
	}

	raw, ok := header.Get(headerKeyID)
	if !ok {
		return "", false, nil
	}
	keyID, ok := raw.(string)
	if !ok {
		return "", false, ErrKeyIDType
	}
	return keyID, true, nil
}

func (e *Engine) currentTime() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// splitToken splits a compact JWT into exactly three parts
func splitToken(tokenString string) ([3]string, error) {
	var parts [3]string

	firstDot := strings.IndexByte(tokenString, '.')
	if firstDot == -1 {
		return parts, fmt.Errorf("%w: expected 3 parts", ErrMalformedToken)
	}

	secondDot := strings.IndexByte(tokenString[firstDot+1:], '.')
	if secondDot == -1 {
		return parts, fmt.Errorf("%w: expected 3 parts", ErrMalformedToken)
	}
	secondDot += firstDot + 1

	if strings.IndexByte(tokenString[secondDot+1:], '.') != -1 {
		return parts, fmt.Errorf("%w: expected 3 parts", ErrMalformedToken)
	}

	parts[0] = tokenString[:firstDot]
	parts[1] = tokenString[firstDot+1 : secondDot]
	parts[2] = tokenString[secondDot+1:]
	return parts, nil
}

// parseHeader decodes the header and checks "alg" and "crit"
func parseHeader(headerPart, algorithm string) (*Claims, error) {
	headerJSON, err := DecodeUnpadded(headerPart)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	header, err := DecodeJSON(headerJSON)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	alg, ok := header.Get(headerAlgorithm)
	if !ok {
		return nil, ErrHeaderMissingAlg
	}
	if alg != algorithm {
		return nil, fmt.Errorf("%w: got %v, want %s", ErrAlgorithmMismatch, alg, algorithm)
	}
	if header.Has(headerCritical) {
		return nil, ErrUnsupportedCriticalHeader
	}

	return header, nil
}

// verifySignature verifies the signature over "header.claims"
func (e *Engine) verifySignature(parts [3]string) error {
	signature, err := DecodeUnpadded(parts[2])
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}

	signingInput := parts[0] + "." + parts[1]
	valid, err := e.algorithm.Verify([]byte(signingInput), signature)
	if err != nil {
		return err
	}
	if !valid {
		return ErrInvalidSignature
	}
	return nil
}

// parseClaims decodes the claims part
func parseClaims(claimsPart string) (*Claims, error) {
	claimsJSON, err := DecodeUnpadded(claimsPart)
	if err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	claims, err := DecodeJSON(claimsJSON)
	if err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	return claims, nil
}

// validateTemporalClaims checks "exp" (exclusive) and "nbf" (inclusive)
// against now. Absent claims impose no constraint.
func validateTemporalClaims(claims *Claims, now time.Time) error {
	unix := now.Unix()

	if raw, ok := claims.Get(ClaimExpiresAt); ok {
		exp, ok := raw.(int64)
		if !ok {
			return ErrExpNotInteger
		}
		if unix >= exp {
			return ErrTokenExpired
		}
	}

	if raw, ok := claims.Get(ClaimNotBefore); ok {
		nbf, ok := raw.(int64)
		if !ok {
			return ErrNbfNotInteger
		}
		if unix < nbf {
			return ErrTokenNotYetValid
		}
	}

	return nil
}
