package jwt

// JOSE "alg" identifiers of the supported algorithms.
const (
	AlgHS256 = "HS256"
	AlgRS256 = "RS256"
	AlgEdDSA = "EdDSA"
)

// Algorithm defines the interface for JWT signing algorithms
type Algorithm interface {
	// Name returns the fixed JOSE "alg" identifier, e.g. "HS256"
	Name() string
	// Sign creates a signature over the signing input
	Sign(signingInput []byte) ([]byte, error)
	// Verify reports whether signature is valid for the signing input. A
	// non-nil error means no verdict could be reached.
	Verify(signingInput, signature []byte) (bool, error)
}
