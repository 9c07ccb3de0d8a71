package jwt

import "errors"

// Error categories. Every error returned by this package unwraps to exactly
// one of them, so callers can tell garbage input from a forged token from an
// expired one without matching individual errors.
var (
	ErrFormat         = errors.New("malformed input")
	ErrAuthentication = errors.New("authentication failed")
	ErrTemporal       = errors.New("token outside validity window")
	ErrKey            = errors.New("invalid key material")
	ErrBackend        = errors.New("crypto backend failure")
)

var (
	ErrEncodeJSON     = newError(ErrFormat, "unable to encode JSON")
	ErrDecodeJSON     = newError(ErrFormat, "unable to decode JSON")
	ErrNotAnObject    = newError(ErrFormat, "not a JSON object")
	ErrInvalidBase64  = newError(ErrFormat, "invalid base64url encoding")
	ErrMalformedToken = newError(ErrFormat, "invalid token")
	ErrVerifyInput    = newError(ErrFormat, "invalid signature input")
	ErrKeyIDType      = newError(ErrFormat, `"kid" header not a string`)
	ErrKeyIDMissing   = newError(ErrFormat, `"kid" header missing`)
	ErrExpNotInteger  = newError(ErrFormat, `"exp" not an integer`)
	ErrNbfNotInteger  = newError(ErrFormat, `"nbf" not an integer`)

	ErrHeaderMissingAlg          = newError(ErrFormat, `"alg" header missing`)
	ErrAlgorithmMismatch         = newError(ErrAuthentication, "unexpected token algorithm")
	ErrUnsupportedCriticalHeader = newError(ErrAuthentication, `"crit" header key not supported`)
	ErrInvalidSignature          = newError(ErrAuthentication, "invalid token signature")
	ErrUnknownKeyID              = newError(ErrAuthentication, "unknown key id")

	ErrTokenExpired     = newError(ErrTemporal, "token has expired")
	ErrTokenNotYetValid = newError(ErrTemporal, "token not yet valid")

	ErrKeyLength    = newError(ErrKey, "invalid key length")
	ErrInvalidKey   = newError(ErrKey, "invalid key")
	ErrWeakKey      = newError(ErrKey, "invalid RSA key, must be >= 2048 bits")
	ErrNoPrivateKey = newError(ErrKey, "private key not set")
	ErrNoSecretKey  = newError(ErrKey, "secret key not set")
	ErrMissingKey   = newError(ErrKey, "key cannot be nil")
	ErrNilAlgorithm = newError(ErrKey, "algorithm cannot be nil")

	ErrSign          = newError(ErrBackend, "unable to sign")
	ErrCryptoBackend = newError(ErrBackend, "unable to verify")
)

type jwtError struct {
	msg  string
	kind error
}

func newError(kind error, msg string) error {
	return &jwtError{msg: msg, kind: kind}
}

func (e *jwtError) Error() string {
	return e.msg
}

func (e *jwtError) Unwrap() error {
	return e.kind
}
