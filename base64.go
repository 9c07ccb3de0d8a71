package jwt

import (
	"fmt"
	"sync"

	"github.com/cloudwego/base64x"
)

var bufPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 512)
	},
}

// EncodeUnpadded encodes data with the base64url alphabet and no padding.
func EncodeUnpadded(data []byte) string {
	encodeBuf := bufPool.Get().([]byte) //nolint:errcheck // sync.Pool.Get never returns error
	origBuf := encodeBuf
	defer func() {
		bufPool.Put(origBuf[:0]) //nolint:staticcheck // slice is converted to interface{} which is correct
	}()

	encodedLen := base64x.RawURLEncoding.EncodedLen(len(data))
	if cap(encodeBuf) < encodedLen {
		encodeBuf = make([]byte, encodedLen)
	}
	encodeBuf = encodeBuf[:encodedLen]

	base64x.RawURLEncoding.Encode(encodeBuf, data)
	return string(encodeBuf)
}

// DecodeUnpadded decodes unpadded base64url. Padding, any character outside
// A-Z a-z 0-9 - _ and non-zero unused bits in the final character are
// rejected, so every byte string has exactly one accepted encoding.
func DecodeUnpadded(encoded string) ([]byte, error) {
	if encoded == "" {
		return []byte{}, nil
	}
	for i := 0; i < len(encoded); i++ {
		if !isBase64URLChar(encoded[i]) {
			return nil, fmt.Errorf("%w: unexpected character at offset %d", ErrInvalidBase64, i)
		}
	}
	switch len(encoded) % 4 {
	case 1:
		return nil, fmt.Errorf("%w: truncated input", ErrInvalidBase64)
	case 2:
		if base64URLValue(encoded[len(encoded)-1])&0x0f != 0 {
			return nil, fmt.Errorf("%w: non-canonical final character", ErrInvalidBase64)
		}
	case 3:
		if base64URLValue(encoded[len(encoded)-1])&0x03 != 0 {
			return nil, fmt.Errorf("%w: non-canonical final character", ErrInvalidBase64)
		}
	}

	decoded, err := base64x.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return decoded, nil
}

func isBase64URLChar(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}

// base64URLValue returns the 6-bit value of an alphabet character.
func base64URLValue(c byte) byte {
	switch {
	case c >= 'A' && c <= 'Z':
		return c - 'A'
	case c >= 'a' && c <= 'z':
		return c - 'a' + 26
	case c >= '0' && c <= '9':
		return c - '0' + 52
	case c == '-':
		return 62
	default:
		return 63
	}
}
