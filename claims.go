package jwt

import (
	"encoding"
	"math"
	"reflect"
	"sort"

	"github.com/goccy/go-json"
)

// Reserved claim names checked during Decode.
const (
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
)

// Claims is a JSON object whose top-level key order is preserved, so that
// encoding a decoded payload reproduces the same bytes.
//
// A Claims value is not safe for concurrent mutation.
type Claims struct {
	keys   []string
	values map[string]any
}

// NewClaims returns an empty claims set.
func NewClaims() *Claims {
	return &Claims{values: make(map[string]any)}
}

// ClaimsFromMap builds claims from an unordered map. Keys are sorted so the
// encoded form is deterministic.
func ClaimsFromMap(m map[string]any) *Claims {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	c := NewClaims()
	for _, k := range keys {
		c.Set(k, m[k])
	}
	return c
}

// Set stores value under key. A new key is appended; an existing key keeps its
// position.
//
// Values are stored as the types Decode produces: every integer kind becomes
// int64 (unsigned values above math.MaxInt64 become float64), float32 becomes
// float64, typed slices and arrays become []any and maps with string keys
// become map[string]any. Byte slices, structs and types with their own JSON or
// text marshalling are stored as given.
func (c *Claims) Set(key string, value any) *Claims {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = normalizeValue(value)
	return c
}

// Get returns the value stored under key.
func (c *Claims) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.values[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Claims) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// GetString returns the value under key if it is a string.
func (c *Claims) GetString(key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt64 returns the value under key if it is an integer.
func (c *Claims) GetInt64(key string) (int64, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	n, ok := v.(int64)
	return n, ok
}

// Delete removes key.
func (c *Claims) Delete(key string) {
	if c == nil {
		return
	}
	if _, ok := c.values[key]; !ok {
		return
	}
	delete(c.values, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (c *Claims) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Len returns the number of claims.
func (c *Claims) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Map returns a shallow copy of the claims as a plain map.
func (c *Claims) Map() map[string]any {
	m := make(map[string]any, c.Len())
	if c == nil {
		return m
	}
	for _, k := range c.keys {
		m[k] = c.values[k]
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (c *Claims) MarshalJSON() ([]byte, error) {
	return EncodeJSON(c)
}

// UnmarshalJSON implements json.Unmarshaler. The input must be a JSON object.
func (c *Claims) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeJSON(data)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

func normalizeValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool, int64, float64:
		return value
	case json.Number:
		if n, err := numberValue(v.String()); err == nil {
			return n
		}
		return value
	}
	return normalizeReflect(reflect.ValueOf(value))
}

func normalizeReflect(rv reflect.Value) any {
	t := rv.Type()
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return rv.Interface()
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u)
		}
		return int64(u)
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return normalizeReflect(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		// []byte encodes as a base64 string
		if t.Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		return normalizeElements(rv)
	case reflect.Array:
		return normalizeElements(rv)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return rv.Interface()
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeReflect(iter.Value())
		}
		return out
	default:
		return rv.Interface()
	}
}

func normalizeElements(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = normalizeReflect(rv.Index(i))
	}
	return out
}
