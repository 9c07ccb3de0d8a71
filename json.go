package jwt

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// EncodeJSON serializes claims to a JSON object, keeping key order. Strings
// that are not valid UTF-8 and values JSON cannot represent (NaN, channels,
// functions) fail with ErrEncodeJSON.
func EncodeJSON(c *Claims) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, key := range c.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if !utf8.ValidString(key) {
			return nil, fmt.Errorf("%w: key is not valid UTF-8", ErrEncodeJSON)
		}
		keyJSON, err := json.MarshalNoEscape(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncodeJSON, err)
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')

		value := c.values[key]
		if err := checkUTF8(value); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrEncodeJSON, key, err)
		}
		valueJSON, err := json.MarshalNoEscape(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrEncodeJSON, key, err)
		}
		buf.Write(valueJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeJSON parses a JSON object. Malformed input fails with ErrDecodeJSON;
// a well-formed array or scalar fails with ErrNotAnObject.
//
// Integers that fit in int64 decode as int64, other numbers as float64,
// nested objects as map[string]any and arrays as []any.
func DecodeJSON(data []byte) (*Claims, error) {
	if !json.Valid(data) {
		return nil, ErrDecodeJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeJSON, err)
	}
	if tok != json.Delim('{') {
		return nil, ErrNotAnObject
	}

	c := NewClaims()
	err = decodeMembers(dec, func(key string, value any) {
		c.Set(key, value)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// decodeMembers reads object members up to and including the closing brace.
func decodeMembers(dec *json.Decoder, set func(key string, value any)) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeJSON, err)
		}
		if tok == json.Delim('}') {
			return nil
		}

		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: object key is not a string", ErrDecodeJSON)
		}

		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeJSON, err)
		}
		value, err := decodeValue(dec, tok)
		if err != nil {
			return err
		}
		set(key, value)
	}
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			m := make(map[string]any)
			err := decodeMembers(dec, func(key string, value any) {
				m[key] = value
			})
			return m, err
		case '[':
			return decodeElements(dec)
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrDecodeJSON, rune(v))
		}
	case json.Number:
		return numberValue(strings.Clone(string(v)))
	default:
		// string, bool or nil
		return v, nil
	}
}

func decodeElements(dec *json.Decoder) ([]any, error) {
	items := []any{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecodeJSON, err)
		}
		if tok == json.Delim(']') {
			return items, nil
		}
		value, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
	}
}

func numberValue(s string) (any, error) {
	if !strings.ContainsAny(s, ".eE") {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q: %v", ErrDecodeJSON, s, err)
	}
	return f, nil
}

// maxCheckDepth bounds the UTF-8 walk so cyclic pointers cannot recurse
// forever.
const maxCheckDepth = 256

// checkUTF8 walks every string the encoder would write. Types with their own
// JSON or text marshalling are trusted.
func checkUTF8(value any) error {
	return checkUTF8Value(reflect.ValueOf(value), 0)
}

func checkUTF8Value(rv reflect.Value, depth int) error {
	if !rv.IsValid() {
		return nil
	}
	if depth > maxCheckDepth {
		return fmt.Errorf("value nested deeper than %d levels", maxCheckDepth)
	}
	if t := rv.Type(); t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return nil
	}

	switch rv.Kind() {
	case reflect.String:
		if !utf8.ValidString(rv.String()) {
			return fmt.Errorf("string is not valid UTF-8")
		}
	case reflect.Interface, reflect.Pointer:
		if !rv.IsNil() {
			return checkUTF8Value(rv.Elem(), depth+1)
		}
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < rv.Len(); i++ {
			if err := checkUTF8Value(rv.Index(i), depth+1); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if err := checkUTF8Value(iter.Key(), depth+1); err != nil {
				return err
			}
			if err := checkUTF8Value(iter.Value(), depth+1); err != nil {
				return err
			}
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() && !field.Anonymous {
				continue
			}
			if field.Tag.Get("json") == "-" {
				continue
			}
			if err := checkUTF8Value(rv.Field(i), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
