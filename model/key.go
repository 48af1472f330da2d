package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// KeyKind discriminates the two key representations.
type KeyKind uint8

const (
	// KeyKindInt is a signed 64-bit integer key.
	KeyKindInt KeyKind = iota + 1
	// KeyKindString is a UTF-8 string key.
	KeyKindString
)

// String returns the kind name.
func (k KeyKind) String() string {
	switch k {
	case KeyKindInt:
		return "int"
	case KeyKindString:
		return "string"
	default:
		return "invalid"
	}
}

// Key is the user-facing index key: either an integer or a string.
// The zero Key is invalid and never stored.
//
// Keys are comparable (usable with ==) and totally ordered by Compare.
type Key struct {
	kind KeyKind
	i    int64
	s    string
}

// IntKey returns an integer key.
func IntKey(v int64) Key {
	return Key{kind: KeyKindInt, i: v}
}

// StringKey returns a string key.
func StringKey(v string) Key {
	return Key{kind: KeyKindString, s: v}
}

// ParseKey coerces text input into a Key: decimal integers (optionally
// signed) become int keys, everything else becomes a string key.
func ParseKey(s string) Key {
	if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return IntKey(i)
	}
	return StringKey(s)
}

// Kind returns the key's kind, or 0 for the zero Key.
func (k Key) Kind() KeyKind { return k.kind }

// IsZero reports whether k is the invalid zero Key.
func (k Key) IsZero() bool { return k.kind == 0 }

// Int returns the integer value and whether the key is an int key.
func (k Key) Int() (int64, bool) {
	return k.i, k.kind == KeyKindInt
}

// StringValue returns the string value and whether the key is a string key.
func (k Key) StringValue() (string, bool) {
	return k.s, k.kind == KeyKindString
}

// String returns the display form of the key.
func (k Key) String() string {
	switch k.kind {
	case KeyKindInt:
		return strconv.FormatInt(k.i, 10)
	case KeyKindString:
		return k.s
	default:
		return "<zero>"
	}
}

// Compare orders two keys. Int keys sort before string keys; within a
// kind, ints compare numerically and strings lexicographically.
func Compare(a, b Key) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KeyKindInt:
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		default:
			return 0
		}
	default:
		return strings.Compare(a.s, b.s)
	}
}

// MarshalJSON encodes the key as a bare JSON number or string.
func (k Key) MarshalJSON() ([]byte, error) {
	switch k.kind {
	case KeyKindInt:
		return strconv.AppendInt(nil, k.i, 10), nil
	case KeyKindString:
		return json.Marshal(k.s)
	default:
		return nil, fmt.Errorf("model: cannot marshal zero Key")
	}
}

// UnmarshalJSON decodes a JSON number or string into the key. Any other
// JSON value is rejected.
func (k *Key) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("model: empty key")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("model: invalid string key: %w", err)
		}
		*k = StringKey(s)
		return nil
	}
	i, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("model: key must be an integer or string, got %s", data)
	}
	*k = IntKey(i)
	return nil
}
