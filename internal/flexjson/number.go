// Package flexjson decodes JSON values whose shape the controller does not keep
// stable between fields, versions, or even devices.
//
// Two shapes are handled, each by one explicit decode function:
//
//   - DecodeNumber: an optional unsigned counter that may arrive as an integer, a
//     numeric string, null, or not at all.
//   - DecodeRecordOrEmpty: an optional object that arrives as [] when empty.
//
// Values that are merely ambiguous decode to "absent". Values of a shape the field
// never takes are errors wrapping ErrUnexpectedShape.
package flexjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// ErrUnexpectedShape is returned when a value has a JSON kind the field never takes.
var ErrUnexpectedShape = errors.New("unexpected JSON shape")

var modulus = new(big.Int).Lsh(big.NewInt(1), 32)

// Number is an optional uint32 decoded leniently. The zero value is absent.
type Number struct {
	value   uint32
	present bool
}

// NewNumber returns a present Number.
func NewNumber(v uint32) Number {
	return Number{value: v, present: true}
}

// Get returns the value and whether it is present.
func (n Number) Get() (uint32, bool) {
	return n.value, n.present
}

// IsSet reports whether the value is present.
func (n Number) IsSet() bool {
	return n.present
}

// Or returns the value, or def when absent.
func (n Number) Or(def uint32) uint32 {
	if !n.present {
		return def
	}
	return n.value
}

// Flag interprets the value as a boolean flag: nonzero is true.
// The second result is false when the value is absent.
func (n Number) Flag() (set bool, present bool) {
	return n.value != 0, n.present
}

// String implements fmt.Stringer.
func (n Number) String() string {
	if !n.present {
		return "<absent>"
	}
	return strconv.FormatUint(uint64(n.value), 10)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	v, err := DecodeNumber(data)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// MarshalJSON implements json.Marshaler. Absent values encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	return strconv.AppendUint(nil, uint64(n.value), 10), nil
}

// DecodeNumber decodes an integer-or-string JSON value.
//
//   - integer: kept modulo 2^32, so negative or oversized values wrap
//   - number with a fraction: truncated toward zero, then wrapped
//   - string: parsed as base-10 digits, absent when that fails
//   - null or empty input: absent
//   - object, array, bool: error wrapping ErrUnexpectedShape
func DecodeNumber(raw json.RawMessage) (Number, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Number{}, nil
	}

	switch c := raw[0]; {
	case c == 'n':
		if !bytes.Equal(raw, []byte("null")) {
			return Number{}, fmt.Errorf("%w: invalid literal %q", ErrUnexpectedShape, raw)
		}
		return Number{}, nil
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Number{}, fmt.Errorf("failed to decode string: %w", err)
		}
		v, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			// "n/a", "", "12.5" and friends carry no counter.
			return Number{}, nil
		}
		return NewNumber(uint32(v)), nil
	case c == '-' || (c >= '0' && c <= '9'):
		return decodeNumeric(string(raw))
	default:
		return Number{}, fmt.Errorf("%w: expected integer or string, got %s", ErrUnexpectedShape, kindOf(raw))
	}
}

// decodeNumeric wraps a JSON number into the uint32 range.
func decodeNumeric(s string) (Number, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return Number{}, fmt.Errorf("%w: expected integer or string, got number %s", ErrUnexpectedShape, s)
		}
		i, _ = big.NewFloat(math.Trunc(f)).Int(nil)
	}
	// big.Int.Mod is Euclidean, so the result is always in [0, 2^32).
	i.Mod(i, modulus)
	return NewNumber(uint32(i.Uint64())), nil
}

func kindOf(raw []byte) string {
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	default:
		return fmt.Sprintf("%q", raw)
	}
}
