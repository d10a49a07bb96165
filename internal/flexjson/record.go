package flexjson

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an optional T that the controller sends as [] when it has nothing.
// The zero value is absent.
type Record[T any] struct {
	value   T
	present bool
}

// NewRecord returns a present Record holding v.
func NewRecord[T any](v T) Record[T] {
	return Record[T]{value: v, present: true}
}

// Get returns the record and whether it is present.
func (r Record[T]) Get() (T, bool) {
	return r.value, r.present
}

// IsSet reports whether the record is present.
func (r Record[T]) IsSet() bool {
	return r.present
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record[T]) UnmarshalJSON(data []byte) error {
	v, err := DecodeRecordOrEmpty[T](data)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. Absent records encode as [] like upstream.
func (r Record[T]) MarshalJSON() ([]byte, error) {
	if !r.present {
		return []byte("[]"), nil
	}
	return json.Marshal(r.value)
}

// DecodeRecordOrEmpty decodes an object-or-array JSON value.
//
//   - object: decoded into T, whose errors propagate
//   - array: absent whatever it holds; the controller only ever sends []
//   - anything else: error wrapping ErrUnexpectedShape
func DecodeRecordOrEmpty[T any](raw json.RawMessage) (Record[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Record[T]{}, fmt.Errorf("%w: expected object or array, got nothing", ErrUnexpectedShape)
	}

	switch raw[0] {
	case '{':
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return Record[T]{}, fmt.Errorf("failed to decode record: %w", err)
		}
		return NewRecord(v), nil
	case '[':
		if !json.Valid(raw) {
			return Record[T]{}, fmt.Errorf("%w: malformed array", ErrUnexpectedShape)
		}
		return Record[T]{}, nil
	default:
		return Record[T]{}, fmt.Errorf("%w: expected object or array, got %s", ErrUnexpectedShape, kindOf(raw))
	}
}
