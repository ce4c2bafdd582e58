package model

import (
	"bytes"
	"encoding/json"
)

// Optional tracks whether a JSON field was present and whether it was null,
// which a plain pointer cannot tell apart.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Optional holding value
func Some[T any](value T) Optional[T] {
	return Optional[T]{Value: value, Set: true}
}

// Null returns a present Optional carrying an explicit null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// UnmarshalJSON is only invoked for keys present in the document, null included.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var zero T
	o.Set = true
	o.Value = zero
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// HasValue reports a present, non-null value
func (o Optional[T]) HasValue() bool {
	return o.Set && !o.Null
}

// Ptr returns a copy of the value, or nil when absent or null
func (o Optional[T]) Ptr() *T {
	if !o.HasValue() {
		return nil
	}
	value := o.Value
	return &value
}
