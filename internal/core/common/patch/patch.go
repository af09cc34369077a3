// Package patch decodes PATCH bodies where an omitted member and an explicit
// null mean different things.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is one member of a PATCH body. Set reports whether the member was
// present; Value is nil when it was absent or null.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Of returns a supplied, non-null field.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a supplied null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}

// Ptr is the supplied value, or nil.
func (f Field[T]) Ptr() *T {
	return f.Value
}

// IsNull reports an explicit null.
func (f Field[T]) IsNull() bool {
	return f.Set && f.Value == nil
}

// Put copies a supplied field into updates under column. A null writes NULL.
func Put[T any](updates map[string]interface{}, column string, f Field[T]) {
	if !f.Set {
		return
	}
	if f.Value == nil {
		updates[column] = nil
		return
	}
	updates[column] = *f.Value
}
