package types

import "encoding/json"

// Optional is a JSON field that distinguishes absent, null, and valued states.
// Partial updates rely on Set to decide whether a field was supplied at all,
// and on Valid to decide between writing a value and writing NULL.
type Optional[T any] struct {
	Value T
	Valid bool // value is non-null
	Set   bool // field was present in the payload
}

// UnmarshalJSON implements the json.Unmarshaler interface. It is only invoked
// for fields present in the payload, so Set is true whenever it runs.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON implements the json.Marshaler interface
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns a pointer to the value, or nil when the field is null or absent
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// Some returns a set, non-null Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true, Set: true}
}

// Null returns a set Optional holding JSON null
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
