package gameobject

import (
	"bytes"
	"encoding/json"
)

// Opt is a value that may be absent. A decoded JSON null is absent; any other
// value, including false, 0, "" and [], is present.
type Opt[T any] struct {
	value T
	set   bool
}

// Some returns a present Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// None returns an absent Opt.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Opt[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value when present and fallback otherwise.
func (o Opt[T]) OrElse(fallback T) T {
	if !o.set {
		return fallback
	}
	return o.value
}

// IsZero lets `omitzero` drop absent values when an Opt is encoded.
func (o Opt[T]) IsZero() bool {
	return !o.set
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// JSONSchemaAlias makes schema reflection describe an Opt[T] as a plain T.
func (Opt[T]) JSONSchemaAlias() any {
	var zero T
	return zero
}
