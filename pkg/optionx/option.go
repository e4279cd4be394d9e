package optionx

import "encoding/json"

// Option wraps a payload field with an explicit presence tag. A field decoded
// from JSON is Present if and only if its key appeared in the payload, which
// is the trigger the patch merger keys off: absent means "leave unchanged",
// present means "overwrite". Nullable wire fields should use Option[*T] so an
// explicit JSON null (present, nil) stays distinguishable from a value.
type Option[T any] struct {
	value   T
	present bool
}

// Some returns an Option carrying v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

// None returns the absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Present reports whether the field appeared in the payload.
func (o Option[T]) Present() bool { return o.present }

// Get returns the value and whether it was present.
func (o Option[T]) Get() (T, bool) { return o.value, o.present }

// OrZero returns the value, or the zero value when absent.
func (o Option[T]) OrZero() T { return o.value }

// Or returns the value, or fallback when absent.
func (o Option[T]) Or(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// Ptr returns a pointer to the value, or nil when absent.
func (o Option[T]) Ptr() *T {
	if !o.present {
		return nil
	}
	v := o.value
	return &v
}

// UnmarshalJSON is only invoked by encoding/json when the key exists in the
// payload, so decoding always marks the option present. A JSON null decodes
// into the zero value (nil for pointer types).
func (o *Option[T]) UnmarshalJSON(b []byte) error {
	o.present = true
	return json.Unmarshal(b, &o.value)
}

// MarshalJSON encodes the carried value; absent options encode as null.
// encoding/json cannot omit struct keys via a marshaler, so callers building
// partial request bodies should assemble a map from Present fields instead of
// marshalling a struct of options directly.
func (o Option[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
