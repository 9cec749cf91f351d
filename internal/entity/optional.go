package entity

// Opt is a field that may be absent from an upstream record.
type Opt[T any] struct {
	value T
	ok    bool
}

// Some wraps a present value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, ok: true}
}

// None returns the absent marker for T.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it was present.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present reports whether the field was found.
func (o Opt[T]) Present() bool {
	return o.ok
}

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}
