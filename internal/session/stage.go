package session

// Stage caches the result of one pipeline step together with the key of the
// inputs it was computed from. A value is reused only while it is fresh and
// the key still matches.
type Stage[T any] struct {
	key   string
	value T
	set   bool
	stale bool
}

// Lookup returns the cached value when it is fresh and was stored under key.
func (s *Stage[T]) Lookup(key string) (T, bool) {
	if !s.set || s.stale || s.key != key {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Store caches v under key and clears the stale flag.
func (s *Stage[T]) Store(key string, v T) {
	s.key = key
	s.value = v
	s.set = true
	s.stale = false
}

// MarkStale forces the next Lookup to miss without dropping the value.
func (s *Stage[T]) MarkStale() {
	s.stale = true
}

// Value returns the last stored value, fresh or not.
func (s *Stage[T]) Value() (T, bool) {
	return s.value, s.set
}

// Clear drops the cached value.
func (s *Stage[T]) Clear() {
	*s = Stage[T]{}
}
