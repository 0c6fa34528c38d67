package snapshot

// Cloner is implemented by state values that hold reference types (slices,
// maps, pointers). Extract returns a clone of such values so nothing outside
// the snapshot can reach the wrapped copy.
type Cloner[S any] interface {
	Clone() S
}

// Snapshot wraps one state value. The zero Snapshot wraps the zero value.
type Snapshot[S any] struct {
	value S
}

// New wraps v.
func New[S any](v S) Snapshot[S] {
	return Snapshot[S]{value: v}
}

// Extract returns the wrapped value.
func (s Snapshot[S]) Extract() S {
	if c, ok := any(s.value).(Cloner[S]); ok {
		return c.Clone()
	}
	return s.value
}

// Map returns a new snapshot wrapping f applied to the current value.
func (s Snapshot[S]) Map(f func(S) S) Snapshot[S] {
	return Map(s, f)
}

// Map returns a new snapshot wrapping f(s.Extract()). A panic in f
// propagates and no snapshot is built.
func Map[S, T any](s Snapshot[S], f func(S) T) Snapshot[T] {
	return New(f(s.Extract()))
}

// TryMap is Map for fallible transformations. On error the zero Snapshot is
// returned alongside the error.
func TryMap[S, T any](s Snapshot[S], f func(S) (T, error)) (Snapshot[T], error) {
	next, err := f(s.Extract())
	if err != nil {
		return Snapshot[T]{}, err
	}
	return New(next), nil
}

// Extend passes the whole snapshot to f and wraps the result.
func Extend[S, T any](s Snapshot[S], f func(Snapshot[S]) T) Snapshot[T] {
	return New(f(s))
}
