package arenas

// DefaultVecCapacity is the capacity a Vec allocates on its first Push.
const DefaultVecCapacity = 16

// Vec is a minimal growable array used to stage values before moving them
// into an arena with MoveVec. The zero value is an empty Vec with no
// storage. Indexing past Len panics.
type Vec[T any] struct {
	data []T
}

// Push appends t, growing capacity by half when full.
func (v *Vec[T]) Push(t T) {
	if v.data == nil {
		v.data = make([]T, 0, DefaultVecCapacity)
	}
	if n := len(v.data); n == cap(v.data) {
		grown := make([]T, n, max(nextCapacity(n), n+1))
		copy(grown, v.data)
		v.data = grown
	}
	v.data = append(v.data, t)
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int { return len(v.data) }

// Cap returns the number of elements the Vec holds before growing.
func (v *Vec[T]) Cap() int { return cap(v.data) }

// At returns the i-th element.
func (v *Vec[T]) At(i int) T { return v.data[i] }

// Set replaces the i-th element.
func (v *Vec[T]) Set(i int, t T) { v.data[i] = t }

// Slice returns the elements in place; it is invalidated by the next Push.
func (v *Vec[T]) Slice() []T { return v.data }

// Clear drops every element but keeps the storage.
func (v *Vec[T]) Clear() {
	clear(v.data)
	v.data = v.data[:0]
}

// Release drops every element and the storage.
func (v *Vec[T]) Release() {
	clear(v.data)
	v.data = nil
}
