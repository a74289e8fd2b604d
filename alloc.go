package arenas

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"
)

// Allocator is implemented by every arena and pool in this package.
type Allocator interface {
	// Alloc returns size bytes whose address is a multiple of align.
	Alloc(size, align int) ([]byte, error)
}

// Freer is implemented by allocators that reclaim individual regions.
type Freer interface {
	Free(b []byte)
}

var (
	_ Freer = (*Pool)(nil)
	_ Freer = (*SafePool)(nil)

	_ Allocator = (*Arena)(nil)
	_ Allocator = (*ConcurrentArena)(nil)
	_ Allocator = (*CoalescingArena)(nil)
	_ Allocator = (*Pool)(nil)
	_ Allocator = (*SafePool)(nil)
)

// Alloc returns a pointer to a zeroed T stored inside the allocator.
// The returned pointer is valid as long as the memory hasn't been reset,
// freed or released.
//
// Allocator memory is not scanned by the garbage collector: T must not hold
// the only reference to heap objects.
func Alloc[T any](a Allocator) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return new(T), nil
	}
	b, err := a.Alloc(size, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	clear(b)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))), nil
}

// New stores a copy of v inside the allocator and returns a pointer to it.
func New[T any](a Allocator, v T) (*T, error) {
	p, err := Alloc[T](a)
	if err != nil {
		return nil, err
	}
	*p = v
	return p, nil
}

// AllocSlice allocates a zeroed slice of n elements of type T.
// Returns nil if n <= 0.
func AllocSlice[T any](a Allocator, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		return make([]T, n), nil
	}
	if n > math.MaxInt/elemSize {
		return nil, errors.Wrapf(ErrInvalidSize, "%d elements of %d bytes", n, elemSize)
	}
	b, err := a.Alloc(elemSize*n, int(unsafe.Alignof(zero)))
	if err != nil {
		return nil, err
	}
	clear(b)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n), nil
}

// CopySlice copies src into the allocator.
func CopySlice[T any](a Allocator, src []T) ([]T, error) {
	dst, err := AllocSlice[T](a, len(src))
	if err != nil {
		return nil, err
	}
	copy(dst, src)
	return dst, nil
}

// MoveVec copies the elements of v into the allocator and releases v.
// v is left untouched on error.
func MoveVec[T any](a Allocator, v *Vec[T]) ([]T, error) {
	dst, err := CopySlice(a, v.Slice())
	if err != nil {
		return nil, err
	}
	v.Release()
	return dst, nil
}

// CopyString copies s into the allocator.
func CopyString(a Allocator, s string) (string, error) {
	if s == "" {
		return "", nil
	}
	b, err := a.Alloc(len(s), 1)
	if err != nil {
		return "", err
	}
	copy(b, s)
	return unsafe.String(unsafe.SliceData(b), len(b)), nil
}

// Free hands the slot holding *p back to f. p must have come from Alloc or
// New on the same allocator.
func Free[T any](f Freer, p *T) {
	if p == nil {
		return
	}
	var zero T
	f.Free(unsafe.Slice((*byte)(unsafe.Pointer(p)), max(unsafe.Sizeof(zero), 1)))
}
