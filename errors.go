package arenas

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrReleased is returned by any operation on an arena or pool after Release.
	ErrReleased = errors.New("arenas: use after Release()")
	// ErrInvalidAlign is returned when an alignment is not a positive power of two.
	ErrInvalidAlign = errors.New("arenas: alignment must be a power of two")
	// ErrInvalidSize is returned for negative or overflowing sizes.
	ErrInvalidSize = errors.New("arenas: invalid allocation size")
	// ErrBackingAlloc is returned when the backing allocator cannot supply a chunk.
	ErrBackingAlloc = errors.New("arenas: backing allocation failed")
	// ErrPoolExhausted is returned when a pool has no free slot, or the request
	// does not fit in a slot.
	ErrPoolExhausted = errors.New("arenas: pool exhausted")
)

// checkRequest validates an allocation request.
func checkRequest(size, align int) error {
	if size < 0 {
		return errors.Wrapf(ErrInvalidSize, "size %d", size)
	}
	if align <= 0 || align&(align-1) != 0 {
		return errors.Wrapf(ErrInvalidAlign, "align %d", align)
	}
	if size > math.MaxInt-align {
		return errors.Wrapf(ErrInvalidSize, "size %d at align %d overflows", size, align)
	}
	return nil
}
