package arenas

import "github.com/pkg/errors"

// Backing supplies chunk memory to arenas and pools and takes it back when
// they are cleared, coalesced or released.
type Backing interface {
	// Alloc returns a zeroed buffer of exactly size bytes whose first byte
	// is at least 8-byte aligned.
	Alloc(size int) ([]byte, error)
	// Free returns a buffer obtained from Alloc. The buffer must not be
	// used afterwards.
	Free(buf []byte)
}

// HeapBacking allocates chunks on the Go heap. Free drops the reference and
// leaves reclamation to the garbage collector.
type HeapBacking struct{}

// Alloc implements Backing.
func (HeapBacking) Alloc(size int) (buf []byte, err error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "chunk size %d", size)
	}
	defer func() {
		// make panics on sizes the runtime refuses to satisfy.
		if r := recover(); r != nil {
			buf, err = nil, errors.Wrapf(ErrBackingAlloc, "heap: %v bytes: %v", size, r)
		}
	}()
	// Buffers under 16 bytes come from the tiny allocator, which only
	// aligns them to their size.
	return make([]byte, max(size, 16))[:size:size], nil
}

// Free implements Backing.
func (HeapBacking) Free([]byte) {}
