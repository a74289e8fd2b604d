//go:build unix

package arenas

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MmapBacking allocates every chunk as a private anonymous mapping, so memory
// handed back by Clear, Coalesce or Release is returned to the OS
// immediately instead of waiting for a GC cycle.
//
// Mapped memory is not scanned by the garbage collector: values stored in it
// must not hold the only reference to Go heap objects.
type MmapBacking struct{}

// Alloc implements Backing.
func (MmapBacking) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "chunk size %d", size)
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, errors.Wrapf(ErrBackingAlloc, "mmap %d bytes: %v", size, err)
	}
	return buf, nil
}

// Free implements Backing.
func (MmapBacking) Free(buf []byte) {
	if buf == nil {
		return
	}
	// Munmap only fails for slices it did not map.
	_ = unix.Munmap(buf)
}
