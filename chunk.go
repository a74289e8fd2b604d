package arenas

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// chunk is one contiguous backing buffer with a bump cursor. The cursor is
// an offset into buf and only moves forward until the owning arena rewinds
// or frees the chunk.
type chunk struct {
	buf    []byte
	base   uintptr        // address of buf[0]; the Go heap does not move objects
	cursor atomic.Uintptr // bytes consumed, 0 <= cursor <= len(buf)
	_      cpu.CacheLinePad
	next   atomic.Pointer[chunk]
}

func newChunk(b Backing, size int) (*chunk, error) {
	buf, err := b.Alloc(size)
	if err != nil {
		return nil, err
	}
	return &chunk{
		buf:  buf,
		base: uintptr(unsafe.Pointer(unsafe.SliceData(buf))),
	}, nil
}

// fit reports where an allocation of size bytes aligned to align would land
// with the cursor at off. ok is false when it would run past the chunk end.
func (c *chunk) fit(off uintptr, size, align int) (start, end uintptr, ok bool) {
	mask := uintptr(align) - 1
	addr := (c.base + off + mask) &^ mask
	start = addr - c.base
	end = start + uintptr(size)
	if start < off || end < start || end > uintptr(len(c.buf)) {
		return 0, 0, false
	}
	return start, end, true
}

// bump allocates without synchronization. Only the sequential arena and a
// chunk not yet published to other goroutines may use it.
func (c *chunk) bump(size, align int) ([]byte, bool) {
	start, end, ok := c.fit(c.cursor.Load(), size, align)
	if !ok {
		return nil, false
	}
	c.cursor.Store(end)
	return c.buf[start:end:end], true
}

// bumpAtomic is the lock-free variant of bump. A failed CAS means another
// goroutine advanced the cursor; the loop retries from the value it saw.
func (c *chunk) bumpAtomic(size, align int) ([]byte, bool) {
	off := c.cursor.Load()
	for {
		start, end, ok := c.fit(off, size, align)
		if !ok {
			return nil, false
		}
		if c.cursor.CompareAndSwap(off, end) {
			return c.buf[start:end:end], true
		}
		off = c.cursor.Load()
	}
}

func (c *chunk) rewind() {
	c.cursor.Store(0)
}

func (c *chunk) used() int {
	return int(c.cursor.Load())
}

func (c *chunk) capacity() int {
	return len(c.buf)
}

// minChunkAlign is the alignment every Backing guarantees for its buffers.
const minChunkAlign = 8

// chunkNeed is the smallest chunk that can hold size bytes at alignment
// align, given a minChunkAlign-aligned buffer.
func chunkNeed(size, align int) int {
	if align > minChunkAlign {
		return size + align - minChunkAlign
	}
	return size
}
