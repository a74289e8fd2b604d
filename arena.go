package arenas

import (
	"slices"

	"go.uber.org/zap"
)

// Arena is a single-owner chunked bump allocator. Not goroutine-safe; use
// ConcurrentArena or CoalescingArena for concurrent access.
//
// The last chunk of the chain is the active one. Requests larger than the
// chunk size get a dedicated chunk inserted ahead of it, so a single
// allocation never spans two chunks and the partly filled tail stays active.
type Arena struct {
	chunks   []*chunk
	cfg      config
	released bool
}

// NewArena creates a new Arena with the specified chunk size.
// If chunkSize <= 0, DefaultChunkSize is used. No memory is taken from the
// backing allocator until the first allocation.
func NewArena(chunkSize int, opts ...Option) *Arena {
	return &Arena{cfg: newConfig(chunkSize, DefaultChunkSize, opts)}
}

// Alloc returns size bytes aligned to align. The region stays valid until
// Clear or Release. A zero size returns a nil slice.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if a.released {
		return nil, ErrReleased
	}
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	// Fast path: bump the tail.
	if n := len(a.chunks); n > 0 {
		if b, ok := a.chunks[n-1].bump(size, align); ok {
			return b, nil
		}
	}
	return a.allocSlow(size, align)
}

// AllocBytes allocates n bytes at DefaultAlign. The memory is not zeroed
// when the backing allocator recycles it.
func (a *Arena) AllocBytes(n int) ([]byte, error) {
	return a.Alloc(n, DefaultAlign)
}

// allocSlow grows the chain before bumping.
func (a *Arena) allocSlow(size, align int) ([]byte, error) {
	need := chunkNeed(size, align)
	if need > a.cfg.chunkSize && len(a.chunks) > 0 {
		c, err := newChunk(a.cfg.backing, need)
		if err != nil {
			return nil, err
		}
		a.chunks = slices.Insert(a.chunks, len(a.chunks)-1, c)
		a.cfg.log.Debug("arena: oversized chunk",
			zap.Int("size", need), zap.Int("chunks", len(a.chunks)))
		b, _ := c.bump(size, align)
		return b, nil
	}

	c, err := a.grow(need)
	if err != nil {
		return nil, err
	}
	b, _ := c.bump(size, align)
	return b, nil
}

// EnsureCapacity ensures the active chunk has at least n free bytes at
// DefaultAlign. If not, it grows the arena with a new chunk.
func (a *Arena) EnsureCapacity(n int) error {
	if a.released {
		return ErrReleased
	}
	if err := checkRequest(n, DefaultAlign); err != nil {
		return err
	}
	if k := len(a.chunks); k > 0 {
		if _, _, ok := a.chunks[k-1].fit(a.chunks[k-1].cursor.Load(), n, DefaultAlign); ok {
			return nil
		}
	}
	_, err := a.grow(chunkNeed(n, DefaultAlign))
	return err
}

// Clear hands every chunk back to the backing allocator but keeps the chunk
// table, leaving an empty arena that allocates fresh chunks on demand.
func (a *Arena) Clear() {
	if a.released {
		return
	}
	n := len(a.chunks)
	a.free()
	a.chunks = a.chunks[:0]
	a.cfg.log.Debug("arena: cleared", zap.Int("chunks", n))
}

// Release hands all chunks back to the backing allocator and makes the arena
// unusable. Subsequent allocations return ErrReleased.
func (a *Arena) Release() {
	if a.released {
		return
	}
	a.free()
	a.chunks = nil
	a.released = true
	a.cfg.log.Debug("arena: released")
}

func (a *Arena) free() {
	for i, c := range a.chunks {
		a.cfg.backing.Free(c.buf)
		a.chunks[i] = nil
	}
}

// grow appends a new chunk of at least min bytes.
func (a *Arena) grow(min int) (*chunk, error) {
	c, err := newChunk(a.cfg.backing, max(a.cfg.chunkSize, min))
	if err != nil {
		return nil, err
	}
	a.chunks = append(a.chunks, c)
	a.cfg.log.Debug("arena: chunk appended",
		zap.Int("size", c.capacity()), zap.Int("chunks", len(a.chunks)))
	return c, nil
}
