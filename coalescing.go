package arenas

import "go.uber.org/zap"

// nextCapacity grows chunk capacity by half.
func nextCapacity(n int) int {
	return n + n/2
}

// CoalescingArena is a ConcurrentArena whose chunks grow geometrically:
// each appended chunk is 3/2 the size of its predecessor, or larger if the
// request needs it. Coalesce folds the whole chain into one chunk between
// bulk phases so later allocations walk a single chunk.
type CoalescingArena struct {
	ch chain
}

// NewCoalescingArena creates a CoalescingArena whose first chunk holds
// capacity bytes, or DefaultCoalescingCapacity if capacity <= 0.
func NewCoalescingArena(capacity int, opts ...Option) *CoalescingArena {
	a := &CoalescingArena{}
	a.ch.cfg = newConfig(capacity, DefaultCoalescingCapacity, opts)
	a.ch.capacity = func(prev *chunk, need int) int {
		if prev == nil {
			return max(a.ch.cfg.chunkSize, need)
		}
		return max(nextCapacity(prev.capacity()), need)
	}
	return a
}

// Alloc returns size bytes aligned to align. It is safe for concurrent use.
func (a *CoalescingArena) Alloc(size, align int) ([]byte, error) {
	return a.ch.alloc(size, align)
}

// AllocBytes allocates n bytes at DefaultAlign.
func (a *CoalescingArena) AllocBytes(n int) ([]byte, error) {
	return a.ch.alloc(n, DefaultAlign)
}

// Coalesce frees every chunk and replaces the chain with a single empty
// chunk as large as all of them together. No Alloc may be in flight.
// An arena that never allocated is left empty.
func (a *CoalescingArena) Coalesce() error {
	if a.ch.released.Load() {
		return ErrReleased
	}
	n, total := a.ch.drain()
	if total == 0 {
		return nil
	}
	c, err := newChunk(a.ch.cfg.backing, total)
	if err != nil {
		return err
	}
	a.ch.root.Store(c)
	a.ch.cfg.log.Debug("arena: coalesced",
		zap.Int("chunks", n), zap.Int("size", total))
	return nil
}

// Reset rewinds every chunk's cursor, keeping the chunks for reuse.
func (a *CoalescingArena) Reset() {
	a.ch.reset()
}

// Release frees every chunk without reallocating and makes the arena
// unusable.
func (a *CoalescingArena) Release() {
	a.ch.release()
}

// Metrics returns a snapshot of arena statistics. ChunkSize reports the
// capacity of the first chunk.
func (a *CoalescingArena) Metrics() ArenaMetrics {
	m := a.ch.metrics()
	if c := a.ch.root.Load(); c != nil {
		m.ChunkSize = c.capacity()
	}
	return m
}

// NumChunks returns the length of the chunk chain.
func (a *CoalescingArena) NumChunks() int {
	return a.ch.metrics().NumChunks
}
