package arenas

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// chain is the lock-free chunk list shared by ConcurrentArena and
// CoalescingArena. The root pointer is treated as the first link, so an
// empty chain grows through the same CAS protocol as a full tail.
type chain struct {
	root     atomic.Pointer[chunk]
	released atomic.Bool
	cfg      config
	// capacity picks the size of a chunk appended after prev (nil when the
	// chain is empty) that must hold at least need bytes.
	capacity func(prev *chunk, need int) int
}

func (ch *chain) alloc(size, align int) ([]byte, error) {
	if ch.released.Load() {
		return nil, ErrReleased
	}
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	var prev *chunk
	link := &ch.root
	for {
		c := link.Load()
		if c == nil {
			fresh, err := newChunk(ch.cfg.backing, ch.capacity(prev, chunkNeed(size, align)))
			if err != nil {
				return nil, err
			}
			// Not yet visible to anyone else.
			b, _ := fresh.bump(size, align)
			if link.CompareAndSwap(nil, fresh) {
				ch.cfg.log.Debug("arena: chunk appended", zap.Int("size", fresh.capacity()))
				return b, nil
			}
			// Another goroutine appended first; retry in its chunk.
			ch.cfg.backing.Free(fresh.buf)
			ch.cfg.log.Debug("arena: lost append race", zap.Int("size", fresh.capacity()))
			continue
		}
		if b, ok := c.bumpAtomic(size, align); ok {
			return b, nil
		}
		prev, link = c, &c.next
	}
}

// walk calls fn for every chunk in chain order.
func (ch *chain) walk(fn func(c *chunk)) {
	for c := ch.root.Load(); c != nil; {
		next := c.next.Load()
		fn(c)
		c = next
	}
}

func (ch *chain) reset() {
	ch.walk((*chunk).rewind)
}

// drain unlinks the chain and frees every chunk, returning the number of
// chunks and their combined capacity.
func (ch *chain) drain() (n, total int) {
	ch.walk(func(c *chunk) {
		n++
		total += c.capacity()
		ch.cfg.backing.Free(c.buf)
	})
	ch.root.Store(nil)
	return n, total
}

func (ch *chain) release() {
	if ch.released.Swap(true) {
		return
	}
	n, _ := ch.drain()
	ch.cfg.log.Debug("arena: released", zap.Int("chunks", n))
}

func (ch *chain) metrics() ArenaMetrics {
	m := ArenaMetrics{ChunkSize: ch.cfg.chunkSize}
	ch.walk(func(c *chunk) {
		m.NumChunks++
		m.SizeInUse += c.used()
		m.Capacity += c.capacity()
	})
	m.Utilization = utilization(m.SizeInUse, m.Capacity)
	return m
}

// ConcurrentArena is a lock-free bump allocator. Any number of goroutines
// may call Alloc concurrently; Reset and Release require that no Alloc is
// in flight.
//
// Chunks are found by walking the chain from its head, and each chunk that
// runs out of room is followed by exactly one successor: goroutines racing
// to append resolve the race with a CAS on the chunk's next link, and the
// losers free their speculative chunk.
type ConcurrentArena struct {
	ch chain
}

// NewConcurrentArena creates a ConcurrentArena whose chunks hold chunkSize
// bytes, or DefaultChunkSize if chunkSize <= 0. Larger requests get a chunk
// sized to fit them.
func NewConcurrentArena(chunkSize int, opts ...Option) *ConcurrentArena {
	a := &ConcurrentArena{}
	a.ch.cfg = newConfig(chunkSize, DefaultChunkSize, opts)
	a.ch.capacity = func(_ *chunk, need int) int {
		return max(a.ch.cfg.chunkSize, need)
	}
	return a
}

// Alloc returns size bytes aligned to align. It is safe for concurrent use.
func (a *ConcurrentArena) Alloc(size, align int) ([]byte, error) {
	return a.ch.alloc(size, align)
}

// AllocBytes allocates n bytes at DefaultAlign. The memory is not zeroed
// after Reset.
func (a *ConcurrentArena) AllocBytes(n int) ([]byte, error) {
	return a.ch.alloc(n, DefaultAlign)
}

// Reset rewinds every chunk's cursor, keeping the chunks for reuse.
// Regions handed out before Reset must no longer be used.
func (a *ConcurrentArena) Reset() {
	a.ch.reset()
}

// Release frees every chunk and makes the arena unusable.
func (a *ConcurrentArena) Release() {
	a.ch.release()
}

// Metrics returns a snapshot of arena statistics.
func (a *ConcurrentArena) Metrics() ArenaMetrics {
	return a.ch.metrics()
}

// NumChunks returns the length of the chunk chain.
func (a *ConcurrentArena) NumChunks() int {
	return a.ch.metrics().NumChunks
}
