package arenas

import "sync"

// SafePool is a mutex-protected wrapper around Pool for concurrent access.
// All operations are thread-safe but come with the overhead of mutex locking.
type SafePool struct {
	mu sync.Mutex
	p  *Pool
}

// NewSafePool creates a new thread-safe pool of slotCount slots of
// blockSize bytes.
func NewSafePool(slotCount, blockSize int, opts ...Option) (*SafePool, error) {
	p, err := NewPool(slotCount, blockSize, opts...)
	if err != nil {
		return nil, err
	}
	return &SafePool{p: p}, nil
}

// Alloc thread-safely claims the lowest free slot.
func (s *SafePool) Alloc(size, align int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Alloc(size, align)
}

// Free thread-safely returns the slot holding b to the pool.
func (s *SafePool) Free(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Free(b)
}

// Live thread-safely returns the number of slots currently allocated.
func (s *SafePool) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Live()
}

// Metrics thread-safely returns a snapshot of pool statistics.
func (s *SafePool) Metrics() PoolMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Metrics()
}

// Release thread-safely hands the slot buffer back and makes the pool unusable.
func (s *SafePool) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Release()
}
