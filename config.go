package arenas

import "go.uber.org/zap"

const (
	// DefaultChunkSize is the default chunk size for new arenas (64 KiB).
	DefaultChunkSize = 1 << 16

	// DefaultCoalescingCapacity is the capacity of the first chunk of a
	// CoalescingArena when none is given.
	DefaultCoalescingCapacity = 2048

	// DefaultAlign is the alignment used by AllocBytes.
	DefaultAlign = 8
)

type config struct {
	chunkSize int
	backing   Backing
	log       *zap.Logger
}

// Option configures an arena or pool.
type Option func(*config)

// WithChunkSize overrides the chunk size passed to the constructor.
// Values <= 0 are ignored.
func WithChunkSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithBacking sets the allocator chunks are obtained from.
func WithBacking(b Backing) Option {
	return func(c *config) {
		if b != nil {
			c.backing = b
		}
	}
}

// WithLogger sets the logger used for chunk lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

func newConfig(chunkSize, fallback int, opts []Option) config {
	if chunkSize <= 0 {
		chunkSize = fallback
	}
	c := config{
		chunkSize: chunkSize,
		backing:   HeapBacking{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
