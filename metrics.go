package arenas

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// SizeInUse returns the total number of bytes currently allocated in the arena.
// This includes internal fragmentation due to alignment.
func (a *Arena) SizeInUse() int {
	sum := 0
	for _, c := range a.chunks {
		sum += c.used()
	}
	return sum
}

// NumChunks returns the number of chunks currently allocated by the arena.
func (a *Arena) NumChunks() int {
	return len(a.chunks)
}

// Capacity returns the total capacity (in bytes) of all chunks in the arena.
func (a *Arena) Capacity() int {
	sum := 0
	for _, c := range a.chunks {
		sum += c.capacity()
	}
	return sum
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	return utilization(a.SizeInUse(), a.Capacity())
}

// ChunkSize returns the default chunk size used by this arena.
func (a *Arena) ChunkSize() int {
	return a.cfg.chunkSize
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		NumChunks:   a.NumChunks(),
		ChunkSize:   a.ChunkSize(),
		Utilization: a.Utilization(),
	}
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumChunks   int     // Number of chunks
	ChunkSize   int     // Default chunk size
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

// String formats the snapshot with human-readable byte sizes.
func (m ArenaMetrics) String() string {
	return fmt.Sprintf("%s of %s in %d chunks (%.1f%%)",
		humanize.IBytes(uint64(m.SizeInUse)), humanize.IBytes(uint64(m.Capacity)),
		m.NumChunks, m.Utilization*100)
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	Slots       int     // Number of slots
	Live        int     // Slots currently allocated
	BlockSize   int     // Size of each slot
	Utilization float64 // Ratio of live to total slots (0.0-1.0)
}

// String formats the snapshot as live/total slots.
func (m PoolMetrics) String() string {
	return fmt.Sprintf("%d/%d slots of %s (%.1f%%)",
		m.Live, m.Slots, humanize.IBytes(uint64(m.BlockSize)), m.Utilization*100)
}

func utilization(used, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}
