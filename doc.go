// Package arenas implements a family of bulk-lifetime memory allocators for Go.
//
// # Overview
//
// The allocators hand out regions of large pre-reserved chunks and take the
// memory back all at once instead of one object at a time. This is useful
// for parsers, compilers and request handlers that allocate many
// short-lived objects and drop them together.
//
//   - Arena: single-goroutine chunked bump allocator
//   - ConcurrentArena: lock-free bump allocator, CAS on cursors and chain links
//   - CoalescingArena: lock-free, geometric chunk growth, Coalesce()
//   - Pool: fixed number of equal-size slots with individual Free
//   - Vec: growable array for staging values before moving them into an arena
//
// # Basic Usage
//
//	a := arenas.NewArena(0) // Use default chunk size
//	defer a.Release()       // Hand memory back when done
//
//	// Allocate raw bytes
//	buf, err := a.Alloc(1024, 16)
//
//	// Allocate typed values
//	ptr, err := arenas.New(a, MyStruct{ID: 1})
//	slice, err := arenas.AllocSlice[int](a, 100)
//	name, err := arenas.CopyString(a, "gopher")
//
// # Thread Safety
//
// Arena, Pool and Vec are not thread-safe. ConcurrentArena and
// CoalescingArena accept concurrent Alloc calls from any number of
// goroutines without locks. Their Reset, Coalesce and Release methods must
// not overlap with an Alloc in flight; establishing that quiescent point is
// up to the caller. SafePool wraps a Pool in a mutex.
//
// # Reclamation
//
//   - Arena.Clear gives every chunk back and keeps the empty arena usable
//   - Arena.Release gives every chunk back and makes the arena unusable
//   - ConcurrentArena.Reset and CoalescingArena.Reset rewind cursors in place
//   - CoalescingArena.Coalesce replaces the chain with one chunk of the
//     combined capacity
//   - Pool.Free releases a single slot; the lowest free slot is reused first
//
// # Memory Layout
//
// Every allocation is aligned to exactly the requested power of two and
// never spans two chunks: a request larger than the chunk size gets a chunk
// of its own. Chunk memory comes from a Backing: HeapBacking (default) or
// MmapBacking, which returns memory to the OS as soon as it is freed.
//
// # Important Notes
//
//   - Allocated memory is only valid until the owning arena is reset,
//     cleared, coalesced or released
//   - Arena memory is not scanned by the garbage collector: do not store
//     the only reference to a heap object in it
//   - Errors are explicit: ErrPoolExhausted for a full pool, ErrBackingAlloc
//     when no chunk could be obtained
package arenas
