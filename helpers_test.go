package arenas

import (
	"sort"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/pkg/errors"
)

// countingBacking records how many chunks were handed out and given back.
type countingBacking struct {
	HeapBacking
	allocs atomic.Int64
	frees  atomic.Int64
	bytes  atomic.Int64
}

func (b *countingBacking) Alloc(size int) ([]byte, error) {
	buf, err := b.HeapBacking.Alloc(size)
	if err == nil {
		b.allocs.Add(1)
		b.bytes.Add(int64(size))
	}
	return buf, err
}

func (b *countingBacking) Free(buf []byte) {
	b.frees.Add(1)
	b.bytes.Add(-int64(len(buf)))
}

// live is the number of chunks currently owned by callers.
func (b *countingBacking) live() int64 {
	return b.allocs.Load() - b.frees.Load()
}

// failingBacking serves budget allocations and fails afterwards.
type failingBacking struct {
	HeapBacking
	budget int
}

func (b *failingBacking) Alloc(size int) ([]byte, error) {
	if b.budget <= 0 {
		return nil, errors.Wrapf(ErrBackingAlloc, "budget exhausted for %d bytes", size)
	}
	b.budget--
	return b.HeapBacking.Alloc(size)
}

func addr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// requireDisjoint fails if any two regions overlap.
func requireDisjoint(t testing.TB, regions [][]byte) {
	t.Helper()
	type span struct{ lo, hi uintptr }
	spans := make([]span, 0, len(regions))
	for _, r := range regions {
		if len(r) == 0 {
			continue
		}
		spans = append(spans, span{addr(r), addr(r) + uintptr(len(r))})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	for i := 1; i < len(spans); i++ {
		if spans[i].lo < spans[i-1].hi {
			t.Fatalf("regions overlap: [%#x,%#x) and [%#x,%#x)",
				spans[i-1].lo, spans[i-1].hi, spans[i].lo, spans[i].hi)
		}
	}
}
