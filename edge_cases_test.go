package arenas_test

import (
	"math"
	"runtime"
	"testing"
	"unsafe"

	"github.com/pavanmanishd/arenas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEdgeCases exercises the exported API from outside the package.
func TestEdgeCases(t *testing.T) {
	t.Run("ZeroAndNegativeChunkSizes", func(t *testing.T) {
		testCases := []struct {
			size     int
			expected int
		}{
			{0, arenas.DefaultChunkSize},
			{-1, arenas.DefaultChunkSize},
			{-1000, arenas.DefaultChunkSize},
			{1, 1},
			{math.MaxInt32, math.MaxInt32},
		}

		for _, tc := range testCases {
			a := arenas.NewArena(tc.size)
			if a.ChunkSize() != tc.expected {
				t.Errorf("NewArena(%d): got chunkSize %d, want %d", tc.size, a.ChunkSize(), tc.expected)
			}
			a.Release()
		}
	})

	t.Run("LargeAllocations", func(t *testing.T) {
		for name, a := range map[string]arenas.Allocator{
			"Arena":           arenas.NewArena(1024),
			"ConcurrentArena": arenas.NewConcurrentArena(1024),
			"CoalescingArena": arenas.NewCoalescingArena(1024),
		} {
			large, err := a.Alloc(2048, 8)
			require.NoError(t, err, name)
			assert.Len(t, large, 2048, name)

			veryLarge, err := a.Alloc(1<<20, 8)
			require.NoError(t, err, name)
			assert.Len(t, veryLarge, 1<<20, name)
		}
	})

	t.Run("IntegerOverflowProtection", func(t *testing.T) {
		a := arenas.NewArena(1024)
		defer a.Release()

		_, err := a.Alloc(math.MaxInt, 16)
		assert.Error(t, err)
		_, err = arenas.AllocSlice[int64](a, math.MaxInt/4)
		assert.ErrorIs(t, err, arenas.ErrInvalidSize)
	})

	t.Run("AlignmentEdgeCases", func(t *testing.T) {
		a := arenas.NewConcurrentArena(1024)
		defer a.Release()

		type AlignTest1 struct{ a int8 }
		type AlignTest2 struct{ a int64 }
		type AlignTest3 struct {
			a int8
			b int64
		}

		p1, err := arenas.Alloc[AlignTest1](a)
		require.NoError(t, err)
		p2, err := arenas.Alloc[AlignTest2](a)
		require.NoError(t, err)
		p3, err := arenas.Alloc[AlignTest3](a)
		require.NoError(t, err)

		assert.Zero(t, uintptr(unsafe.Pointer(p1))%unsafe.Alignof(*p1))
		assert.Zero(t, uintptr(unsafe.Pointer(p2))%unsafe.Alignof(*p2))
		assert.Zero(t, uintptr(unsafe.Pointer(p3))%unsafe.Alignof(*p3))
	})

	t.Run("UseAfterRelease", func(t *testing.T) {
		a := arenas.NewArena(1024)
		a.Release()

		_, err := a.AllocBytes(100)
		assert.ErrorIs(t, err, arenas.ErrReleased)
		assert.ErrorIs(t, a.EnsureCapacity(100), arenas.ErrReleased)
		_, err = arenas.Alloc[int](a)
		assert.ErrorIs(t, err, arenas.ErrReleased)
		_, err = arenas.AllocSlice[int](a, 10)
		assert.ErrorIs(t, err, arenas.ErrReleased)
		_, err = arenas.CopyString(a, "gone")
		assert.ErrorIs(t, err, arenas.ErrReleased)
	})

	t.Run("MultipleReleases", func(t *testing.T) {
		a := arenas.NewArena(1024)
		a.Release()
		a.Release()

		c := arenas.NewConcurrentArena(1024)
		c.Release()
		c.Release()

		p, err := arenas.NewPool(8, 8)
		require.NoError(t, err)
		p.Release()
		p.Release()
	})

	t.Run("EmptySliceAllocations", func(t *testing.T) {
		a := arenas.NewArena(1024)
		defer a.Release()

		s1, err1 := arenas.AllocSlice[int](a, 0)
		s2, err2 := arenas.AllocSlice[int](a, -1)
		b, err3 := a.Alloc(0, 8)

		require.NoError(t, err1)
		require.NoError(t, err2)
		require.NoError(t, err3)
		if s1 != nil || s2 != nil || b != nil {
			t.Error("Empty allocations should return nil")
		}
		assert.Zero(t, a.NumChunks())
	})
}

// TestMemoryCorruption checks that neighbouring allocations never overlap.
func TestMemoryCorruption(t *testing.T) {
	for name, a := range map[string]arenas.Allocator{
		"Arena":           arenas.NewArena(512),
		"ConcurrentArena": arenas.NewConcurrentArena(512),
		"CoalescingArena": arenas.NewCoalescingArena(512),
	} {
		ptrs := make([]*[64]byte, 100)
		for i := range ptrs {
			p, err := arenas.Alloc[[64]byte](a)
			require.NoError(t, err, name)
			for j := range p {
				p[j] = byte(i)
			}
			ptrs[i] = p
		}
		for i, p := range ptrs {
			for j, v := range p {
				if v != byte(i) {
					t.Fatalf("%s: memory corruption at object %d byte %d: got %d, want %d", name, i, j, v, byte(i))
				}
			}
		}
	}
}

// TestResetBehavior checks that a ConcurrentArena keeps its chunks across Reset.
func TestResetBehavior(t *testing.T) {
	a := arenas.NewConcurrentArena(1024)
	defer a.Release()

	for i := 0; i < 5; i++ {
		_, err := a.AllocBytes(512)
		require.NoError(t, err)
	}

	initial := a.Metrics()
	a.Reset()
	after := a.Metrics()

	assert.Zero(t, after.SizeInUse)
	assert.Equal(t, initial.NumChunks, after.NumChunks)
	assert.Equal(t, initial.Capacity, after.Capacity)
	assert.Zero(t, after.Utilization)

	buf, err := a.AllocBytes(100)
	require.NoError(t, err)
	assert.Len(t, buf, 100)
}

// TestMemoryLeaks checks that released arenas do not pin their chunks.
func TestMemoryLeaks(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping memory leak test in short mode")
	}

	var m1, m2 runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m1)

	for i := 0; i < 1000; i++ {
		a := arenas.NewArena(1024)
		for j := 0; j < 100; j++ {
			a.AllocBytes(64)
		}
		a.Release()
	}

	runtime.GC()
	runtime.ReadMemStats(&m2)

	if m2.Alloc > m1.Alloc*2 {
		t.Errorf("Potential memory leak: before=%d, after=%d", m1.Alloc, m2.Alloc)
	}
}
