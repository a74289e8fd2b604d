//go:build !unix

package arenas

// MmapBacking falls back to the Go heap on platforms without mmap.
type MmapBacking struct{ HeapBacking }
