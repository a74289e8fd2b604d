package arenas

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxSlotAlign caps the alignment guaranteed for pool slots.
const maxSlotAlign = 4096

// Pool hands out fixed-size slots from a single buffer that never grows.
// Occupancy is tracked in a bitmap and the lowest free slot is always reused
// first. Pool is not goroutine-safe; see SafePool.
//
// A request fits a slot when max(size, align) <= BlockSize and align does
// not exceed the slot alignment, so every returned region honours its
// requested alignment.
type Pool struct {
	bits      bitset
	raw       []byte // as returned by the backing allocator
	slots     []byte // slotCount*blockSize bytes of raw, aligned to slotAlign
	begin     uintptr
	blockSize int
	slotAlign int
	cfg       config
	released  bool
}

// NewPool allocates slotCount slots of blockSize bytes each. Slots are
// aligned to the largest power of two dividing blockSize, up to 4 KiB;
// Alloc rejects alignments above that with ErrPoolExhausted, even when
// they are no larger than blockSize (e.g. align 16 on 24-byte slots).
func NewPool(slotCount, blockSize int, opts ...Option) (*Pool, error) {
	if slotCount <= 0 || blockSize <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "pool %d x %d", slotCount, blockSize)
	}
	if slotCount > (math.MaxInt-maxSlotAlign)/blockSize {
		return nil, errors.Wrapf(ErrInvalidSize, "pool %d x %d overflows", slotCount, blockSize)
	}
	slotAlign := min(blockSize&-blockSize, maxSlotAlign)
	cfg := newConfig(0, DefaultChunkSize, opts)

	raw, err := cfg.backing.Alloc(slotCount*blockSize + slotAlign - 1)
	if err != nil {
		return nil, err
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	off := int((base+uintptr(slotAlign-1))&^uintptr(slotAlign-1) - base)
	slots := raw[off : off+slotCount*blockSize : off+slotCount*blockSize]

	cfg.log.Debug("pool: created",
		zap.Int("slots", slotCount), zap.Int("block_size", blockSize))
	return &Pool{
		bits:      newBitset(slotCount),
		raw:       raw,
		slots:     slots,
		begin:     base + uintptr(off),
		blockSize: blockSize,
		slotAlign: slotAlign,
		cfg:       cfg,
	}, nil
}

// Alloc claims the lowest free slot and returns its first size bytes; the
// rest of the slot is available through the slice capacity. It returns
// ErrPoolExhausted when every slot is taken or when size or align do not fit
// a slot.
func (p *Pool) Alloc(size, align int) ([]byte, error) {
	if p.released {
		return nil, ErrReleased
	}
	if err := checkRequest(size, align); err != nil {
		return nil, err
	}
	if max(size, align) > p.blockSize || align > p.slotAlign {
		return nil, ErrPoolExhausted
	}
	i, ok := p.bits.firstZero()
	if !ok {
		return nil, ErrPoolExhausted
	}
	p.bits.set(i)
	start := i * p.blockSize
	return p.slots[start : start+size : start+p.blockSize], nil
}

// Free returns the slot holding b to the pool. Slices that do not point into
// the pool, and slots that are already free, are ignored.
func (p *Pool) Free(b []byte) {
	if p.released || cap(b) == 0 {
		return
	}
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if ptr < p.begin || ptr >= p.begin+uintptr(len(p.slots)) {
		return
	}
	i := int((ptr - p.begin) / uintptr(p.blockSize))
	if !p.bits.test(i) {
		return
	}
	p.bits.clear(i)
}

// Live returns the number of slots currently allocated.
func (p *Pool) Live() int {
	if p.released {
		return 0
	}
	return p.bits.count()
}

// Slots returns the number of slots in the pool.
func (p *Pool) Slots() int {
	return p.bits.n
}

// BlockSize returns the size of each slot.
func (p *Pool) BlockSize() int {
	return p.blockSize
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool) Metrics() PoolMetrics {
	m := PoolMetrics{Slots: p.Slots(), Live: p.Live(), BlockSize: p.blockSize}
	m.Utilization = utilization(m.Live, m.Slots)
	return m
}

// Release hands the slot buffer back to the backing allocator. Subsequent
// allocations return ErrReleased.
func (p *Pool) Release() {
	if p.released {
		return
	}
	p.cfg.backing.Free(p.raw)
	p.raw, p.slots, p.begin = nil, nil, 0
	p.released = true
	p.cfg.log.Debug("pool: released")
}
