package arenas

import "math/bits"

// bitset tracks slot occupancy, one bit per slot, 1 = occupied. Bits past
// n in the last byte are kept set so they are never handed out.
type bitset struct {
	bytes []uint8
	n     int
}

func newBitset(n int) bitset {
	b := bitset{bytes: make([]uint8, (n+7)/8), n: n}
	if r := n % 8; r != 0 {
		b.bytes[len(b.bytes)-1] = ^uint8(0) << r
	}
	return b
}

// firstZero scans byte by byte, then bit by bit within the first byte that
// has room, so the lowest free index always wins.
func (b bitset) firstZero() (int, bool) {
	for i, byt := range b.bytes {
		if byt == 0xff {
			continue
		}
		return i<<3 + bits.TrailingZeros8(^byt), true
	}
	return -1, false
}

func (b bitset) set(i int) {
	b.bytes[i>>3] |= 1 << (i & 7)
}

func (b bitset) clear(i int) {
	b.bytes[i>>3] &^= 1 << (i & 7)
}

func (b bitset) test(i int) bool {
	return b.bytes[i>>3]&(1<<(i&7)) != 0
}

// count returns the number of occupied slots.
func (b bitset) count() (n int) {
	for _, byt := range b.bytes {
		n += bits.OnesCount8(byt)
	}
	return n - (len(b.bytes)*8 - b.n)
}
