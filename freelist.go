// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// chunkHandle names one release of one chunk: the chunk index in the low
// 32 bits and the chunk generation above it. Bit 63 is never set, so a
// handle can share a slot word with the empty marker.
type chunkHandle uint64

const (
	handleIndexBits = 32
	handleIndexMask = 1<<handleIndexBits - 1
	handleGenMask   = 1<<(63-handleIndexBits) - 1

	// maxPoolChunks bounds the chunk count so every index fits a handle
	// and an int on 32-bit platforms.
	maxPoolChunks = 1<<31 - 1
)

func makeHandle(index int, gen uint64) chunkHandle {
	return chunkHandle((gen&handleGenMask)<<handleIndexBits | uint64(index))
}

func (h chunkHandle) index() int { return int(h & handleIndexMask) }

func (h chunkHandle) gen() uint64 { return uint64(h>>handleIndexBits) & handleGenMask }

// slotEmpty marks a free list slot as empty; the low bits carry the
// round the slot expects to be filled in next.
const slotEmpty = 1 << 63

// chunkFreeList holds handles of the free chunks of one pool.
//
// It is a bounded MPMC ring with round-tagged empty slots, so any handle
// including index 0 generation 0 can be stored in one 8-byte word. The
// ring is sized for every chunk of the pool at once; a put that finds it
// full means a chunk was freed twice.
type chunkFreeList struct {
	_      pad
	tail   atomix.Uint64
	_      pad
	head   atomix.Uint64
	_      pad
	slots  []atomix.Uint64
	mask   uint64
	order  uint64 // log2(len(slots))
	chunks int    // handles must name an index below this
}

// newChunkFreeList creates a free list for a pool of n chunks, holding
// the generation-0 handle of every chunk in index order.
func newChunkFreeList(n int) *chunkFreeList {
	if n < 1 || n > maxPoolChunks {
		panic("regstack: chunk count out of range")
	}

	size := uint64(roundToPow2(n))
	l := &chunkFreeList{
		slots:  make([]atomix.Uint64, size),
		mask:   size - 1,
		chunks: n,
	}
	for (uint64(1) << l.order) < size {
		l.order++
	}

	// Slots [0, n) start filled; the rest wait for round 0.
	for i := range l.slots {
		if i < n {
			l.slots[i].StoreRelaxed(uint64(makeHandle(i, 0)))
		} else {
			l.slots[i].StoreRelaxed(slotEmpty)
		}
	}
	l.tail.StoreRelease(uint64(n))
	return l
}

func (l *chunkFreeList) emptyFor(pos uint64) uint64 {
	return slotEmpty | (pos>>l.order)&(slotEmpty-1)
}

// put returns a chunk handle to the list.
// Panics on a handle outside the pool or when the list is already full.
func (l *chunkFreeList) put(h chunkHandle) {
	if h.index() >= l.chunks {
		panic("regstack: chunk handle outside pool")
	}

	sw := spin.Wait{}
	for {
		tail := l.tail.LoadAcquire()
		head := l.head.LoadAcquire()
		if tail != l.tail.LoadAcquire() {
			continue
		}
		if tail-head > l.mask {
			panic("regstack: free chunk list overflow")
		}

		slot := &l.slots[tail&l.mask]
		if slot.CompareAndSwapAcqRel(l.emptyFor(tail), uint64(h)) {
			l.tail.CompareAndSwapAcqRel(tail, tail+1)
			return
		}
		// Another putter filled the slot first; help it advance tail.
		l.tail.CompareAndSwapAcqRel(tail, tail+1)
		sw.Once()
	}
}

// get takes a handle from the list.
// Reports false when no chunk is free.
func (l *chunkFreeList) get() (chunkHandle, bool) {
	sw := spin.Wait{}
	for {
		head := l.head.LoadAcquire()
		tail := l.tail.LoadAcquire()

		slot := &l.slots[head&l.mask]
		v := slot.LoadAcquire()
		if head != l.head.LoadAcquire() {
			continue
		}
		if head >= tail {
			return 0, false
		}

		next := l.emptyFor(head + l.mask + 1)
		switch {
		case v == next:
			// Already taken by another getter that has not moved head yet.
			l.head.CompareAndSwapAcqRel(head, head+1)
			continue
		case v&slotEmpty != 0:
			// Putter reserved the position but has not stored yet.
			sw.Once()
			continue
		}
		if slot.CompareAndSwapAcqRel(v, next) {
			l.head.CompareAndSwapAcqRel(head, head+1)
			return chunkHandle(v), true
		}
		l.head.CompareAndSwapAcqRel(head, head+1)
		sw.Once()
	}
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
