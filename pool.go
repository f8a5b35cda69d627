// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

import "code.hybscloud.com/atomix"

// arenaTop is the number of address bytes reserved by pools so far.
// Pool i's range starts ChunkAlign past the previous top, so address 0
// and the first window are never handed out.
var arenaTop atomix.Uint64

// arenaLimit is the largest arenaTop that still keeps every reserved
// address representable as a uintptr.
const arenaLimit = uint64(^uintptr(0)) - uint64(ChunkAlign) + 1

// reserveArena claims chunks*ChunkAlign bytes of address space and
// returns the base of the range. Reports false when the remaining space
// is too small.
func reserveArena(chunks int) (uintptr, bool) {
	for {
		top := arenaTop.LoadAcquire()
		if uint64(chunks) > (arenaLimit-top)/uint64(ChunkAlign) {
			return 0, false
		}
		end := top + uint64(chunks)*uint64(ChunkAlign)
		if arenaTop.CompareAndSwapAcqRel(top, end) {
			return uintptr(top) + uintptr(ChunkAlign), true
		}
	}
}

// Chunk states, kept in one word with the chunk generation:
// state = gen<<1 | inUse.
const chunkInUse = 1

// Chunk is a contiguous block of register frames handed out by a Pool.
//
// Chunk addresses are virtual: chunk i of a pool is based at
// arenaBase + i*ChunkAlign and frame j lives at base + j*stride, so
// ChunkBase maps any frame address back to its chunk.
type Chunk[F any] struct {
	pool   *Pool[F]
	index  int
	base   uintptr
	state  atomix.Uint64
	frames []F
}

// Base returns the chunk's aligned base address.
func (c *Chunk[F]) Base() uintptr {
	return c.base
}

// Len returns the number of frame slots in the chunk.
func (c *Chunk[F]) Len() int {
	return c.pool.frames
}

// Addr returns the address of frame slot i.
func (c *Chunk[F]) Addr(i int) uintptr {
	return c.base + uintptr(i)*c.pool.stride
}

// Frame returns a pointer to frame slot i.
func (c *Chunk[F]) Frame(i int) *F {
	return &c.frames[i]
}

// Pool is a bounded set of chunks for one register kind.
//
// Free chunks are kept as generation-tagged handles in a lock-free list,
// so Acquire and Release are safe for concurrent use by many
// interpreters. Each Release bumps the chunk generation; a handle whose
// generation no longer matches its chunk is dropped on Acquire. Chunk
// storage is allocated on first acquisition and kept afterwards.
//
// Example:
//
//	pool := regstack.NewPool[regstack.IntFrame](regstack.KindInt, regstack.DefaultPolicy(), 64)
//
//	c, err := pool.Acquire()
//	if regstack.IsWouldBlock(err) {
//	    // All 64 chunks are in use
//	}
//	defer pool.Release(c)
type Pool[F any] struct {
	kind     Kind
	frames   int
	stride   uintptr
	base     uintptr
	chunks   []*Chunk[F]
	free     *chunkFreeList
	acquired atomix.Int64
	released atomix.Int64
}

// PoolStats is a snapshot of pool counters.
type PoolStats struct {
	Chunks   int   // Total chunks the pool may hand out
	InUse    int64 // Chunks currently acquired
	Acquired int64 // Lifetime Acquire successes
	Released int64 // Lifetime Release calls
}

// NewPool creates a pool of up to maxChunks chunks for kind k, each
// holding policy.FramesPerChunk(k) frames.
//
// Every pool owns a disjoint range of chunk addresses. Panics if k is
// invalid, maxChunks < 1, or the address space left for pools cannot
// hold maxChunks more chunks.
func NewPool[F any](k Kind, policy Policy, maxChunks int) *Pool[F] {
	if maxChunks < 1 || maxChunks > maxPoolChunks {
		panic("regstack: maxChunks out of range")
	}
	frames, stride := policy.FramesPerChunk(k), policy.Stride(k)

	base, ok := reserveArena(maxChunks)
	if !ok {
		panic("regstack: chunk address space exhausted")
	}

	p := &Pool[F]{
		kind:   k,
		frames: frames,
		stride: stride,
		base:   base,
		chunks: make([]*Chunk[F], maxChunks),
		free:   newChunkFreeList(maxChunks),
	}
	for i := range p.chunks {
		p.chunks[i] = &Chunk[F]{
			pool:  p,
			index: i,
			base:  base + uintptr(i)*uintptr(ChunkAlign),
		}
	}
	return p
}

// Kind returns the register kind served by the pool.
func (p *Pool[F]) Kind() Kind {
	return p.kind
}

// FramesPerChunk returns the number of frames in each chunk.
func (p *Pool[F]) FramesPerChunk() int {
	return p.frames
}

// Cap returns the maximum number of chunks.
func (p *Pool[F]) Cap() int {
	return len(p.chunks)
}

// Acquire takes a free chunk from the pool.
// Returns (nil, ErrWouldBlock) if every chunk is in use.
func (p *Pool[F]) Acquire() (*Chunk[F], error) {
	for {
		h, ok := p.free.get()
		if !ok {
			return nil, ErrWouldBlock
		}
		c := p.chunks[h.index()]
		s := c.state.LoadAcquire()
		if s != h.gen()<<1 || !c.state.CompareAndSwapAcqRel(s, s|chunkInUse) {
			continue // stale handle from an earlier release
		}
		if c.frames == nil {
			c.frames = make([]F, p.frames)
		}
		p.acquired.Add(1)
		return c, nil
	}
}

// Release clears c and returns it to the pool.
// Panics if c belongs to another pool or is not in use, including when
// two goroutines race to release the same chunk.
func (p *Pool[F]) Release(c *Chunk[F]) {
	if c == nil || c.pool != p {
		panic("regstack: release of foreign chunk")
	}
	s := c.state.LoadAcquire()
	if s&chunkInUse == 0 {
		panic("regstack: release of free chunk")
	}
	gen := (s>>1 + 1) & handleGenMask
	if !c.state.CompareAndSwapAcqRel(s, gen<<1) {
		panic("regstack: concurrent release of chunk")
	}
	clear(c.frames)
	p.released.Add(1)
	p.free.put(makeHandle(c.index, gen))
}

// Lookup maps an address inside an acquired chunk to the chunk and the
// frame slot it names. Returns ErrBadAddress if addr is outside the pool,
// falls between frame slots, or names a chunk that is not in use.
func (p *Pool[F]) Lookup(addr uintptr) (*Chunk[F], int, error) {
	base := ChunkBase(addr)
	if base < p.base {
		return nil, 0, ErrBadAddress
	}
	i := (base - p.base) / uintptr(ChunkAlign)
	if i >= uintptr(len(p.chunks)) {
		return nil, 0, ErrBadAddress
	}
	c := p.chunks[i]
	if c.state.LoadAcquire()&chunkInUse == 0 {
		return nil, 0, ErrBadAddress
	}
	off := ChunkOffset(addr)
	if off%p.stride != 0 {
		return nil, 0, ErrBadAddress
	}
	slot := int(off / p.stride)
	if slot >= p.frames {
		return nil, 0, ErrBadAddress
	}
	return c, slot, nil
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[F]) Stats() PoolStats {
	released := p.released.Load()
	acquired := p.acquired.Load()
	return PoolStats{
		Chunks:   len(p.chunks),
		InUse:    acquired - released,
		Acquired: acquired,
		Released: released,
	}
}
