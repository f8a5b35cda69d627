// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

// Stack is a LIFO of register frames of one kind, grown one chunk at a
// time from a Pool.
//
// A Stack belongs to a single interpreter and is not safe for concurrent
// use. The Pool behind it may be shared.
//
// When the top chunk empties it is kept as a spare instead of being
// released at once, so a call depth oscillating across a chunk boundary
// does not hit the pool on every push and pop.
type Stack[F any] struct {
	pool   *Pool[F]
	chunks []*Chunk[F] // live chunks, top last
	used   int         // frames used in the top chunk
	spare  *Chunk[F]
	depth  int
}

// NewStack creates an empty stack drawing chunks from pool.
// Panics if pool is nil.
func NewStack[F any](pool *Pool[F]) *Stack[F] {
	if pool == nil {
		panic("regstack: nil pool")
	}
	return &Stack[F]{pool: pool}
}

// Push copies frame onto the stack and returns its address.
// Returns ErrWouldBlock, leaving the stack unchanged, if a new chunk is
// needed and the pool is exhausted.
func (s *Stack[F]) Push(frame *F) (uintptr, error) {
	if len(s.chunks) == 0 || s.used == s.pool.frames {
		c, err := s.grow()
		if err != nil {
			return 0, err
		}
		s.chunks = append(s.chunks, c)
		s.used = 0
	}

	c := s.chunks[len(s.chunks)-1]
	c.frames[s.used] = *frame
	addr := c.Addr(s.used)
	s.used++
	s.depth++
	return addr, nil
}

// Pop removes and returns the top frame.
// Returns (zero-value, ErrUnderflow) if the stack is empty.
func (s *Stack[F]) Pop() (F, error) {
	var zero F
	if s.depth == 0 {
		return zero, ErrUnderflow
	}

	top := len(s.chunks) - 1
	c := s.chunks[top]
	s.used--
	frame := c.frames[s.used]
	c.frames[s.used] = zero
	s.depth--

	if s.used == 0 {
		s.chunks[top] = nil
		s.chunks = s.chunks[:top]
		s.shrink(c)
		if top > 0 {
			s.used = s.pool.frames
		}
	}
	return frame, nil
}

// Top returns a pointer to the top frame without removing it.
// The pointer is valid until the next Pop or Reset.
func (s *Stack[F]) Top() (*F, error) {
	if s.depth == 0 {
		return nil, ErrUnderflow
	}
	return &s.chunks[len(s.chunks)-1].frames[s.used-1], nil
}

// Frame resolves an address returned by Push.
// Returns ErrBadAddress if the frame has been popped or never belonged
// to this stack.
func (s *Stack[F]) Frame(addr uintptr) (*F, error) {
	c, slot, err := s.pool.Lookup(addr)
	if err != nil {
		return nil, err
	}
	for i := len(s.chunks) - 1; i >= 0; i-- {
		if s.chunks[i] != c {
			continue
		}
		live := s.pool.frames
		if i == len(s.chunks)-1 {
			live = s.used
		}
		if slot >= live {
			return nil, ErrBadAddress
		}
		return &c.frames[slot], nil
	}
	return nil, ErrBadAddress
}

// Depth returns the number of frames on the stack.
func (s *Stack[F]) Depth() int {
	return s.depth
}

// Chunks returns the number of chunks holding live frames.
func (s *Stack[F]) Chunks() int {
	return len(s.chunks)
}

// Reset drops every frame and returns all chunks, including the spare,
// to the pool.
func (s *Stack[F]) Reset() {
	for i, c := range s.chunks {
		s.pool.Release(c)
		s.chunks[i] = nil
	}
	s.chunks = s.chunks[:0]
	if s.spare != nil {
		s.pool.Release(s.spare)
		s.spare = nil
	}
	s.used = 0
	s.depth = 0
}

func (s *Stack[F]) grow() (*Chunk[F], error) {
	if c := s.spare; c != nil {
		s.spare = nil
		return c, nil
	}
	return s.pool.Acquire()
}

// shrink keeps c as the spare chunk, releasing any older spare.
func (s *Stack[F]) shrink(c *Chunk[F]) {
	if s.spare != nil {
		s.pool.Release(s.spare)
	}
	s.spare = c
}
