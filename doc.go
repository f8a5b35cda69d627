// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package regstack provides chunked register frame storage for a
// register-based virtual machine.
//
// The package has three layers:
//
//   - Configuration: value types (IV, NV), opaque handles (VTable,
//     DPointer, Sync), per-kind chunk sizes and the chunk alignment mask
//   - Pools: bounded, lock-free sets of chunks shared by interpreters
//   - Stacks: per-interpreter LIFOs of register frames grown in chunks
//
// # Chunk Sizing
//
// Register frames are allocated in chunks. Each of the four register
// kinds has its own compile-time chunk size:
//
//	FramesPerPMCRegChunk  // PMC registers
//	FramesPerNumRegChunk  // NV registers
//	FramesPerIntRegChunk  // IV registers
//	FramesPerStrRegChunk  // string registers
//
// All four alias FramesPerChunk (16). A non-positive value fails to
// compile.
//
//	regstack.FramesPerChunkOf(regstack.KindInt) // 16
//
// A Policy carries the same four values at run time and can be retuned
// before pools are created:
//
//	p := regstack.NewPolicy().Base(32).Build()   // every kind → 32
//	p := regstack.NewPolicy().Str(8).Build()     // strings → 8, rest → 16
//
// Policies can also be read from TOML:
//
//	[chunk]
//	base = 32
//	str = 8
//
// # Chunk Alignment
//
// Every chunk is based at a multiple of ChunkAlign (4096), the window
// left by MaskChunkLowBits (0xfffff000). Any address inside a chunk maps
// back to the chunk base with one AND:
//
//	regstack.ChunkBase(0x12345678) // 0x12345000
//
// Frames inside a chunk are Policy.Stride(kind) apart, so a frame address
// also encodes its slot.
//
// # Basic Usage
//
//	pools := regstack.NewPools(regstack.DefaultPolicy(), 1024)
//
//	// One register file per interpreter
//	rf := regstack.NewRegisterFile(pools)
//	defer rf.Release()
//
//	rf.Int[0] = 42
//	if err := rf.SaveAll(); regstack.IsWouldBlock(err) {
//	    // Pools exhausted - back off or fail the call
//	}
//	rf.Int[0] = 7
//	rf.RestoreAll() // rf.Int[0] == 42
//
// Single-kind stacks are available directly:
//
//	pool := regstack.NewPool[regstack.IntFrame](regstack.KindInt, regstack.DefaultPolicy(), 64)
//	s := regstack.NewStack(pool)
//
//	addr, _ := s.Push(&frame)
//	f, _ := s.Frame(addr) // resolve by address
//	top, _ := s.Pop()
//
// # Error Handling
//
// Pool exhaustion returns [ErrWouldBlock], sourced from
// [code.hybscloud.com/iox]. It is a control flow signal: another
// interpreter releasing chunks lets the operation succeed later.
//
// For semantic error classification (delegates to iox):
//
//	regstack.IsWouldBlock(err)  // true if the pool is exhausted
//	regstack.IsSemantic(err)    // true if control flow signal
//	regstack.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// [ErrUnderflow] and [ErrBadAddress] report misuse that the caller can
// recover from. Programming errors (invalid kind, foreign chunk release,
// out-of-range policy values in code) panic.
//
// # Thread Safety
//
//   - Constants, Policy: immutable, safe everywhere
//   - Pool, Pools: safe for concurrent use
//   - Stack, RegisterFile: one goroutine at a time
//
// # Race Detection
//
// Chunks are handed between goroutines through each pool's free list, whose
// happens-before edges come from atomix acquire-release operations.
// The race detector cannot observe these, so concurrent tests are
// skipped when [RaceEnabled] is true.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions
// and [github.com/BurntSushi/toml] for policy files.
package regstack
