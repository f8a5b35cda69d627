// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

import (
	"sync"
	"unsafe"
)

// IV is the integer register value type.
type IV int64

// NV is the floating-point register value type.
//
// Go has no extended-precision float; float64 is the widest native type.
type NV float64

// VTable is an opaque dispatch-table handle for a PMC.
// Its layout belongs to the object model and is not visible here.
type VTable interface {
	VTableName() string
}

// DPointer is an untyped data reference carried by a PMC.
type DPointer unsafe.Pointer

// Sync is an opaque synchronization handle.
type Sync interface {
	sync.Locker
}

// Chunk sizing.
//
// Each register kind has its own constant so one kind can be retuned
// without touching the others. They all alias FramesPerChunk today.
const (
	// FramesPerChunk is the shared default number of frames per chunk.
	FramesPerChunk = 16

	FramesPerPMCRegChunk = FramesPerChunk
	FramesPerNumRegChunk = FramesPerChunk
	FramesPerIntRegChunk = FramesPerChunk
	FramesPerStrRegChunk = FramesPerChunk
)

// MaskChunkLowBits clears the in-chunk offset of a 32-bit address.
const MaskChunkLowBits uint32 = 0xfffff000

// ChunkAlign is the chunk alignment granularity implied by MaskChunkLowBits.
const ChunkAlign = int(^MaskChunkLowBits) + 1

// Build-time checks: a non-positive chunk size, a chunk size that does
// not fit in one alignment window, or a mask that is not a contiguous
// run of high bits all fail compilation.
var (
	_ [FramesPerPMCRegChunk - 1]struct{}
	_ [FramesPerNumRegChunk - 1]struct{}
	_ [FramesPerIntRegChunk - 1]struct{}
	_ [FramesPerStrRegChunk - 1]struct{}

	_ [ChunkAlign - FramesPerPMCRegChunk]struct{}
	_ [ChunkAlign - FramesPerNumRegChunk]struct{}
	_ [ChunkAlign - FramesPerIntRegChunk]struct{}
	_ [ChunkAlign - FramesPerStrRegChunk]struct{}

	_ [0]struct{} = [ChunkAlign & (ChunkAlign - 1)]struct{}{}
)
