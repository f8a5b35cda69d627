// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

// chunkLowBits selects the in-chunk offset of an address.
const chunkLowBits = uintptr(ChunkAlign - 1)

// ChunkBase returns the base address of the chunk containing addr.
//
// The mask is MaskChunkLowBits widened to pointer width, so on 32-bit
// platforms this is exactly addr & 0xfffff000 and on 64-bit platforms
// the high bits are preserved.
//
//	ChunkBase(0x12345678) == 0x12345000
func ChunkBase(addr uintptr) uintptr {
	return addr &^ chunkLowBits
}

// ChunkBase32 applies MaskChunkLowBits to a 32-bit address or offset.
func ChunkBase32(addr uint32) uint32 {
	return addr & MaskChunkLowBits
}

// ChunkOffset returns the distance of addr from its chunk base.
func ChunkOffset(addr uintptr) uintptr {
	return addr & chunkLowBits
}

// IsChunkAligned reports whether addr is a chunk base.
func IsChunkAligned(addr uintptr) bool {
	return addr&chunkLowBits == 0
}
