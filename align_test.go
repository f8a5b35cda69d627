// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack_test

import (
	"math/rand/v2"
	"testing"

	"code.hybscloud.com/regstack"
)

// =============================================================================
// ChunkBase
// =============================================================================

func TestChunkBaseExamples(t *testing.T) {
	tests := []struct {
		addr uintptr
		want uintptr
	}{
		{0x12345678, 0x12345000},
		{0x12345000, 0x12345000},
		{0x12345fff, 0x12345000},
		{0x00000fff, 0},
		{0, 0},
		{0x1000, 0x1000},
		{0xffffffff, 0xfffff000},
	}

	for _, tt := range tests {
		if got := regstack.ChunkBase(tt.addr); got != tt.want {
			t.Fatalf("ChunkBase(%#x): got %#x, want %#x", tt.addr, got, tt.want)
		}
	}
}

// TestChunkBaseProperties checks ChunkBase over random addresses:
// base <= addr, addr-base < ChunkAlign, base is aligned, idempotent.
func TestChunkBaseProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := range 100000 {
		a := uintptr(rng.Uint64())
		if i%4 == 0 {
			a = uintptr(rng.Uint32()) // low addresses
		}
		b := regstack.ChunkBase(a)

		if b > a {
			t.Fatalf("ChunkBase(%#x) = %#x > addr", a, b)
		}
		if a-b >= uintptr(regstack.ChunkAlign) {
			t.Fatalf("ChunkBase(%#x) = %#x: distance %d >= %d", a, b, a-b, regstack.ChunkAlign)
		}
		if b%uintptr(regstack.ChunkAlign) != 0 {
			t.Fatalf("ChunkBase(%#x) = %#x: not aligned", a, b)
		}
		if regstack.ChunkBase(b) != b {
			t.Fatalf("ChunkBase not idempotent at %#x", a)
		}
		if !regstack.IsChunkAligned(b) {
			t.Fatalf("IsChunkAligned(%#x) = false", b)
		}
		if regstack.ChunkOffset(a) != a-b {
			t.Fatalf("ChunkOffset(%#x): got %#x, want %#x", a, regstack.ChunkOffset(a), a-b)
		}
	}
}

// TestChunkBase32 checks the literal 32-bit mask and agreement with
// ChunkBase on 32-bit values.
func TestChunkBase32(t *testing.T) {
	if got := regstack.ChunkBase32(0x12345678); got != 0x12345000 {
		t.Fatalf("ChunkBase32: got %#x, want 0x12345000", got)
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for range 10000 {
		a := rng.Uint32()
		if uintptr(regstack.ChunkBase32(a)) != regstack.ChunkBase(uintptr(a)) {
			t.Fatalf("ChunkBase32(%#x) disagrees with ChunkBase", a)
		}
	}
}

func TestIsChunkAligned(t *testing.T) {
	if !regstack.IsChunkAligned(0) || !regstack.IsChunkAligned(0x3000) {
		t.Fatal("aligned address reported unaligned")
	}
	if regstack.IsChunkAligned(0x3001) || regstack.IsChunkAligned(0x2fff) {
		t.Fatal("unaligned address reported aligned")
	}
}

func BenchmarkChunkBase(b *testing.B) {
	var sink uintptr
	for i := range b.N {
		sink += regstack.ChunkBase(uintptr(i) * 977)
	}
	_ = sink
}
