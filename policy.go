// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

import (
	"strconv"
	"strings"
)

// Policy holds the number of frames per chunk for each register kind.
//
// A Policy is immutable once built. Kinds that were not set explicitly
// alias the shared base, so changing the base moves all of them together
// while an explicit override stays put.
//
// The zero Policy behaves like DefaultPolicy.
//
// Example:
//
//	// Base 32 for everything, but int registers grow 64 frames at a time
//	p := regstack.NewPolicy().Base(32).Int(64).Build()
//	p.FramesPerChunk(regstack.KindNum) // 32
//	p.FramesPerChunk(regstack.KindInt) // 64
type Policy struct {
	base   int
	frames [numKinds]int
	set    [numKinds]bool // explicitly overridden, not aliasing base
}

// DefaultPolicy returns the policy described by the compile-time constants.
func DefaultPolicy() Policy {
	p := Policy{base: FramesPerChunk}
	for k := range numKinds {
		p.frames[k] = framesPerKind[k]
		p.set[k] = framesPerKind[k] != FramesPerChunk
	}
	return p
}

func (p Policy) orDefault() Policy {
	if p.base == 0 {
		return DefaultPolicy()
	}
	return p
}

// Base returns the shared base chunk size.
func (p Policy) Base() int {
	return p.orDefault().base
}

// FramesPerChunk returns the number of frames per chunk for kind k.
// Panics if k is not a valid kind.
func (p Policy) FramesPerChunk(k Kind) int {
	if !k.Valid() {
		panic("regstack: invalid register kind " + k.String())
	}
	return p.orDefault().frames[k]
}

// Aliases reports whether kind k follows the shared base.
func (p Policy) Aliases(k Kind) bool {
	if !k.Valid() {
		panic("regstack: invalid register kind " + k.String())
	}
	return !p.orDefault().set[k]
}

// Stride returns the address distance between adjacent frames of kind k
// inside one chunk. Every frame slot gets a distinct address within the
// ChunkAlign window.
func (p Policy) Stride(k Kind) uintptr {
	return uintptr(ChunkAlign / p.FramesPerChunk(k))
}

func (p Policy) String() string {
	p = p.orDefault()
	var sb strings.Builder
	sb.WriteString("base=")
	sb.WriteString(strconv.Itoa(p.base))
	for k := range numKinds {
		sb.WriteByte(' ')
		sb.WriteString(k.String())
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(p.frames[k]))
	}
	return sb.String()
}

// PolicyBuilder creates policies with fluent configuration.
//
// Example:
//
//	// Defaults from the compile-time constants
//	p := regstack.NewPolicy().Build()
//
//	// Retune the shared base; every aliasing kind follows
//	p := regstack.NewPolicy().Base(32).Build()
//
//	// Override one kind only
//	p := regstack.NewPolicy().Str(8).Build()
type PolicyBuilder struct {
	p Policy
}

// NewPolicy creates a policy builder seeded with DefaultPolicy.
func NewPolicy() *PolicyBuilder {
	return &PolicyBuilder{p: DefaultPolicy()}
}

// Base sets the shared chunk size used by every kind that is not
// overridden. Panics if n is outside [1, ChunkAlign].
func (b *PolicyBuilder) Base(n int) *PolicyBuilder {
	checkFrames("base", n)
	b.p.base = n
	return b
}

// PMC overrides the chunk size for PMC registers.
func (b *PolicyBuilder) PMC(n int) *PolicyBuilder { return b.kind(KindPMC, n) }

// Num overrides the chunk size for NV registers.
func (b *PolicyBuilder) Num(n int) *PolicyBuilder { return b.kind(KindNum, n) }

// Int overrides the chunk size for IV registers.
func (b *PolicyBuilder) Int(n int) *PolicyBuilder { return b.kind(KindInt, n) }

// Str overrides the chunk size for string registers.
func (b *PolicyBuilder) Str(n int) *PolicyBuilder { return b.kind(KindStr, n) }

func (b *PolicyBuilder) kind(k Kind, n int) *PolicyBuilder {
	checkFrames(k.String(), n)
	b.p.frames[k] = n
	b.p.set[k] = true
	return b
}

// Build resolves aliases and returns the policy.
// The builder may be reused; later changes do not affect built policies.
func (b *PolicyBuilder) Build() Policy {
	p := b.p
	for k := range numKinds {
		if !p.set[k] {
			p.frames[k] = p.base
		}
	}
	return p
}

func checkFrames(name string, n int) {
	if !validFrames(n) {
		panic("regstack: " + name + " frames per chunk must be in [1, " + strconv.Itoa(ChunkAlign) + "]")
	}
}

func validFrames(n int) bool {
	return n >= 1 && n <= ChunkAlign
}
