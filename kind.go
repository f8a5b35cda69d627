// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

import "strconv"

// Kind identifies one of the four register files.
type Kind uint8

const (
	KindPMC Kind = iota // Polymorphic container registers
	KindNum             // NV registers
	KindInt             // IV registers
	KindStr             // String registers

	numKinds
)

var kindNames = [numKinds]string{"pmc", "num", "int", "str"}

// framesPerKind mirrors the per-kind constants, indexed by Kind.
var framesPerKind = [numKinds]int{
	KindPMC: FramesPerPMCRegChunk,
	KindNum: FramesPerNumRegChunk,
	KindInt: FramesPerIntRegChunk,
	KindStr: FramesPerStrRegChunk,
}

// Kinds returns the register kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindPMC, KindNum, KindInt, KindStr}
}

// Valid reports whether k is one of the four register kinds.
func (k Kind) Valid() bool {
	return k < numKinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// FramesPerChunkOf returns the compile-time chunk size for kind k.
// Panics if k is not a valid kind.
func FramesPerChunkOf(k Kind) int {
	if !k.Valid() {
		panic("regstack: invalid register kind " + k.String())
	}
	return framesPerKind[k]
}
