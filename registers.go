// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack

// NumRegisters is the number of registers of each kind in one frame.
const NumRegisters = 32

// PMC is an opaque polymorphic container handle.
// The object model behind VTable and Data is defined elsewhere.
type PMC struct {
	VTable VTable
	Data   DPointer
}

// Register frames, one per kind.
type (
	PMCFrame [NumRegisters]PMC
	NumFrame [NumRegisters]NV
	IntFrame [NumRegisters]IV
	StrFrame [NumRegisters]string
)

// Pools groups one chunk pool per register kind.
// A Pools value is shared by every interpreter of a process.
type Pools struct {
	PMC *Pool[PMCFrame]
	Num *Pool[NumFrame]
	Int *Pool[IntFrame]
	Str *Pool[StrFrame]
}

// NewPools creates the four pools, each bounded to maxChunks chunks and
// sized by policy.
func NewPools(policy Policy, maxChunks int) *Pools {
	return &Pools{
		PMC: NewPool[PMCFrame](KindPMC, policy, maxChunks),
		Num: NewPool[NumFrame](KindNum, policy, maxChunks),
		Int: NewPool[IntFrame](KindInt, policy, maxChunks),
		Str: NewPool[StrFrame](KindStr, policy, maxChunks),
	}
}

// Stats returns a snapshot of the pool for kind k.
func (p *Pools) Stats(k Kind) PoolStats {
	switch k {
	case KindPMC:
		return p.PMC.Stats()
	case KindNum:
		return p.Num.Stats()
	case KindInt:
		return p.Int.Stats()
	case KindStr:
		return p.Str.Stats()
	}
	panic("regstack: invalid register kind " + k.String())
}

// RegisterFile is the register state of one interpreter: the current
// frame of each kind plus a save stack per kind.
//
// Example:
//
//	pools := regstack.NewPools(regstack.DefaultPolicy(), 256)
//	rf := regstack.NewRegisterFile(pools)
//	defer rf.Release()
//
//	rf.Int[0] = 42
//	rf.SaveAll()        // enter a sub
//	rf.Int[0] = 7
//	rf.RestoreAll()     // back in the caller, rf.Int[0] == 42
type RegisterFile struct {
	PMC PMCFrame
	Num NumFrame
	Int IntFrame
	Str StrFrame

	pmc  *Stack[PMCFrame]
	num  *Stack[NumFrame]
	ints *Stack[IntFrame]
	str  *Stack[StrFrame]
}

// NewRegisterFile creates a register file with empty save stacks.
// Panics if pools is nil.
func NewRegisterFile(pools *Pools) *RegisterFile {
	if pools == nil {
		panic("regstack: nil pools")
	}
	return &RegisterFile{
		pmc:  NewStack(pools.PMC),
		num:  NewStack(pools.Num),
		ints: NewStack(pools.Int),
		str:  NewStack(pools.Str),
	}
}

// Save pushes the current frame of kind k.
func (r *RegisterFile) Save(k Kind) error {
	var err error
	switch k {
	case KindPMC:
		_, err = r.pmc.Push(&r.PMC)
	case KindNum:
		_, err = r.num.Push(&r.Num)
	case KindInt:
		_, err = r.ints.Push(&r.Int)
	case KindStr:
		_, err = r.str.Push(&r.Str)
	default:
		panic("regstack: invalid register kind " + k.String())
	}
	return err
}

// Restore pops the saved frame of kind k into the current frame.
// Returns ErrUnderflow, leaving the current frame untouched, if nothing
// was saved.
func (r *RegisterFile) Restore(k Kind) error {
	var err error
	switch k {
	case KindPMC:
		err = restore(r.pmc, &r.PMC)
	case KindNum:
		err = restore(r.num, &r.Num)
	case KindInt:
		err = restore(r.ints, &r.Int)
	case KindStr:
		err = restore(r.str, &r.Str)
	default:
		panic("regstack: invalid register kind " + k.String())
	}
	return err
}

func restore[F any](s *Stack[F], dst *F) error {
	f, err := s.Pop()
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

// SaveAll saves every kind. Either all four frames are saved or, on
// error, none are.
func (r *RegisterFile) SaveAll() error {
	kinds := Kinds()
	for i, k := range kinds {
		if err := r.Save(k); err != nil {
			for _, done := range kinds[:i] {
				r.discard(done)
			}
			return err
		}
	}
	return nil
}

// RestoreAll restores every kind. Returns ErrUnderflow without touching
// any frame if one of the stacks is empty.
func (r *RegisterFile) RestoreAll() error {
	for _, k := range Kinds() {
		if r.Depth(k) == 0 {
			return ErrUnderflow
		}
	}
	for _, k := range Kinds() {
		if err := r.Restore(k); err != nil {
			return err
		}
	}
	return nil
}

// Clear zeroes the current frame of kind k.
func (r *RegisterFile) Clear(k Kind) {
	switch k {
	case KindPMC:
		r.PMC = PMCFrame{}
	case KindNum:
		r.Num = NumFrame{}
	case KindInt:
		r.Int = IntFrame{}
	case KindStr:
		r.Str = StrFrame{}
	default:
		panic("regstack: invalid register kind " + k.String())
	}
}

// Depth returns the number of saved frames of kind k.
func (r *RegisterFile) Depth(k Kind) int {
	switch k {
	case KindPMC:
		return r.pmc.Depth()
	case KindNum:
		return r.num.Depth()
	case KindInt:
		return r.ints.Depth()
	case KindStr:
		return r.str.Depth()
	}
	panic("regstack: invalid register kind " + k.String())
}

// Release returns every chunk held by the save stacks to the pools.
// The register file may be reused afterwards.
func (r *RegisterFile) Release() {
	r.pmc.Reset()
	r.num.Reset()
	r.ints.Reset()
	r.str.Reset()
}

func (r *RegisterFile) discard(k Kind) {
	switch k {
	case KindPMC:
		r.pmc.Pop()
	case KindNum:
		r.num.Pop()
	case KindInt:
		r.ints.Pop()
	case KindStr:
		r.str.Pop()
	}
}
