// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package regstack_test

import (
	"errors"
	"testing"
	"unsafe"

	"code.hybscloud.com/regstack"
)

type testVTable string

func (v testVTable) VTableName() string { return string(v) }

// =============================================================================
// RegisterFile - Save / Restore
// =============================================================================

func TestRegisterFileSaveRestore(t *testing.T) {
	pools := regstack.NewPools(regstack.DefaultPolicy(), 4)
	rf := regstack.NewRegisterFile(pools)
	defer rf.Release()

	payload := 7
	rf.Int[0] = 42
	rf.Num[1] = 1.5
	rf.Str[2] = "caller"
	rf.PMC[3] = regstack.PMC{VTable: testVTable("Integer"), Data: regstack.DPointer(unsafe.Pointer(&payload))}

	if err := rf.SaveAll(); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	for _, k := range regstack.Kinds() {
		if rf.Depth(k) != 1 {
			t.Fatalf("Depth(%s): got %d, want 1", k, rf.Depth(k))
		}
		rf.Clear(k)
	}
	rf.Int[0] = 7
	rf.Str[2] = "callee"

	if err := rf.RestoreAll(); err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	if rf.Int[0] != 42 || rf.Num[1] != 1.5 || rf.Str[2] != "caller" {
		t.Fatalf("restored: int=%d num=%v str=%q", rf.Int[0], rf.Num[1], rf.Str[2])
	}
	if rf.PMC[3].VTable == nil || rf.PMC[3].VTable.VTableName() != "Integer" {
		t.Fatal("PMC register not restored")
	}
	if *(*int)(unsafe.Pointer(rf.PMC[3].Data)) != 7 {
		t.Fatal("PMC data not restored")
	}
}

// TestRegisterFileSingleKind tests that kinds are saved independently.
func TestRegisterFileSingleKind(t *testing.T) {
	pools := regstack.NewPools(regstack.DefaultPolicy(), 4)
	rf := regstack.NewRegisterFile(pools)
	defer rf.Release()

	for i := range 40 {
		rf.Int[0] = regstack.IV(i)
		if err := rf.Save(regstack.KindInt); err != nil {
			t.Fatalf("Save(%d): %v", i, err)
		}
	}
	if got := pools.Stats(regstack.KindInt).InUse; got != 3 {
		t.Fatalf("int chunks in use: got %d, want 3", got)
	}
	if got := pools.Stats(regstack.KindNum).InUse; got != 0 {
		t.Fatalf("num chunks in use: got %d, want 0", got)
	}

	for i := 39; i >= 0; i-- {
		if err := rf.Restore(regstack.KindInt); err != nil {
			t.Fatalf("Restore(%d): %v", i, err)
		}
		if rf.Int[0] != regstack.IV(i) {
			t.Fatalf("Restore(%d): got %d", i, rf.Int[0])
		}
	}

	rf.Int[0] = 5
	if err := rf.Restore(regstack.KindInt); !errors.Is(err, regstack.ErrUnderflow) {
		t.Fatalf("Restore on empty: got %v, want ErrUnderflow", err)
	}
	if rf.Int[0] != 5 {
		t.Fatal("failed Restore changed the current frame")
	}
}

// TestRegisterFileSaveAllRollback tests that a partial SaveAll is undone.
func TestRegisterFileSaveAllRollback(t *testing.T) {
	policy := regstack.NewPolicy().Base(1).Build()
	pools := regstack.NewPools(policy, 2)

	// Exhaust the string pool from another register file
	other := regstack.NewRegisterFile(pools)
	other.Save(regstack.KindStr)
	other.Save(regstack.KindStr)

	rf := regstack.NewRegisterFile(pools)
	err := rf.SaveAll()
	if !regstack.IsWouldBlock(err) {
		t.Fatalf("SaveAll on exhausted pool: got %v, want ErrWouldBlock", err)
	}
	for _, k := range regstack.Kinds() {
		if rf.Depth(k) != 0 {
			t.Fatalf("Depth(%s) after rollback: got %d, want 0", k, rf.Depth(k))
		}
	}

	other.Release()
	if err := rf.SaveAll(); err != nil {
		t.Fatalf("SaveAll after release: %v", err)
	}
}

func TestRegisterFileRestoreAllUnderflow(t *testing.T) {
	pools := regstack.NewPools(regstack.DefaultPolicy(), 2)
	rf := regstack.NewRegisterFile(pools)
	defer rf.Release()

	rf.Int[0] = 1
	rf.Save(regstack.KindInt)
	rf.Int[0] = 2

	if err := rf.RestoreAll(); !errors.Is(err, regstack.ErrUnderflow) {
		t.Fatalf("RestoreAll: got %v, want ErrUnderflow", err)
	}
	if rf.Int[0] != 2 || rf.Depth(regstack.KindInt) != 1 {
		t.Fatal("failed RestoreAll changed state")
	}
}

func TestRegisterFileRelease(t *testing.T) {
	pools := regstack.NewPools(regstack.DefaultPolicy(), 2)
	rf := regstack.NewRegisterFile(pools)

	rf.SaveAll()
	rf.Release()
	for _, k := range regstack.Kinds() {
		if st := pools.Stats(k); st.InUse != 0 {
			t.Fatalf("Stats(%s) after Release: %+v", k, st)
		}
	}
}

func TestRegisterFilePanics(t *testing.T) {
	pools := regstack.NewPools(regstack.DefaultPolicy(), 1)
	rf := regstack.NewRegisterFile(pools)
	bad := regstack.Kind(4)

	tests := []struct {
		name string
		fn   func()
	}{
		{"NilPools", func() { regstack.NewRegisterFile(nil) }},
		{"Save", func() { rf.Save(bad) }},
		{"Restore", func() { rf.Restore(bad) }},
		{"Clear", func() { rf.Clear(bad) }},
		{"Depth", func() { rf.Depth(bad) }},
		{"Stats", func() { pools.Stats(bad) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
