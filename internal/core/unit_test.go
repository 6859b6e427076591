// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"testing"

	"github.com/aclements/lirscan/internal/ir"
)

// buildSampleContract builds a contract with two user-defined functions:
// an External entry point "pkg::withdraw" that reads a storage variable,
// calls an external contract, then writes the same storage variable (the
// read-only reentrancy / reentrancy-benign shape), and a Private helper
// "pkg::helper" that pkg::withdraw calls with its own tainted parameter.
// The storage accessors and the call-contract dispatcher withdraw calls
// get one-statement bodies, since the reentrancy analysis only records
// calls to functions of the program.
func buildSampleContract() *ir.CompiledContract {
	registry := ir.NewStaticRegistry(map[int]ir.ConcreteLibfunc{
		0: {Kind: ir.LibfuncFunctionCall, CalleeName: "pkg::balance::read"},
		1: {Kind: ir.LibfuncFunctionCall, CalleeName: "pkg::helper"},
		2: {Kind: ir.LibfuncFunctionCall, CalleeName: "pkg::ContractCaller::notify"},
		3: {Kind: ir.LibfuncFunctionCall, CalleeName: "pkg::balance::write"},
	})

	withdraw := []ir.Statement{
		&ir.Invocation{LibfuncID: 0, Args: []ir.VarID{0}, Branches: []ir.Branch{{Target: ir.BranchTarget{Fallthrough: true}, Results: []ir.VarID{1}}}},
		&ir.Invocation{LibfuncID: 1, Args: []ir.VarID{0}, Branches: []ir.Branch{{Target: ir.BranchTarget{Fallthrough: true}, Results: []ir.VarID{2}}}},
		&ir.Invocation{LibfuncID: 2, Args: nil, Branches: []ir.Branch{{Target: ir.BranchTarget{Fallthrough: true}}}},
		&ir.Invocation{LibfuncID: 3, Args: []ir.VarID{1}, Branches: []ir.Branch{{Target: ir.BranchTarget{Fallthrough: true}}}},
		&ir.Return{},
	}
	helper := []ir.Statement{
		&ir.Return{Args: []ir.VarID{0}},
	}

	accessors := []ir.Statement{&ir.Return{}, &ir.Return{}, &ir.Return{}}
	base := len(withdraw) + len(helper)

	program := &ir.Program{
		Statements: append(append(append([]ir.Statement{}, withdraw...), helper...), accessors...),
		Functions: []ir.FunctionEntry{
			{Name: "pkg::withdraw", EntryPoint: 0, Params: []ir.Param{{Name: "amount", Type: "felt252"}}},
			{Name: "pkg::helper", EntryPoint: len(withdraw), Params: []ir.Param{{Name: "x", Type: "felt252"}}, ReturnTypes: []string{"felt252"}},
			{Name: "pkg::balance::read", EntryPoint: base},
			{Name: "pkg::ContractCaller::notify", EntryPoint: base + 1},
			{Name: "pkg::balance::write", EntryPoint: base + 2},
		},
	}
	abi := &ir.ABI{
		Functions: []ir.ABIFunction{{Name: "pkg::withdraw", Mutability: ir.MutabilityExternal}},
	}
	return &ir.CompiledContract{Program: program, ABI: abi, Registry: registry}
}

func TestNewCompilationUnitClassifiesFunctions(t *testing.T) {
	u := NewCompilationUnit("pkg", buildSampleContract())

	withdraw, ok := u.FunctionByName("pkg::withdraw")
	if !ok {
		t.Fatal("pkg::withdraw not found")
	}
	if withdraw.Type != ir.TypeExternal {
		t.Errorf("pkg::withdraw classified as %v, want External", withdraw.Type)
	}
	helper, ok := u.FunctionByName("pkg::helper")
	if !ok {
		t.Fatal("pkg::helper not found")
	}
	if helper.Type != ir.TypePrivate {
		t.Errorf("pkg::helper classified as %v, want Private", helper.Type)
	}

	userDefined := u.FunctionsUserDefined()
	if len(userDefined) != 2 {
		t.Errorf("got %d user-defined functions, want 2", len(userDefined))
	}
}

func TestNewCompilationUnitRunsReentrancy(t *testing.T) {
	u := NewCompilationUnit("pkg", buildSampleContract())
	withdraw, _ := u.FunctionByName("pkg::withdraw")
	cfg := withdraw.GetCFG()
	last := cfg.Blocks[len(cfg.Blocks)-1]

	state := u.ReentrancyAt(last.Ref())
	info := state.Info()
	if info == nil {
		t.Fatal("expected a non-bottom reentrancy state at the final block")
	}
	if len(info.ExternalCalls) != 1 {
		t.Errorf("got %d external calls, want 1", len(info.ExternalCalls))
	}
	if len(info.StorageWrites) != 1 {
		t.Errorf("got %d storage writes, want 1", len(info.StorageWrites))
	}
	if len(info.StorageReads) != 1 {
		t.Errorf("got %d storage reads, want 1", len(info.StorageReads))
	}
}

func TestNewCompilationUnitPropagatesTaint(t *testing.T) {
	u := NewCompilationUnit("pkg", buildSampleContract())
	if !u.IsTainted("pkg::helper", 0) {
		t.Error("expected pkg::withdraw's amount parameter to taint pkg::helper's parameter 0")
	}
}

func TestReentrancyAtUnknownBlockReturnsBottom(t *testing.T) {
	u := NewCompilationUnit("pkg", buildSampleContract())
	state := u.ReentrancyAt(ir.BlockRef{Function: "does-not-exist", ID: 0})
	if state.Info() != nil {
		t.Error("expected Bottom (nil Info) for an unknown function")
	}
}
