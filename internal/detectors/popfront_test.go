// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"testing"

	"github.com/aclements/lirscan/internal/ir"
)

func buildPopFrontContract(withAppend bool) *ir.CompiledContract {
	registry := ir.NewStaticRegistry(map[int]ir.ConcreteLibfunc{
		0: {Kind: ir.LibfuncArrayPopFront},
		1: {Kind: ir.LibfuncArrayAppend},
	})

	statements := []ir.Statement{
		&ir.Invocation{LibfuncID: 0, Args: []ir.VarID{0}, Branches: []ir.Branch{
			{Target: ir.BranchTarget{Fallthrough: true}, Results: []ir.VarID{1, 2}},
		}},
	}
	if withAppend {
		statements = append(statements, &ir.Invocation{LibfuncID: 1, Args: []ir.VarID{1, 3}, Branches: []ir.Branch{
			{Target: ir.BranchTarget{Fallthrough: true}, Results: []ir.VarID{4}},
		}})
	}
	statements = append(statements, &ir.Return{})

	program := &ir.Program{
		Statements: statements,
		Functions: []ir.FunctionEntry{
			{Name: "pkg::consume", EntryPoint: 0, Params: []ir.Param{{Name: "arr", Type: "core::array::Array::<felt252>"}}},
		},
	}
	abi := &ir.ABI{Functions: []ir.ABIFunction{{Name: "pkg::consume", Mutability: ir.MutabilityExternal}}}
	return &ir.CompiledContract{Program: program, ABI: abi, Registry: registry}
}

func TestArrayUseAfterPopFrontIgnoresArrayNotUsedAgain(t *testing.T) {
	cu := oneUnit(t, buildPopFrontContract(false))
	findings := arrayUseAfterPopFront{}.Run(cu)
	if len(findings) != 0 {
		t.Fatalf("got %d findings, want 0 (popped array is not used afterward): %v", len(findings), findings)
	}
}

func TestArrayUseAfterPopFrontFlagsSubsequentAppend(t *testing.T) {
	cu := oneUnit(t, buildPopFrontContract(true))
	findings := arrayUseAfterPopFront{}.Run(cu)
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1 (popped array is appended to afterward): %v", len(findings), findings)
	}
}
