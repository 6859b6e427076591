// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package taint

import (
	"testing"

	"github.com/aclements/lirscan/internal/ir"
)

func TestNewAndMultiStepTaint(t *testing.T) {
	// v0 -> v1 -> v2, via two chained invocations.
	statements := []ir.Statement{
		&ir.Invocation{Args: []ir.VarID{0}, Branches: []ir.Branch{{Results: []ir.VarID{1}}}},
		&ir.Invocation{Args: []ir.VarID{1}, Branches: []ir.Branch{{Results: []ir.VarID{2}}}},
		&ir.Return{Args: []ir.VarID{2}},
	}
	tn := New(statements, "f")

	v0 := WrapperVariable{"f", 0}
	v2 := WrapperVariable{"f", 2}
	reached := tn.MultiStepTaint(v0)
	if !reached[v2] {
		t.Errorf("expected v0 to multi-step-taint v2, reached = %v", reached)
	}

	if tn.TaintsAnySinks(v0, map[WrapperVariable]bool{v2: true}) != true {
		t.Error("TaintsAnySinks(v0, {v2}) = false, want true")
	}
	unrelated := WrapperVariable{"f", 99}
	if tn.TaintsAnySinks(unrelated, map[WrapperVariable]bool{v2: true}) {
		t.Error("an unrelated variable should not taint v2")
	}
}

func TestPropagateAcrossPrivateCall(t *testing.T) {
	// external(param0) calls private(param0) positionally.
	registry := ir.NewStaticRegistry(map[int]ir.ConcreteLibfunc{
		0: {Kind: ir.LibfuncFunctionCall, CalleeName: "pkg::helper"},
	})
	callerStmts := []ir.Statement{
		&ir.Invocation{LibfuncID: 0, Args: []ir.VarID{0}, Branches: []ir.Branch{{Results: []ir.VarID{1}}}},
		&ir.Return{Args: []ir.VarID{1}},
	}
	calleeStmts := []ir.Statement{
		&ir.Return{Args: []ir.VarID{0}},
	}

	caller := ir.NewFunction("pkg::entry", []ir.Param{{Name: "x", Type: "felt252"}}, nil, ir.TypeExternal, callerStmts, 0)
	callee := ir.NewFunction("pkg::helper", []ir.Param{{Name: "x", Type: "felt252"}}, nil, ir.TypePrivate, calleeStmts, 10)
	functions := []*ir.Function{caller, callee}

	taints := map[string]*Taint{
		"pkg::entry":  New(caller.GetStatements(), "pkg::entry"),
		"pkg::helper": New(callee.GetStatements(), "pkg::helper"),
	}

	Propagate(taints, functions, registry)

	if !IsTainted(taints, functions, "pkg::helper", 0) {
		t.Error("expected pkg::helper's param 0 to be tainted via the positional call-argument translation")
	}
}

func TestIsTaintedFalseForUntaintedVariable(t *testing.T) {
	statements := []ir.Statement{&ir.Return{}}
	f := ir.NewFunction("pkg::entry", []ir.Param{{Name: "x", Type: "felt252"}}, nil, ir.TypeExternal, statements, 0)
	taints := map[string]*Taint{"pkg::entry": New(f.GetStatements(), "pkg::entry")}
	if IsTainted(taints, []*ir.Function{f}, "pkg::entry", 5) {
		t.Error("a variable with no incoming taint edges should not be tainted")
	}
}
