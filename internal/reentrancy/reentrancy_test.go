// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reentrancy

import (
	"testing"

	"github.com/aclements/lirscan/internal/dataflow"
	"github.com/aclements/lirscan/internal/ir"
)

// buildCaller returns a CFG for a function whose single block holds an
// external call, then a storage write, then a return (no statement is a
// jump target, so the block is never split). The callee table
// classifies "pkg::external_call" as AbiCallContract and
// "pkg::balance::write" as Storage.
func buildCaller(t *testing.T) (*ir.CFG, *Analysis) {
	t.Helper()
	registry := ir.NewStaticRegistry(map[int]ir.ConcreteLibfunc{
		0: {Kind: ir.LibfuncFunctionCall, CalleeName: "pkg::external_call"},
		1: {Kind: ir.LibfuncFunctionCall, CalleeName: "pkg::balance::write"},
	})
	byName := map[string]*ir.Function{
		"pkg::external_call": ir.NewFunction("pkg::external_call", nil, nil, ir.TypeAbiCallContract, nil, 0),
		"pkg::balance::write": ir.NewFunction("pkg::balance::write", nil, nil, ir.TypeStorage, nil, 0),
	}
	classify := func(name string) (ir.Type, bool) {
		if f, ok := byName[name]; ok {
			return f.Type, true
		}
		return ir.TypePrivate, false
	}

	statements := []ir.Statement{
		&ir.Invocation{LibfuncID: 0, Branches: []ir.Branch{{Target: ir.BranchTarget{Fallthrough: true}}}},
		&ir.Invocation{LibfuncID: 1, Branches: []ir.Branch{{Target: ir.BranchTarget{Fallthrough: true}}}},
		&ir.Return{},
	}
	f := ir.NewFunction("pkg::do_it", nil, nil, ir.TypeExternal, statements, 0)
	f.Build(registry, classify)

	return f.GetCFG(), &Analysis{Registry: registry, ByName: byName}
}

func TestTransferRecordsExternalCallThenStorageWrite(t *testing.T) {
	cfg, analysis := buildCaller(t)
	result := dataflow.Run(cfg, analysis)

	final := result.Out[len(result.Out)-1].(Domain)
	info := final.Info()
	if info == nil {
		t.Fatal("expected a non-bottom, non-top final state")
	}
	if len(info.ExternalCalls) != 1 {
		t.Errorf("got %d external calls recorded, want 1", len(info.ExternalCalls))
	}
	if len(info.StorageWrites) != 1 {
		t.Errorf("got %d storage writes recorded, want 1", len(info.StorageWrites))
	}
}

func TestJoinDoesNotPropagateStorageWritesOrEvents(t *testing.T) {
	ref := ir.BlockRef{Function: "f", ID: 0}
	a := State(&Info{
		ExternalCalls:            map[ir.BlockRef]bool{ref: true},
		StorageReads:             map[ir.BlockRef]bool{},
		StorageWrites:            map[ir.BlockRef]bool{ref: true},
		Events:                   map[ir.BlockRef]bool{ref: true},
		VariablesReadBeforeCalls: map[ir.BlockRef]map[ir.BlockRef]bool{},
	})
	b := State(&Info{
		ExternalCalls:            map[ir.BlockRef]bool{},
		StorageReads:             map[ir.BlockRef]bool{},
		StorageWrites:            map[ir.BlockRef]bool{},
		Events:                   map[ir.BlockRef]bool{},
		VariablesReadBeforeCalls: map[ir.BlockRef]map[ir.BlockRef]bool{},
	})

	joined := a.Join(b).(Domain)
	info := joined.Info()
	if !info.ExternalCalls[ref] {
		t.Error("expected ExternalCalls to be joined across predecessors")
	}
	if len(info.StorageWrites) != 0 {
		t.Errorf("StorageWrites must not be propagated by Join, got %v", info.StorageWrites)
	}
	if len(info.Events) != 0 {
		t.Errorf("Events must not be propagated by Join, got %v", info.Events)
	}
}

func TestBottomJoinState(t *testing.T) {
	ref := ir.BlockRef{Function: "f", ID: 0}
	s := State(&Info{
		ExternalCalls: map[ir.BlockRef]bool{ref: true},
		StorageReads:  map[ir.BlockRef]bool{},
		StorageWrites: map[ir.BlockRef]bool{},
		Events:        map[ir.BlockRef]bool{},
	})
	joined := Bottom().Join(s).(Domain)
	if !joined.Info().ExternalCalls[ref] {
		t.Error("Bottom.Join(State) should carry the state's external calls through")
	}
}

func TestTopSwallowsJoin(t *testing.T) {
	s := State(newInfo())
	got := Top().Join(s).(Domain)
	if got != Top() {
		t.Error("Top.Join(anything) must stay Top")
	}
}
