// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

import "testing"

func TestBasicBlockClassifyPriority(t *testing.T) {
	// libfunc 0 calls a Private function, libfunc 1 calls an Event
	// function. Both land in the same block; FunctionCall must pick the
	// Event call (higher priority) even though the private call comes
	// first in program order.
	registry := NewStaticRegistry(map[int]ConcreteLibfunc{
		0: {Kind: LibfuncFunctionCall, CalleeName: "pkg::helper"},
		1: {Kind: LibfuncFunctionCall, CalleeName: "pkg::Event::Transfer"},
	})
	byName := func(name string) (Type, bool) {
		switch name {
		case "pkg::helper":
			return TypePrivate, true
		case "pkg::Event::Transfer":
			return TypeEvent, true
		}
		return TypePrivate, false
	}

	b := &BasicBlock{
		Function: "f",
		ID:       0,
		Instructions: []Instruction{
			{PC: 0, Stmt: &Invocation{LibfuncID: 0, Branches: []Branch{{Target: BranchTarget{Fallthrough: true}}}}},
			{PC: 1, Stmt: &Invocation{LibfuncID: 1, Branches: []Branch{{Target: BranchTarget{Fallthrough: true}}}}},
			{PC: 2, Stmt: &Return{}},
		},
	}
	b.classify(registry, byName)

	if _, ok := b.PrivateCall(); !ok {
		t.Error("expected the private call slot to be set")
	}
	if _, ok := b.EventEmit(); !ok {
		t.Error("expected the event-emit slot to be set")
	}

	call, ok := b.FunctionCall()
	if !ok {
		t.Fatal("FunctionCall() returned false")
	}
	inv, _ := call.AsInvocation()
	if inv.LibfuncID != 1 {
		t.Errorf("FunctionCall() picked libfunc %d, want 1 (event beats private)", inv.LibfuncID)
	}
}

func TestBasicBlockStorageReadWriteSuffix(t *testing.T) {
	registry := NewStaticRegistry(map[int]ConcreteLibfunc{
		0: {Kind: LibfuncFunctionCall, CalleeName: "pkg::balance::read"},
		1: {Kind: LibfuncFunctionCall, CalleeName: "pkg::balance::write"},
	})
	byName := func(name string) (Type, bool) { return TypeStorage, true }

	b := &BasicBlock{
		Instructions: []Instruction{
			{PC: 0, Stmt: &Invocation{LibfuncID: 0, Branches: []Branch{{Target: BranchTarget{Fallthrough: true}}}}},
			{PC: 1, Stmt: &Invocation{LibfuncID: 1, Branches: []Branch{{Target: BranchTarget{Fallthrough: true}}}}},
			{PC: 2, Stmt: &Return{}},
		},
	}
	b.classify(registry, byName)

	if _, ok := b.StorageRead(); !ok {
		t.Error("expected storage-read slot to be set")
	}
	if _, ok := b.StorageWrite(); !ok {
		t.Error("expected storage-write slot to be set")
	}
}

func TestFirstLastInstructionPanicsOnEmptyBlock(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected FirstInstruction on an empty block to panic")
		}
	}()
	(&BasicBlock{}).FirstInstruction()
}
