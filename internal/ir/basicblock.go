// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// BlockRef names a basic block by (function, id), matching the equality and
// hashing spec.md defines for BasicBlock: two blocks are the same block iff
// their function and id match. It is the value used to name blocks across
// function boundaries (the reentrancy analysis inlines callee blocks into a
// caller's fact sets, so a plain *BasicBlock or a bare id is not enough).
type BlockRef struct {
	Function string
	ID       int
}

// roleSlot is an optional instruction slot: at most one instruction of a
// given role may occupy it.
type roleSlot struct {
	instr Instruction
	set   bool
}

func (s roleSlot) get() (Instruction, bool) { return s.instr, s.set }

// BasicBlock is a maximal straight-line run of instructions within one
// function, plus its predecessor/successor block ids and at most one
// instruction in each of the six role-call slots: private_call,
// external_call, library_call, storage_read, storage_write, event_emit.
type BasicBlock struct {
	Function     string
	ID           int
	Instructions []Instruction
	Incoming     []int
	Outgoing     []int

	privateCall  roleSlot
	externalCall roleSlot
	libraryCall  roleSlot
	storageRead  roleSlot
	storageWrite roleSlot
	eventEmit    roleSlot
}

// Ref returns the BlockRef naming this block.
func (b *BasicBlock) Ref() BlockRef { return BlockRef{Function: b.Function, ID: b.ID} }

// FirstInstruction returns the block's first instruction. Panics if the
// block is empty, which is a core invariant violation (see spec.md §7):
// every constructed basic block has at least one instruction.
func (b *BasicBlock) FirstInstruction() Instruction {
	if len(b.Instructions) == 0 {
		panic("basic block with zero instructions")
	}
	return b.Instructions[0]
}

// LastInstruction returns the block's last instruction.
func (b *BasicBlock) LastInstruction() Instruction {
	if len(b.Instructions) == 0 {
		panic("basic block with zero instructions")
	}
	return b.Instructions[len(b.Instructions)-1]
}

// FunctionCall returns "the" function call in this block: the first
// non-empty role slot in priority order event, external, library, private,
// storage-read, storage-write. A block can have more than one role slot
// set; this query picks one deterministically for callers (e.g. the
// reentrancy transfer function) that only care about a single call per
// block.
func (b *BasicBlock) FunctionCall() (Instruction, bool) {
	if i, ok := b.eventEmit.get(); ok {
		return i, true
	}
	if i, ok := b.externalCall.get(); ok {
		return i, true
	}
	if i, ok := b.libraryCall.get(); ok {
		return i, true
	}
	if i, ok := b.privateCall.get(); ok {
		return i, true
	}
	if i, ok := b.storageRead.get(); ok {
		return i, true
	}
	if i, ok := b.storageWrite.get(); ok {
		return i, true
	}
	return Instruction{}, false
}

func (b *BasicBlock) PrivateCall() (Instruction, bool)  { return b.privateCall.get() }
func (b *BasicBlock) ExternalCall() (Instruction, bool) { return b.externalCall.get() }
func (b *BasicBlock) LibraryCall() (Instruction, bool)  { return b.libraryCall.get() }
func (b *BasicBlock) StorageRead() (Instruction, bool)  { return b.storageRead.get() }
func (b *BasicBlock) StorageWrite() (Instruction, bool) { return b.storageWrite.get() }
func (b *BasicBlock) EventEmit() (Instruction, bool)    { return b.eventEmit.get() }

// classify scans the block's instructions and, for each Invocation that
// resolves to a FunctionCall libfunc, tags the role slot matching the
// callee's classification. byName looks up a function's classification by
// its exact name.
func (b *BasicBlock) classify(registry Registry, byName func(name string) (Type, bool)) {
	for _, instr := range b.Instructions {
		inv, ok := instr.AsInvocation()
		if !ok {
			continue
		}
		cl, ok := registry.Libfunc(inv.LibfuncID)
		if !ok || cl.Kind != LibfuncFunctionCall {
			continue
		}
		ty, ok := byName(cl.CalleeName)
		if !ok {
			// Missing classification targets are silently ignored
			// (spec.md §7): a conservative under-approximation.
			continue
		}
		switch ty {
		case TypeEvent:
			b.eventEmit = roleSlot{instr, true}
		case TypeAbiCallContract:
			b.externalCall = roleSlot{instr, true}
		case TypeAbiLibraryCall:
			b.libraryCall = roleSlot{instr, true}
		case TypePrivate, TypeLoop:
			b.privateCall = roleSlot{instr, true}
		case TypeStorage:
			if hasSuffix(cl.CalleeName, "::read") {
				b.storageRead = roleSlot{instr, true}
			} else if hasSuffix(cl.CalleeName, "::write") {
				b.storageWrite = roleSlot{instr, true}
			}
		}
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
