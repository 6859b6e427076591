// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reentrancy implements the forward dataflow analysis that
// collects, per basic block, the external calls, storage accesses and
// events reachable at that point in a function - the fact base every
// reentrancy-family detector queries.
package reentrancy

import (
	"github.com/aclements/lirscan/internal/dataflow"
	"github.com/aclements/lirscan/internal/ir"
)

// Info is the non-lattice payload of a State element: the block-tagged
// facts accumulated along one path through a function (and, via inlining,
// through the private/loop/external/view functions it calls).
type Info struct {
	ExternalCalls map[ir.BlockRef]bool
	StorageReads  map[ir.BlockRef]bool
	StorageWrites map[ir.BlockRef]bool
	Events        map[ir.BlockRef]bool

	// VariablesReadBeforeCalls snapshots StorageReads as of the moment
	// each external call block was reached, keyed by that call block.
	VariablesReadBeforeCalls map[ir.BlockRef]map[ir.BlockRef]bool
}

func newInfo() *Info {
	return &Info{
		ExternalCalls:            map[ir.BlockRef]bool{},
		StorageReads:             map[ir.BlockRef]bool{},
		StorageWrites:            map[ir.BlockRef]bool{},
		Events:                   map[ir.BlockRef]bool{},
		VariablesReadBeforeCalls: map[ir.BlockRef]map[ir.BlockRef]bool{},
	}
}

func cloneSet(s map[ir.BlockRef]bool) map[ir.BlockRef]bool {
	out := make(map[ir.BlockRef]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func cloneNested(s map[ir.BlockRef]map[ir.BlockRef]bool) map[ir.BlockRef]map[ir.BlockRef]bool {
	out := make(map[ir.BlockRef]map[ir.BlockRef]bool, len(s))
	for k, v := range s {
		out[k] = cloneSet(v)
	}
	return out
}

func (i *Info) clone() *Info {
	return &Info{
		ExternalCalls:            cloneSet(i.ExternalCalls),
		StorageReads:             cloneSet(i.StorageReads),
		StorageWrites:            cloneSet(i.StorageWrites),
		Events:                   cloneSet(i.Events),
		VariablesReadBeforeCalls: cloneNested(i.VariablesReadBeforeCalls),
	}
}

func setEqual(a, b map[ir.BlockRef]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func (i *Info) equal(o *Info) bool {
	if !setEqual(i.ExternalCalls, o.ExternalCalls) ||
		!setEqual(i.StorageReads, o.StorageReads) ||
		!setEqual(i.StorageWrites, o.StorageWrites) ||
		!setEqual(i.Events, o.Events) {
		return false
	}
	if len(i.VariablesReadBeforeCalls) != len(o.VariablesReadBeforeCalls) {
		return false
	}
	for k, v := range i.VariablesReadBeforeCalls {
		ov, ok := o.VariablesReadBeforeCalls[k]
		if !ok || !setEqual(v, ov) {
			return false
		}
	}
	return true
}

type kind int

const (
	kindBottom kind = iota
	kindTop
	kindState
)

// Domain is the reentrancy lattice: Bottom sqsubseteq State(info) sqsubseteq
// Top. Join deliberately does not propagate StorageWrites or Events: the
// detectors that read them want the block where the write/event actually
// happens, not every block reachable from it (original design note, kept
// on purpose - see the reentrancy_benign and reentrancy_events detectors).
type Domain struct {
	kind kind
	info *Info
}

// Bottom is the dataflow.Analysis.Bottom() value: no facts known yet.
func Bottom() Domain { return Domain{kind: kindBottom} }

// Top swallows any further join (used when a caller gives up tracking
// precise facts, which this analysis never does on its own but the
// engine's Domain interface requires it be representable).
func Top() Domain { return Domain{kind: kindTop} }

// State wraps a concrete Info as a lattice element.
func State(info *Info) Domain { return Domain{kind: kindState, info: info} }

// Info returns the block-tagged facts, or nil if the state is Bottom or
// Top.
func (d Domain) Info() *Info {
	if d.kind != kindState {
		return nil
	}
	return d.info
}

func (d Domain) Equal(other dataflow.Domain) bool {
	o := other.(Domain)
	if d.kind != o.kind {
		return false
	}
	if d.kind == kindState {
		return d.info.equal(o.info)
	}
	return true
}

func (d Domain) Join(other dataflow.Domain) dataflow.Domain {
	o := other.(Domain)
	switch {
	case d.kind == kindTop:
		return d
	case o.kind == kindBottom:
		return d
	case d.kind == kindState && o.kind == kindState:
		merged := &Info{
			ExternalCalls:            cloneSet(d.info.ExternalCalls),
			StorageReads:             cloneSet(d.info.StorageReads),
			StorageWrites:            map[ir.BlockRef]bool{},
			Events:                   map[ir.BlockRef]bool{},
			VariablesReadBeforeCalls: cloneNested(d.info.VariablesReadBeforeCalls),
		}
		for k := range o.info.ExternalCalls {
			merged.ExternalCalls[k] = true
		}
		for k := range o.info.StorageReads {
			merged.StorageReads[k] = true
		}
		for k, v := range o.info.VariablesReadBeforeCalls {
			merged.VariablesReadBeforeCalls[k] = cloneSet(v)
		}
		return Domain{kind: kindState, info: merged}
	case d.kind == kindBottom && o.kind == kindState:
		return Domain{
			kind: kindState,
			info: &Info{
				ExternalCalls:            cloneSet(o.info.ExternalCalls),
				StorageReads:             cloneSet(o.info.StorageReads),
				StorageWrites:            map[ir.BlockRef]bool{},
				Events:                   map[ir.BlockRef]bool{},
				VariablesReadBeforeCalls: cloneNested(o.info.VariablesReadBeforeCalls),
			},
		}
	default:
		return Top()
	}
}

// defaultMaxInlineDepth bounds the recursive inlining of callee bodies.
// The reference analysis bounds recursion only with a visited set, which
// is still exponential on pathological private-call chains (design note:
// possible blowup on deep or mutually-recursive private call graphs); a
// depth bound on top of the visited set trades completeness on such
// inputs for termination.
const defaultMaxInlineDepth = 48

// Analysis runs the reentrancy dataflow problem over one function's CFG.
// It needs the owning unit's registry and function table to resolve and
// inline callees.
type Analysis struct {
	Registry       ir.Registry
	ByName         map[string]*ir.Function
	MaxInlineDepth int
}

func (a *Analysis) maxDepth() int {
	if a.MaxInlineDepth > 0 {
		return a.MaxInlineDepth
	}
	return defaultMaxInlineDepth
}

func (a *Analysis) Direction() dataflow.Direction { return dataflow.Forward }
func (a *Analysis) Bottom() dataflow.Domain        { return Bottom() }

// Transfer folds transferInstruction over every instruction in b, in
// order, threading the running Domain from one instruction to the next
// (including through any callees recursively inlined along the way).
func (a *Analysis) Transfer(b *ir.BasicBlock, in dataflow.Domain) dataflow.Domain {
	state := in.(Domain)
	for _, instr := range b.Instructions {
		state = a.transferInstruction(b, state, instr, map[string]bool{}, 0)
	}
	return state
}

func (a *Analysis) transferInstruction(b *ir.BasicBlock, state Domain, instr ir.Instruction, seen map[string]bool, depth int) Domain {
	if state.kind == kindTop {
		return state
	}
	if state.kind == kindBottom {
		state = Domain{kind: kindState, info: newInfo()}
	}

	inv, ok := instr.AsInvocation()
	if !ok {
		return state
	}
	cl, ok := a.Registry.Libfunc(inv.LibfuncID)
	if !ok || cl.Kind != ir.LibfuncFunctionCall {
		return state
	}
	callee, ok := a.ByName[cl.CalleeName]
	if !ok {
		return state
	}

	ref := b.Ref()
	switch callee.Type {
	case ir.TypeStorage:
		if hasReadSuffix(callee.Name) {
			state.info.StorageReads[ref] = true
		} else if hasWriteSuffix(callee.Name) {
			state.info.StorageWrites[ref] = true
		}
	case ir.TypeEvent:
		state.info.Events[ref] = true
	case ir.TypePrivate, ir.TypeLoop, ir.TypeExternal, ir.TypeView:
		if seen[callee.Name] || depth >= a.maxDepth() {
			break
		}
		nextSeen := make(map[string]bool, len(seen)+1)
		for k := range seen {
			nextSeen[k] = true
		}
		nextSeen[callee.Name] = true
		cfg := callee.GetCFG()
		if cfg == nil {
			break
		}
		for _, cbb := range cfg.Blocks {
			if ci, ok := cbb.FunctionCall(); ok {
				state = a.transferInstruction(cbb, state, ci, nextSeen, depth+1)
			}
		}
	case ir.TypeAbiCallContract:
		state.info.ExternalCalls[ref] = true
		state.info.VariablesReadBeforeCalls[ref] = cloneSet(state.info.StorageReads)
	}
	return state
}

func hasReadSuffix(name string) bool  { return len(name) >= 6 && name[len(name)-6:] == "::read" }
func hasWriteSuffix(name string) bool { return len(name) >= 7 && name[len(name)-7:] == "::write" }
