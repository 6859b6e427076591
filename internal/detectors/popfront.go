// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"strings"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
	"github.com/aclements/lirscan/internal/taint"
)

// popFrontHit is one pop_front-family call found in a function: the
// statement index it occurs at, the collection variable it mutates, and
// whether that collection is an array or a span.
type popFrontHit struct {
	index int
	v     ir.VarID
	span  bool
}

// collectPopFronts scans f's statements for ArrayPopFront (always) and, if
// includeSpans, ArraySnapshotPopFront/ArraySnapshotPopBack too.
func collectPopFronts(unit *core.CompilationUnit, f *ir.Function, includeSpans bool) []popFrontHit {
	var hits []popFrontHit
	for i, stmt := range f.GetStatements() {
		inv, ok := stmt.(*ir.Invocation)
		if !ok || len(inv.Args) == 0 {
			continue
		}
		cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
		if !ok {
			continue
		}
		switch cl.Kind {
		case ir.LibfuncArrayPopFront:
			hits = append(hits, popFrontHit{i, inv.Args[0], false})
		case ir.LibfuncArraySnapshotPopFront, ir.LibfuncArraySnapshotPopBack:
			if includeSpans {
				hits = append(hits, popFrontHit{i, inv.Args[0], true})
			}
		}
	}
	return hits
}

// isCollectionType reports whether a declared type name names an array or
// (heuristically, by corelib naming convention) a span. The model doesn't
// carry full type definitions, so span detection relies on the type name
// containing "Span" the way the corelib's Span<T> wrapper struct does.
func isArrayTypeName(name string) bool { return strings.Contains(name, "::array::Array::") }
func isSpanTypeName(name string) bool  { return strings.Contains(name, "Span::<") || strings.Contains(name, "Span<") }

// isUsedAfterPopFront walks, in order: the remainder of f's own statements
// after the pop-front call, calls f makes to private/library/external
// functions and events, and finally (if nothing local used it) whether the
// collection escapes via a return — recursing into the caller if f is a
// loop function, since Sierra lowers Cairo loops to self-recursive private
// functions. Grounded on array_use_after_pop_front.rs /
// use_after_pop_front.rs, which share this exact structure for arrays and
// (in the latter) spans.
func isUsedAfterPopFront(unit *core.CompilationUnit, f *ir.Function, bad taint.WrapperVariable, popIndex int) bool {
	if usedInRemainingStatements(unit, f, bad, popIndex) {
		return true
	}
	if usedInCalls(unit, f, bad, f.PrivateCalls(), f.LibraryCalls(), f.ExternalCalls(), f.EventsEmitted()) {
		return true
	}
	return usedInReturns(unit, f, bad)
}

func usedInRemainingStatements(unit *core.CompilationUnit, f *ir.Function, bad taint.WrapperVariable, fromIndex int) bool {
	t := unit.GetTaint(f.Name)
	if t == nil {
		return false
	}
	stmts := f.GetStatements()
	for i := fromIndex + 1; i < len(stmts); i++ {
		inv, ok := stmts[i].(*ir.Invocation)
		if !ok || len(inv.Args) == 0 {
			continue
		}
		cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
		if !ok || cl.Kind != ir.LibfuncArrayAppend {
			continue
		}
		sinks := map[taint.WrapperVariable]bool{{Function: f.Name, Variable: inv.Args[0]}: true}
		if t.TaintsAnySinks(bad, sinks) {
			return true
		}
	}
	return false
}

func usedInCalls(unit *core.CompilationUnit, f *ir.Function, bad taint.WrapperVariable, groups ...[]ir.Instruction) bool {
	t := unit.GetTaint(f.Name)
	if t == nil {
		return false
	}
	for _, group := range groups {
		for _, inst := range group {
			inv, ok := inst.AsInvocation()
			if !ok {
				continue
			}
			sinks := map[taint.WrapperVariable]bool{}
			for _, a := range inv.Args {
				sinks[taint.WrapperVariable{Function: f.Name, Variable: a}] = true
			}
			if t.TaintsAnySinks(bad, sinks) {
				return true
			}
		}
	}
	return false
}

func usedInReturns(unit *core.CompilationUnit, f *ir.Function, bad taint.WrapperVariable) bool {
	if f.Type == ir.TypeLoop {
		return usedInLoopCallerReturns(unit, f, bad)
	}
	return usedInNonLoopReturns(unit, f, bad)
}

func usedInNonLoopReturns(unit *core.CompilationUnit, f *ir.Function, bad taint.WrapperVariable) bool {
	t := unit.GetTaint(f.Name)
	if t == nil {
		return false
	}
	var collectionIndices []int
	for i, rt := range f.ReturnsAll() {
		if isArrayTypeName(rt) || isSpanTypeName(rt) {
			collectionIndices = append(collectionIndices, i)
		}
	}
	if len(collectionIndices) == 0 {
		return false
	}
	for _, stmt := range f.GetStatements() {
		ret, ok := stmt.(*ir.Return)
		if !ok {
			continue
		}
		sinks := map[taint.WrapperVariable]bool{}
		for _, i := range collectionIndices {
			if i < len(ret.Args) {
				sinks[taint.WrapperVariable{Function: f.Name, Variable: ret.Args[i]}] = true
			}
		}
		if t.TaintsAnySinks(bad, sinks) {
			return true
		}
	}
	return false
}

func usedInLoopCallerReturns(unit *core.CompilationUnit, f *ir.Function, bad taint.WrapperVariable) bool {
	var paramIndices []int
	for i, p := range f.ParamsAll() {
		if isArrayTypeName(p.Type) || isSpanTypeName(p.Type) {
			paramIndices = append(paramIndices, i)
		}
	}
	if len(paramIndices) == 0 {
		return false
	}

	for _, maybeCaller := range unit.Functions() {
		for _, inst := range maybeCaller.PrivateCalls() {
			inv, callee, ok := calleeOf(unit, inst)
			if !ok || callee.Name != f.Name || callee.Type != ir.TypeLoop {
				continue
			}
			for _, idx := range paramIndices {
				if len(inv.Branches) == 0 || idx >= len(inv.Branches[0].Results) {
					continue
				}
				callerBad := taint.WrapperVariable{Function: maybeCaller.Name, Variable: inv.Branches[0].Results[idx]}
				if usedInRemainingStatements(unit, maybeCaller, callerBad, -1) {
					return true
				}
				if usedInCalls(unit, maybeCaller, callerBad, maybeCaller.PrivateCalls(), maybeCaller.LibraryCalls(), maybeCaller.ExternalCalls(), maybeCaller.EventsEmitted()) {
					return true
				}
			}
		}
	}
	return false
}
