// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core ties the ir, dataflow, reentrancy and taint packages
// together into the queryable CompilationUnit and CoreUnit the detectors
// and printers consume.
package core

import (
	"sort"

	"github.com/aclements/lirscan/internal/dataflow"
	"github.com/aclements/lirscan/internal/ir"
	"github.com/aclements/lirscan/internal/reentrancy"
	"github.com/aclements/lirscan/internal/taint"
)

// CompilationUnit is one compiled contract, fully analyzed: its functions
// are classified, their CFGs built, and both the reentrancy and taint
// analyses have run to completion. A CompilationUnit never shares mutable
// state with another; CoreUnit is the only thing that builds more than
// one.
type CompilationUnit struct {
	Name     string
	Program  *ir.Program
	ABI      *ir.ABI
	Registry ir.Registry

	functions  []*ir.Function
	byName     map[string]*ir.Function
	classifier *ir.Classification
	taints     map[string]*taint.Taint
}

// NewCompilationUnit ingests a compiled contract and runs analyze(): it
// slices the flat statement list into per-function ranges, classifies
// every function against the ABI, builds both CFG flavors and the
// per-function call indices, runs the reentrancy dataflow analysis per
// function, and computes taint (per-function, then inter-procedurally
// propagated across the whole unit).
func NewCompilationUnit(name string, contract *ir.CompiledContract) *CompilationUnit {
	u := &CompilationUnit{
		Name:       name,
		Program:    contract.Program,
		ABI:        contract.ABI,
		Registry:   contract.Registry,
		byName:     map[string]*ir.Function{},
		classifier: ir.NewClassification(contract.ABI),
		taints:     map[string]*taint.Taint{},
	}

	entries := append([]ir.FunctionEntry(nil), contract.Program.Functions...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntryPoint < entries[j].EntryPoint })

	for i, fe := range entries {
		if ir.IsAuxiliaryStateConstructor(fe.Name) {
			continue
		}
		end := len(contract.Program.Statements)
		if i+1 < len(entries) {
			end = entries[i+1].EntryPoint
		}
		start := fe.EntryPoint
		if start < 0 || start > end || end > len(contract.Program.Statements) {
			continue // malformed entry point: skip rather than panic.
		}
		f := ir.NewFunction(fe.Name, fe.Params, fe.ReturnTypes, u.classifier.Classify(fe.Name), contract.Program.Statements[start:end], start)
		u.functions = append(u.functions, f)
		u.byName[fe.Name] = f
	}

	classifyCallee := func(name string) (ir.Type, bool) {
		if _, ok := u.byName[name]; ok {
			return u.classifier.Classify(name), true
		}
		t := u.classifier.Classify(name)
		if t != ir.TypePrivate {
			return t, true
		}
		return ir.TypePrivate, false
	}

	for _, f := range u.functions {
		f.Build(u.Registry, classifyCallee)
	}

	u.runReentrancy()
	u.runTaint()

	return u
}

func (u *CompilationUnit) runReentrancy() {
	analysis := &reentrancy.Analysis{Registry: u.Registry, ByName: u.byName}
	for _, f := range u.functions {
		cfg := f.GetCFG()
		if cfg == nil {
			continue
		}
		result := dataflow.Run(cfg, analysis)
		perBlock := make(map[int]interface{}, len(result.Out))
		for id, d := range result.Out {
			perBlock[id] = d.(reentrancy.Domain)
		}
		f.Analyses().Reentrancy = perBlock
	}
}

func (u *CompilationUnit) runTaint() {
	for _, f := range u.functions {
		u.taints[f.Name] = taint.New(f.Statements, f.Name)
	}
	taint.Propagate(u.taints, u.functions, u.Registry)
}

// Functions returns every classified function, in entry-point order.
func (u *CompilationUnit) Functions() []*ir.Function { return u.functions }

// FunctionsUserDefined returns the subset of Functions whose Type is
// user-defined (constructor/external/view/private/L1-handler/loop).
func (u *CompilationUnit) FunctionsUserDefined() []*ir.Function {
	var out []*ir.Function
	for _, f := range u.functions {
		if f.Type.UserDefined() {
			out = append(out, f)
		}
	}
	return out
}

// FunctionByName looks up a function by its exact compiled name.
func (u *CompilationUnit) FunctionByName(name string) (*ir.Function, bool) {
	f, ok := u.byName[name]
	return f, ok
}

// AllEventNames returns the ABI's declared event names.
func (u *CompilationUnit) AllEventNames() []string {
	return append([]string(nil), u.ABI.Events...)
}

// GetTaint returns the (possibly propagated) taint graph for a function,
// or nil if the function has none.
func (u *CompilationUnit) GetTaint(function string) *taint.Taint {
	return u.taints[function]
}

// IsTainted reports whether some ABI-entry parameter forward-taints
// (function, variable).
func (u *CompilationUnit) IsTainted(function string, variable ir.VarID) bool {
	return taint.IsTainted(u.taints, u.functions, function, variable)
}

// ReentrancyAt returns the post-transfer reentrancy state for a block, or
// the bottom state if the function or block is unknown.
func (u *CompilationUnit) ReentrancyAt(ref ir.BlockRef) reentrancy.Domain {
	f, ok := u.byName[ref.Function]
	if !ok {
		return reentrancy.Bottom()
	}
	facts := f.Analyses().Reentrancy
	if facts == nil {
		return reentrancy.Bottom()
	}
	d, ok := facts[ref.ID]
	if !ok {
		return reentrancy.Bottom()
	}
	return d.(reentrancy.Domain)
}
