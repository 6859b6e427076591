// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ir

// Function is one function of a compiled contract: its declared signature,
// classification, statements, both CFG flavors, cached call indices, and
// its per-analysis results (an AnalysisResults, populated by the owning
// compilation unit once it has classified every function).
type Function struct {
	Name        string
	Params      []Param
	ReturnTypes []string
	Type        Type

	Statements []Statement
	basePC     int

	cfgRegular   *CFG
	cfgOptimized *CFG

	storageVarsRead    []Instruction
	storageVarsWritten []Instruction
	coreCalls          []Instruction
	privateCalls       []Instruction
	eventsEmitted      []Instruction
	externalCalls      []Instruction
	libraryCalls       []Instruction

	analyses AnalysisResults
}

// NewFunction builds a Function for the given statement range; basePC is
// the absolute program counter of statements[0]. CFGs and call indices are
// not built yet; call Build once the owning unit's classifier is ready.
func NewFunction(name string, params []Param, returns []string, typ Type, statements []Statement, basePC int) *Function {
	return &Function{
		Name:        name,
		Params:      params,
		ReturnTypes: returns,
		Type:        typ,
		Statements:  statements,
		basePC:      basePC,
	}
}

// AnalysisResults holds per-function results of the core's dataflow
// analyses. Reentrancy is the only one populated today; it is typed as
// interface{} here to avoid an import cycle (the reentrancy package
// itself imports ir) — callers type-assert to reentrancy.Domain. See
// internal/reentrancy and internal/core, which wires the two together.
type AnalysisResults struct {
	Reentrancy map[int]interface{} // block id -> reentrancy.Domain
}

// ParamsFiltered returns the function's declared parameters with builtins
// filtered out.
func (f *Function) ParamsFiltered() []Param {
	var out []Param
	for _, p := range f.Params {
		if !Builtins[p.Type] {
			out = append(out, p)
		}
	}
	return out
}

// ParamsAll returns every declared parameter, including builtins.
func (f *Function) ParamsAll() []Param { return f.Params }

// Returns returns the function's declared return types with builtins
// filtered out.
func (f *Function) Returns() []string {
	var out []string
	for _, r := range f.ReturnTypes {
		if !Builtins[r] {
			out = append(out, r)
		}
	}
	return out
}

// ReturnsAll returns every declared return type, including builtins.
func (f *Function) ReturnsAll() []string { return f.ReturnTypes }

func (f *Function) GetStatements() []Statement { return f.Statements }

// GetStatementsAt returns the statement slice beginning at the given
// absolute program counter.
func (f *Function) GetStatementsAt(pc int) []Statement {
	i := pc - f.basePC
	if i < 0 || i > len(f.Statements) {
		return nil
	}
	return f.Statements[i:]
}

func (f *Function) GetCFG() *CFG          { return f.cfgRegular }
func (f *Function) GetCFGOptimized() *CFG { return f.cfgOptimized }

func (f *Function) StorageVarsRead() []Instruction    { return f.storageVarsRead }
func (f *Function) StorageVarsWritten() []Instruction { return f.storageVarsWritten }
func (f *Function) CoreCalls() []Instruction          { return f.coreCalls }
func (f *Function) PrivateCalls() []Instruction       { return f.privateCalls }
func (f *Function) EventsEmitted() []Instruction      { return f.eventsEmitted }
func (f *Function) ExternalCalls() []Instruction      { return f.externalCalls }
func (f *Function) LibraryCalls() []Instruction       { return f.libraryCalls }

func (f *Function) Analyses() *AnalysisResults { return &f.analyses }

// Build constructs both CFG flavors and the per-function call indices.
// classifyCallee resolves a callee name to its Type (via the compilation
// unit's classification table).
func (f *Function) Build(registry Registry, classifyCallee func(name string) (Type, bool)) {
	f.cfgRegular = buildRegularCFG(f.Statements, f.basePC, f.Name, registry, classifyCallee)
	f.cfgOptimized = buildOptimizedCFG(f.cfgRegular, registry, classifyCallee)
	f.setCallIndices(registry, classifyCallee)
}

func (f *Function) setCallIndices(registry Registry, classifyCallee func(name string) (Type, bool)) {
	for i, s := range f.Statements {
		inv, ok := s.(*Invocation)
		if !ok {
			continue
		}
		cl, ok := registry.Libfunc(inv.LibfuncID)
		if !ok || cl.Kind != LibfuncFunctionCall {
			continue
		}
		ty, ok := classifyCallee(cl.CalleeName)
		if !ok {
			continue
		}
		instr := Instruction{PC: f.basePC + i, Stmt: s}
		switch ty {
		case TypeStorage:
			if hasSuffix(cl.CalleeName, "::read") {
				f.storageVarsRead = append(f.storageVarsRead, instr)
			} else if hasSuffix(cl.CalleeName, "::write") {
				f.storageVarsWritten = append(f.storageVarsWritten, instr)
			}
		case TypeEvent:
			f.eventsEmitted = append(f.eventsEmitted, instr)
		case TypeCore:
			f.coreCalls = append(f.coreCalls, instr)
		case TypePrivate, TypeLoop:
			f.privateCalls = append(f.privateCalls, instr)
		case TypeAbiCallContract:
			f.externalCalls = append(f.externalCalls, instr)
		case TypeAbiLibraryCall:
			f.libraryCalls = append(f.libraryCalls, instr)
		}
	}
}
