// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package taint

import "github.com/aclements/lirscan/internal/ir"

// callSite is a private/loop call found while scanning a function's
// statements: the caller, the callee, and the actual arguments in
// declaration order.
type callSite struct {
	caller string
	callee string
	args   []ir.VarID
}

// abiRoots collects the (function, param) pairs that seed taint: the
// declared parameters of every ABI-entry function (External, View,
// Constructor, L1Handler). The glossary names all four as taint roots;
// spec.md's propagation sketch abbreviates this set to
// "external_or_l1handler" but the broader ABI-entry definition is what the
// rest of the document (and is_tainted's own doc) relies on, so the wider
// set is used here and in IsTainted consistently.
func abiRoots(functions []*ir.Function) []WrapperVariable {
	var roots []WrapperVariable
	for _, f := range functions {
		switch f.Type {
		case ir.TypeExternal, ir.TypeView, ir.TypeConstructor, ir.TypeL1Handler:
			for i := range f.ParamsAll() {
				roots = append(roots, WrapperVariable{f.Name, ir.VarID(i)})
			}
		}
	}
	return roots
}

func callSites(functions []*ir.Function, registry ir.Registry, byName map[string]*ir.Function) []callSite {
	var sites []callSite
	for _, f := range functions {
		for _, stmt := range f.Statements {
			inv, ok := stmt.(*ir.Invocation)
			if !ok {
				continue
			}
			cl, ok := registry.Libfunc(inv.LibfuncID)
			if !ok || cl.Kind != ir.LibfuncFunctionCall {
				continue
			}
			callee, ok := byName[cl.CalleeName]
			if !ok {
				continue
			}
			if callee.Type != ir.TypePrivate && callee.Type != ir.TypeLoop {
				continue
			}
			sites = append(sites, callSite{caller: f.Name, callee: cl.CalleeName, args: inv.Args})
		}
	}
	return sites
}

// Propagate runs the inter-procedural propagation fixpoint of spec.md
// §4.5: it carries ABI-entry parameter taint through private/loop call
// boundaries by translating each tainted actual argument to the callee's
// same-position formal parameter, repeating until no taint map changes.
//
// taints must already hold the per-function graphs built by New for every
// function in functions; Propagate mutates them (and creates an entry for
// any callee that doesn't have one yet) in place.
func Propagate(taints map[string]*Taint, functions []*ir.Function, registry ir.Registry) {
	byName := make(map[string]*ir.Function, len(functions))
	for _, f := range functions {
		byName[f.Name] = f
	}
	roots := abiRoots(functions)
	sites := callSites(functions, registry, byName)

	for changed := true; changed; {
		changed = false
		for _, site := range sites {
			callerTaint, ok := taints[site.caller]
			if !ok {
				continue
			}
			calleeTaint, ok := taints[site.callee]
			if !ok {
				calleeTaint = &Taint{edges: map[WrapperVariable]map[WrapperVariable]bool{}}
				taints[site.callee] = calleeTaint
			}
			for i, argVar := range site.args {
				sink := WrapperVariable{site.caller, argVar}
				for _, q := range roots {
					// q need not belong to site.caller: a prior
					// propagation round may already have threaded an
					// upstream ABI root's taint into this caller's own
					// map (it is itself a private callee reached from
					// further up the call chain).
					if !callerTaint.MultiStepTaint(q)[sink] {
						continue
					}
					translated := WrapperVariable{site.callee, ir.VarID(i)}
					if calleeTaint.AddTaint(q, translated) {
						changed = true
					}
				}
			}
		}
	}
}

// IsTainted reports whether some ABI-entry parameter forward-taints
// (function, variable) under the function's (possibly
// inter-procedurally-propagated) taint graph.
func IsTainted(taints map[string]*Taint, functions []*ir.Function, function string, variable ir.VarID) bool {
	t, ok := taints[function]
	if !ok {
		return false
	}
	target := WrapperVariable{function, variable}
	for _, q := range abiRoots(functions) {
		if t.MultiStepTaint(q)[target] {
			return true
		}
	}
	return false
}
