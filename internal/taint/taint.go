// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package taint implements the per-function variable taint graph and the
// inter-procedural fixpoint that propagates ABI-entry parameters through
// private/loop call boundaries.
package taint

import "github.com/aclements/lirscan/internal/ir"

// WrapperVariable uniquely names a variable across functions: a bare
// ir.VarID is only unique within the function that declares it.
type WrapperVariable struct {
	Function string
	Variable ir.VarID
}

// Taint is a per-function (but, after inter-procedural propagation, not
// exclusively per-function-keyed) source-to-sinks taint relation.
type Taint struct {
	edges map[WrapperVariable]map[WrapperVariable]bool
}

// New builds the per-function taint graph: for every Invocation, every
// output variable is added as a sink of every input variable. Return
// statements contribute no edges.
func New(statements []ir.Statement, function string) *Taint {
	t := &Taint{edges: map[WrapperVariable]map[WrapperVariable]bool{}}
	for _, stmt := range statements {
		inv, ok := stmt.(*ir.Invocation)
		if !ok {
			continue
		}
		var written []ir.VarID
		for _, br := range inv.Branches {
			written = append(written, br.Results...)
		}
		for _, v := range written {
			sink := WrapperVariable{function, v}
			for _, u := range inv.Args {
				source := WrapperVariable{function, u}
				t.AddTaint(source, sink)
			}
		}
	}
	return t
}

// AddTaint records that source taints sink. Returns true if sink was not
// already recorded for source.
func (t *Taint) AddTaint(source, sink WrapperVariable) bool {
	sinks, ok := t.edges[source]
	if !ok {
		sinks = map[WrapperVariable]bool{}
		t.edges[source] = sinks
	}
	if sinks[sink] {
		return false
	}
	sinks[sink] = true
	return true
}

// SingleStepTaint returns the variables directly tainted by source.
func (t *Taint) SingleStepTaint(source WrapperVariable) map[WrapperVariable]bool {
	return t.edges[source]
}

// MultiStepTaint returns the reflexive-transitive closure of
// SingleStepTaint starting from source, via saturating BFS: repeatedly
// fold the frontier into the result and step it forward until the
// frontier adds nothing new.
func (t *Taint) MultiStepTaint(source WrapperVariable) map[WrapperVariable]bool {
	result := map[WrapperVariable]bool{}
	update := map[WrapperVariable]bool{source: true}
	for !isSubset(update, result) {
		for v := range update {
			result[v] = true
		}
		next := map[WrapperVariable]bool{}
		for v := range update {
			for s := range t.SingleStepTaint(v) {
				next[s] = true
			}
		}
		update = next
	}
	return result
}

func isSubset(a, b map[WrapperVariable]bool) bool {
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// TaintsAnySinksVariable returns the subset of sinks that source
// multi-step-taints.
func (t *Taint) TaintsAnySinksVariable(source WrapperVariable, sinks map[WrapperVariable]bool) []WrapperVariable {
	reached := t.MultiStepTaint(source)
	var out []WrapperVariable
	for s := range sinks {
		if reached[s] {
			out = append(out, s)
		}
	}
	return out
}

// TaintsAnySinks reports whether source multi-step-taints any of sinks.
func (t *Taint) TaintsAnySinks(source WrapperVariable, sinks map[WrapperVariable]bool) bool {
	reached := t.MultiStepTaint(source)
	for s := range sinks {
		if reached[s] {
			return true
		}
	}
	return false
}

// TaintsAnySourcesVariable returns the subset of sources that
// multi-step-taint sink.
func (t *Taint) TaintsAnySourcesVariable(sources map[WrapperVariable]bool, sink WrapperVariable) []WrapperVariable {
	var out []WrapperVariable
	for src := range sources {
		if t.MultiStepTaint(src)[sink] {
			out = append(out, src)
		}
	}
	return out
}

// TaintsAnySources reports whether sink is multi-step-tainted by any of
// sources.
func (t *Taint) TaintsAnySources(sources map[WrapperVariable]bool, sink WrapperVariable) bool {
	for src := range sources {
		if t.MultiStepTaint(src)[sink] {
			return true
		}
	}
	return false
}
