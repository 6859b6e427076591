// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
	"github.com/aclements/lirscan/internal/taint"
)

// uncheckedL1HandlerFrom flags L1 handlers that never check their from
// address, recursing through private/loop callees to see if the check
// happens downstream. Grounded on unchecked_l1_handler_from.rs; unlike the
// original, tainted arguments are translated across call boundaries by
// positional index (translateTaintedArgsByPosition) rather than by
// subtracting variable ids, which the original itself notes is "very
// likely to [produce] a wrong var id".
type uncheckedL1HandlerFrom struct{}

func init() { register(uncheckedL1HandlerFrom{}) }

func (uncheckedL1HandlerFrom) Name() string        { return "unchecked-l1-handler-from" }
func (uncheckedL1HandlerFrom) Description() string  { return "Detect L1 handlers without from address check" }
func (uncheckedL1HandlerFrom) Confidence() Confidence { return ConfidenceMedium }
func (uncheckedL1HandlerFrom) Impact() Impact       { return High }

func (d uncheckedL1HandlerFrom) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.Functions() {
			if f.Type != ir.TypeL1Handler {
				continue
			}
			fromVar, ok := nthUserParamVarID(f, 1)
			if !ok {
				continue
			}
			source := map[taint.WrapperVariable]bool{{Function: f.Name, Variable: fromVar}: true}
			if !d.fromCheckedInFunction(unit, f, source, map[string]bool{}) {
				findings = append(findings, Finding{
					Name:       d.Name(),
					Impact:     d.Impact(),
					Confidence: d.Confidence(),
					Message:    fmt.Sprintf("The L1 handler function %s does not check the L1 from address", f.Name),
				})
			}
		}
	}
	return findings
}

func (d uncheckedL1HandlerFrom) fromCheckedInFunction(unit *core.CompilationUnit, f *ir.Function, sources map[taint.WrapperVariable]bool, checkedPrivate map[string]bool) bool {
	t := unit.GetTaint(f.Name)
	if t == nil {
		return false
	}
	for _, instr := range f.GetStatements() {
		inv, ok := instr.(*ir.Invocation)
		if !ok {
			continue
		}
		cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
		if !ok || cl.Kind != ir.LibfuncFelt252IsZero {
			continue
		}
		sink := taint.WrapperVariable{Function: f.Name, Variable: inv.Args[0]}
		if t.TaintsAnySources(sources, sink) {
			return true
		}
	}

	for _, inst := range f.PrivateCalls() {
		inv, callee, ok := calleeOf(unit, inst)
		if !ok || checkedPrivate[callee.Name] {
			continue
		}
		checkedPrivate[callee.Name] = true
		translated := translateTaintedArgsByPosition(t, f.Name, inv.Args, sources, callee.Name)
		if len(translated) == 0 {
			continue
		}
		if d.fromCheckedInFunction(unit, callee, translated, checkedPrivate) {
			return true
		}
	}
	return false
}
