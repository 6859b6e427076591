// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// felt252Overflow flags felt252 arithmetic: the felt252 field has no
// overflow trap, so operations like subtraction can silently wrap. The
// message names the operands that are user-controlled, if any. Grounded on
// felt252_overflow.rs. A subtraction whose result feeds a later
// felt252_is_zero check is treated as a comparison, not arithmetic, and
// skipped, same as the original.
type felt252Overflow struct{}

func init() { register(felt252Overflow{}) }

func (felt252Overflow) Name() string { return "felt252-overflow" }
func (felt252Overflow) Description() string {
	return "Detect felt252 arithmetic overflow with user-controlled params"
}
func (felt252Overflow) Confidence() Confidence { return ConfidenceMedium }
func (felt252Overflow) Impact() Impact         { return High }

type felt252SubUse struct {
	stmt ir.Statement
	args []ir.VarID
}

func (d felt252Overflow) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			subVars := map[ir.VarID]felt252SubUse{}
			for _, stmt := range f.GetStatements() {
				inv, ok := stmt.(*ir.Invocation)
				if !ok {
					continue
				}
				cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
				if !ok {
					continue
				}

				switch cl.Kind {
				case ir.LibfuncFelt252BinaryOp:
					if cl.Felt252Op == "sub" {
						if len(inv.Branches) > 0 && len(inv.Branches[0].Results) > 0 {
							subVars[inv.Branches[0].Results[0]] = felt252SubUse{stmt, inv.Args}
						}
						continue
					}
					d.checkTainted(unit, f, stmt, inv.Args, &findings)
				case ir.LibfuncFelt252IsZero:
					for v := range subVars {
						if containsVar(inv.Args, v) {
							delete(subVars, v)
						}
					}
				}
			}
			for _, use := range subVars {
				d.checkTainted(unit, f, use.stmt, use.args, &findings)
			}
		}
	}
	return findings
}

func containsVar(args []ir.VarID, v ir.VarID) bool {
	for _, a := range args {
		if a == v {
			return true
		}
	}
	return false
}

func (d felt252Overflow) checkTainted(unit *core.CompilationUnit, f *ir.Function, stmt ir.Statement, args []ir.VarID, findings *[]Finding) {
	var taintedBy []ir.VarID
	for _, a := range args {
		if unit.IsTainted(f.Name, a) {
			taintedBy = append(taintedBy, a)
		}
	}
	var msg string
	if len(taintedBy) == 0 {
		msg = fmt.Sprintf("The function %s uses the felt252 operation %s, which is not overflow safe", f.Name, stmt)
	} else {
		msg = fmt.Sprintf("The function %s uses the felt 252 operation %s with the user-controlled parameters: %v", f.Name, stmt, taintedBy)
	}
	*findings = append(*findings, Finding{
		Name:       d.Name(),
		Impact:     d.Impact(),
		Confidence: d.Confidence(),
		Message:    msg,
	})
}
