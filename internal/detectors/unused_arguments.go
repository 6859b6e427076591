// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"
	"strings"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
	"github.com/aclements/lirscan/internal/util"
)

// unusedArguments flags a function whose leading declared parameter is
// dropped without being read, going by the leading run of Drop statements
// every Sierra-style function body opens with (one per unused parameter).
// Grounded on unused_arguments.rs. The implicit ContractState self
// parameter is exempted, since the compiler allows it to go unused.
type unusedArguments struct{}

func init() { register(unusedArguments{}) }

func (unusedArguments) Name() string        { return "unused-arguments" }
func (unusedArguments) Description() string { return "Detect unused arguments" }
func (unusedArguments) Confidence() Confidence { return ConfidenceHigh }
func (unusedArguments) Impact() Impact       { return Low }

func (d unusedArguments) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			offset := len(f.ParamsAll()) - len(f.ParamsFiltered())
			for _, stmt := range f.GetStatements() {
				inv, ok := stmt.(*ir.Invocation)
				if !ok {
					continue
				}
				cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
				if !ok || cl.Kind != ir.LibfuncDrop {
					break
				}
				if strings.HasSuffix(cl.DroppedTypeName, "::ContractState") {
					continue
				}
				ordinal := int(inv.Args[0]) - offset + 1
				findings = append(findings, Finding{
					Name:       d.Name(),
					Impact:     d.Impact(),
					Confidence: d.Confidence(),
					Message:    fmt.Sprintf("The %s argument in %s is never used", util.NumberToOrdinal(ordinal), f.Name),
				})
			}
		}
	}
	return findings
}
