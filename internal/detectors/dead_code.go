// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"
	"strings"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// deadCode flags private functions never called from anywhere in the unit.
// It scans every function's private calls, not just user-defined ones,
// since compiler-generated trait implementations (Serde, StorageAccess)
// can call private helpers too. Inlined callees still look unreferenced
// under this walk and are reported as dead code, matching the original.
// Grounded on dead_code.rs.
type deadCode struct{}

func init() { register(deadCode{}) }

func (deadCode) Name() string        { return "dead-code" }
func (deadCode) Description() string { return "Detect private functions never used" }
func (deadCode) Confidence() Confidence { return ConfidenceMedium }
func (deadCode) Impact() Impact       { return Low }

func (d deadCode) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		unused := map[string]bool{}
		for _, f := range unit.Functions() {
			if f.Type == ir.TypePrivate {
				unused[f.Name] = true
			}
		}

		for _, f := range unit.Functions() {
			for _, inst := range f.PrivateCalls() {
				inv, ok := inst.AsInvocation()
				if !ok {
					continue
				}
				cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
				if !ok || cl.Kind != ir.LibfuncFunctionCall {
					continue
				}
				delete(unused, cl.CalleeName)
			}
		}

		for name := range unused {
			idx := strings.LastIndex(name, "::")
			declaration, funcName := name, name
			if idx >= 0 {
				declaration, funcName = name[:idx], name[idx+2:]
			}
			findings = append(findings, Finding{
				Name:       d.Name(),
				Impact:     d.Impact(),
				Confidence: d.Confidence(),
				Message:    fmt.Sprintf("Function %s defined in %s is never used", funcName, declaration),
			})
		}
	}
	return findings
}
