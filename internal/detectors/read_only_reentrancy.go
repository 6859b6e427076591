// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// readOnlyReentrancy flags a view function reading a storage variable that
// some other function writes after an external call. Grounded on
// read_only_reentrancy.rs.
type readOnlyReentrancy struct{}

func init() { register(readOnlyReentrancy{}) }

func (readOnlyReentrancy) Name() string { return "read-only-reentrancy" }
func (readOnlyReentrancy) Description() string {
	return "Detect when a view function read a storage variable written after an external call"
}
func (readOnlyReentrancy) Confidence() Confidence { return ConfidenceMedium }
func (readOnlyReentrancy) Impact() Impact         { return Medium }

func (d readOnlyReentrancy) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		// storage variable base name -> set of view function names that read it.
		varsRead := map[string]map[string]bool{}
		for _, f := range unit.FunctionsUserDefined() {
			if f.Type != ir.TypeView {
				continue
			}
			for _, inst := range f.StorageVarsRead() {
				base, ok := storageCalleeBase(unit, inst)
				if !ok {
					continue
				}
				if varsRead[base] == nil {
					varsRead[base] = map[string]bool{}
				}
				varsRead[base][f.Name] = true
			}
		}

		for _, f := range unit.FunctionsUserDefined() {
			cfg := f.GetCFG()
			if cfg == nil {
				continue
			}
			for _, b := range cfg.Blocks {
				info := unit.ReentrancyAt(b.Ref()).Info()
				if info == nil {
					continue
				}
				for call := range info.ExternalCalls {
					for written := range info.StorageWrites {
						writeBlock, ok := blockAt(unit, written)
						if !ok {
							continue
						}
						writeInst, ok := writeBlock.StorageWrite()
						if !ok {
							continue
						}
						base, ok := storageCalleeBase(unit, writeInst)
						if !ok {
							continue
						}
						viewers, ok := varsRead[base]
						if !ok {
							continue
						}
						callBlock, ok := blockAt(unit, call)
						if !ok {
							continue
						}
						callInst, _ := callBlock.ExternalCall()
						for viewer := range viewers {
							findings = append(findings, Finding{
								Name:       d.Name(),
								Impact:     d.Impact(),
								Confidence: d.Confidence(),
								Message: fmt.Sprintf(
									"Read only reentrancy in %s\n\tExternal call %s done in %s\n\tVariable written after %s in %s",
									viewer, callInst, call.Function, writeInst, written.Function,
								),
							})
						}
					}
				}
			}
		}
	}
	return findings
}

// storageCalleeBase resolves a storage-accessor invocation's callee name
// and strips its ::read/::write suffix.
func storageCalleeBase(unit *core.CompilationUnit, inst ir.Instruction) (string, bool) {
	inv, ok := inst.AsInvocation()
	if !ok {
		return "", false
	}
	cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
	if !ok {
		return "", false
	}
	return storageVarBase(cl.CalleeName), true
}
