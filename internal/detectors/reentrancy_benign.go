// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
)

// reentrancyBenign flags a storage write reachable after an external call
// whose variable wasn't read before that call (so no invariant the
// function relied on could have been violated by a reentrant write to it).
// Grounded on reentrancy_benign.rs.
type reentrancyBenign struct{}

func init() { register(reentrancyBenign{}) }

func (reentrancyBenign) Name() string { return "reentrancy-benign" }
func (reentrancyBenign) Description() string {
	return "Detect when a storage variable is written after an external call but not read before"
}
func (reentrancyBenign) Confidence() Confidence { return ConfidenceMedium }
func (reentrancyBenign) Impact() Impact         { return Low }

func (d reentrancyBenign) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
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
					readBefore, ok := info.VariablesReadBeforeCalls[call]
					if !ok {
						continue
					}
					readBases := map[string]bool{}
					for readRef := range readBefore {
						readBlock, ok := blockAt(unit, readRef)
						if !ok {
							continue
						}
						readInst, ok := readBlock.StorageRead()
						if !ok {
							continue
						}
						base, ok := storageCalleeBase(unit, readInst)
						if ok {
							readBases[base] = true
						}
					}

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
						if !ok || readBases[base] {
							continue
						}
						callBlock, ok := blockAt(unit, call)
						if !ok {
							continue
						}
						callInst, _ := callBlock.ExternalCall()
						findings = append(findings, Finding{
							Name:       d.Name(),
							Impact:     d.Impact(),
							Confidence: d.Confidence(),
							Message: fmt.Sprintf(
								"Reentrancy in %s\n\tExternal call %s done in %s\n\tVariable written after %s in %s.",
								f.Name, callInst, call.Function, writeInst, written.Function,
							),
						})
					}
				}
			}
		}
	}
	return findings
}
