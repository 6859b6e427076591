// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
)

// controlledLibraryCall flags library_call invocations whose class hash
// argument is tainted by an ABI-entry parameter. Grounded on
// controlled_library_call.rs; the original filters compiler-injected
// builtin arguments out of the call's formal signature before taking
// argument 0 as the class hash. This model doesn't carry a per-call formal
// signature, so the class hash is simply the invocation's first argument,
// which matches the real calling convention for both the library_call
// syscall and the generated dispatcher wrapper.
type controlledLibraryCall struct{}

func init() { register(controlledLibraryCall{}) }

func (controlledLibraryCall) Name() string        { return "controlled-library-call" }
func (controlledLibraryCall) Description() string { return "Detect library calls with a user controlled class hash" }
func (controlledLibraryCall) Confidence() Confidence { return ConfidenceMedium }
func (controlledLibraryCall) Impact() Impact       { return High }

func (d controlledLibraryCall) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			for _, inst := range f.LibraryCalls() {
				inv, ok := inst.AsInvocation()
				if !ok || len(inv.Args) == 0 {
					continue
				}
				classHash := inv.Args[0]
				if unit.IsTainted(f.Name, classHash) {
					findings = append(findings, Finding{
						Name:       d.Name(),
						Impact:     d.Impact(),
						Confidence: d.Confidence(),
						Message:    fmt.Sprintf("Library call to user controlled class hash in %s\n %s", f.Name, inst),
					})
				}
			}
		}
	}
	return findings
}
