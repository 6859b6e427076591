// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/taint"
)

// arrayUseAfterPopFront flags an array that is still used after
// array::pop_front removed its front element: appended to, passed to a
// call or an event, or returned. Grounded on array_use_after_pop_front.rs.
// Unlike
// use-after-pop-front, this one only tracks Array, not Span.
type arrayUseAfterPopFront struct{}

func init() { register(arrayUseAfterPopFront{}) }

func (arrayUseAfterPopFront) Name() string { return "array-use-after-pop-front" }
func (arrayUseAfterPopFront) Description() string {
	return "Detect use of an array after removing its front element"
}
func (arrayUseAfterPopFront) Confidence() Confidence { return ConfidenceLow }
func (arrayUseAfterPopFront) Impact() Impact         { return Informational }

func (d arrayUseAfterPopFront) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			for _, hit := range collectPopFronts(unit, f, false) {
				bad := taint.WrapperVariable{Function: f.Name, Variable: hit.v}
				if !isUsedAfterPopFront(unit, f, bad, hit.index) {
					continue
				}
				findings = append(findings, Finding{
					Name:       d.Name(),
					Impact:     d.Impact(),
					Confidence: d.Confidence(),
					Message: fmt.Sprintf(
						"The function %s uses an array after calling array::pop_front",
						f.Name,
					),
				})
			}
		}
	}
	return findings
}
