// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package detectors

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/taint"
)

// useAfterPopFront is the superset of arrayUseAfterPopFront covering both
// array::pop_front and the snapshot-span equivalents
// (Span::pop_front/pop_back), which Sierra lowers to
// array_snapshot_pop_front/back. Grounded on use_after_pop_front.rs.
type useAfterPopFront struct{}

func init() { register(useAfterPopFront{}) }

func (useAfterPopFront) Name() string { return "use-after-pop-front" }
func (useAfterPopFront) Description() string {
	return "Detect array/span pop_front or pop_back usage without reading the popped element"
}
func (useAfterPopFront) Confidence() Confidence { return ConfidenceLow }
func (useAfterPopFront) Impact() Impact         { return Informational }

func (d useAfterPopFront) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.FunctionsUserDefined() {
			for _, hit := range collectPopFronts(unit, f, true) {
				bad := taint.WrapperVariable{Function: f.Name, Variable: hit.v}
				if isUsedAfterPopFront(unit, f, bad, hit.index) {
					continue
				}
				collection, op := "array", "pop_front"
				if hit.span {
					collection, op = "span", "pop_front/pop_back"
				}
				findings = append(findings, Finding{
					Name:       d.Name(),
					Impact:     d.Impact(),
					Confidence: d.Confidence(),
					Message: fmt.Sprintf(
						"The function %s calls %s::%s but the result isn't used, which is suspicious",
						f.Name, collection, op,
					),
				})
			}
		}
	}
	return findings
}
