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

// unenforcedView flags a function declared view in the ABI that still
// writes to storage. Grounded on unenforced_view.rs; the original builds
// two overlapping result sets (one per loop) that collapse to the same
// check, so this keeps a single pass.
type unenforcedView struct{}

func init() { register(unenforcedView{}) }

func (unenforcedView) Name() string        { return "unenforced-view" }
func (unenforcedView) Description() string { return "function has view decorator but modifies state" }
func (unenforcedView) Confidence() Confidence { return ConfidenceMedium }
func (unenforcedView) Impact() Impact       { return Medium }

func (d unenforcedView) Run(cu *core.CoreUnit) []Finding {
	var findings []Finding
	for _, unit := range cu.Units {
		for _, f := range unit.Functions() {
			if f.Type != ir.TypeView || len(f.StorageVarsWritten()) == 0 {
				continue
			}
			idx := strings.LastIndex(f.Name, "::")
			declaration, name := f.Name, f.Name
			if idx >= 0 {
				declaration, name = f.Name[:idx], f.Name[idx+2:]
			}
			findings = append(findings, Finding{
				Name:       d.Name(),
				Impact:     d.Impact(),
				Confidence: d.Confidence(),
				Message:    fmt.Sprintf("%s defined in %s is declared as view but writes to the storage variables", name, declaration),
			})
		}
	}
	return findings
}
