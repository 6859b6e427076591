// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package printers

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
)

// cfgPrinter renders each selected function's regular CFG as a DOT digraph.
// Grounded on printers/cfg.rs.
type cfgPrinter struct{}

func init() { register(cfgPrinter{}) }

func (cfgPrinter) Name() string        { return "cfg" }
func (cfgPrinter) Description() string { return "Export the CFG of each function as a DOT graph" }

func (p cfgPrinter) Run(cu *core.CoreUnit, opts Options) []Result {
	var results []Result
	for _, unit := range cu.Units {
		for _, f := range functionsFor(unit, opts) {
			cfg := f.GetCFG()
			if cfg == nil {
				continue
			}
			results = append(results, Result{
				Name:    p.Name(),
				Message: fmt.Sprintf("CFG for the function %s in %s", f.Name, cfgToDot(f.Name, cfg)),
			})
		}
	}
	return results
}
