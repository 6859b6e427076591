// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package printers

import (
	"fmt"

	"github.com/aclements/lirscan/internal/core"
)

// cfgOptimizedPrinter renders each selected function's optimized CFG
// (merged straight-line runs) as a DOT digraph. Grounded on
// printers/cfg_optimized.rs.
type cfgOptimizedPrinter struct{}

func init() { register(cfgOptimizedPrinter{}) }

func (cfgOptimizedPrinter) Name() string { return "cfg-optimized" }
func (cfgOptimizedPrinter) Description() string {
	return "Export the optimized CFG of each function as a DOT graph"
}

func (p cfgOptimizedPrinter) Run(cu *core.CoreUnit, opts Options) []Result {
	var results []Result
	for _, unit := range cu.Units {
		for _, f := range functionsFor(unit, opts) {
			cfg := f.GetCFGOptimized()
			if cfg == nil {
				continue
			}
			results = append(results, Result{
				Name:    p.Name(),
				Message: fmt.Sprintf("CFG optimized for the function %s in %s", f.Name, cfgToDot(f.Name, cfg)),
			})
		}
	}
	return results
}
