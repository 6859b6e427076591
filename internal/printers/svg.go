// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package printers

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// svgPrinter renders each selected function's regular CFG as a simple block
// diagram: one box per basic block stacked top to bottom, one line per
// edge. This supplements the DOT printers with a format a browser can show
// directly, without a graphviz installation.
type svgPrinter struct{}

func init() { register(svgPrinter{}) }

func (svgPrinter) Name() string        { return "svg" }
func (svgPrinter) Description() string { return "Export the CFG of each function as an SVG diagram" }

const (
	svgBoxWidth   = 420
	svgBoxHeight  = 28
	svgBoxMargin  = 16
	svgLineHeight = 14
)

func (p svgPrinter) Run(cu *core.CoreUnit, opts Options) []Result {
	var results []Result
	for _, unit := range cu.Units {
		for _, f := range functionsFor(unit, opts) {
			cfg := f.GetCFG()
			if cfg == nil || len(cfg.Blocks) == 0 {
				continue
			}
			results = append(results, Result{
				Name:    p.Name(),
				Message: fmt.Sprintf("SVG CFG for the function %s\n%s", f.Name, renderSVG(cfg)),
			})
		}
	}
	return results
}

func renderSVG(cfg *ir.CFG) string {
	height := len(cfg.Blocks)*(svgBoxHeight+svgBoxMargin) + svgBoxMargin
	width := svgBoxWidth + 2*svgBoxMargin

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)

	top := func(id int) int { return svgBoxMargin + id*(svgBoxHeight+svgBoxMargin) }

	for _, block := range cfg.Blocks {
		y := top(block.ID)
		canvas.Rect(svgBoxMargin, y, svgBoxWidth, svgBoxHeight, "fill:#eef;stroke:#448;stroke-width:1")
		canvas.Text(svgBoxMargin+6, y+svgLineHeight, fmt.Sprintf("bb%d (%d instrs)", block.ID, len(block.Instructions)),
			`font-family="monospace" font-size="12"`)
	}
	for _, block := range cfg.Blocks {
		y1 := top(block.ID) + svgBoxHeight
		for _, succ := range block.Outgoing {
			y2 := top(succ)
			x := svgBoxMargin + svgBoxWidth/2
			canvas.Line(x, y1, x, y2, "stroke:#884;stroke-width:2")
		}
	}
	canvas.End()
	return buf.String()
}
