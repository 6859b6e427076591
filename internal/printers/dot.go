// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package printers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aclements/lirscan/internal/ir"
)

// cfgToDot renders a CFG as a DOT digraph: one node per block labeled with
// its instructions, one edge per successor.
func cfgToDot(graphName string, cfg *ir.CFG) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph \"%s\" {\n", graphName)
	fmt.Fprintf(&b, "  node [shape=box, fontname=\"monospace\"];\n")
	for _, block := range cfg.Blocks {
		fmt.Fprintf(&b, "  %d [label=%s];\n", block.ID, quoteLabel(blockLabel(block)))
	}
	for _, block := range cfg.Blocks {
		for _, succ := range block.Outgoing {
			fmt.Fprintf(&b, "  %d -> %d;\n", block.ID, succ)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func blockLabel(block *ir.BasicBlock) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("bb%d", block.ID))
	for _, instr := range block.Instructions {
		lines = append(lines, instr.String())
	}
	return strings.Join(lines, "\\l") + "\\l"
}

func quoteLabel(s string) string {
	return strconv.Quote(s)
}
