// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package printers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aclements/lirscan/internal/core"
	"github.com/aclements/lirscan/internal/ir"
)

// callgraphPrinter renders one DOT digraph per compilation unit: a cluster
// subgraph per module (the part of a function's fully-qualified name before
// its last "::"), an edge per direct private/external/library call.
// Grounded on printers/callgraph.rs. Unlike the original, which writes a
// <module>.dot file as a side effect, this returns the rendered text as the
// result message and leaves writing it to disk up to the caller, keeping
// the printer itself side-effect free.
type callgraphPrinter struct{}

func init() { register(callgraphPrinter{}) }

func (callgraphPrinter) Name() string        { return "callgraph" }
func (callgraphPrinter) Description() string { return "Export the function call graph as a DOT graph" }

func (p callgraphPrinter) Run(cu *core.CoreUnit, opts Options) []Result {
	var results []Result
	for _, unit := range cu.Units {
		functions := functionsFor(unit, opts)
		if len(functions) == 0 {
			continue
		}
		moduleName, _ := splitModule(functions[0].Name)

		clusters := map[string][]string{}
		var clusterOrder []string
		seenNode := map[string]bool{}
		var edges []string
		seenEdge := map[string]bool{}

		addNode := func(name string) {
			if seenNode[name] {
				return
			}
			seenNode[name] = true
			mod, short := splitModule(name)
			if _, ok := clusters[mod]; !ok {
				clusterOrder = append(clusterOrder, mod)
			}
			clusters[mod] = append(clusters[mod], fmt.Sprintf("    %q [color=blue, shape=square, label=%q];", name, short))
		}

		for _, f := range functions {
			addNode(f.Name)
			for _, group := range [][]ir.Instruction{f.PrivateCalls(), f.ExternalCalls(), f.LibraryCalls()} {
				for _, inst := range group {
					inv, ok := inst.AsInvocation()
					if !ok {
						continue
					}
					cl, ok := unit.Registry.Libfunc(inv.LibfuncID)
					if !ok || cl.Kind != ir.LibfuncFunctionCall {
						continue
					}
					edgeKey := f.Name + "->" + cl.CalleeName
					if seenEdge[edgeKey] {
						continue
					}
					seenEdge[edgeKey] = true
					addNode(cl.CalleeName)
					edges = append(edges, fmt.Sprintf("  %q -> %q;", f.Name, cl.CalleeName))
				}
			}
		}

		var b strings.Builder
		fmt.Fprintf(&b, "digraph %q {\n", moduleName)
		sort.Strings(clusterOrder)
		for _, mod := range clusterOrder {
			fmt.Fprintf(&b, "  subgraph \"cluster_%s\" {\n", mod)
			fmt.Fprintf(&b, "    label=%q;\n", lastSegment(mod))
			for _, node := range clusters[mod] {
				b.WriteString(node + "\n")
			}
			b.WriteString("  }\n")
		}
		for _, e := range edges {
			b.WriteString(e + "\n")
		}
		b.WriteString("}\n")

		results = append(results, Result{
			Name:    p.Name(),
			Message: fmt.Sprintf("Call graph for module %s\n%s", moduleName, b.String()),
		})
	}
	return results
}

// splitModule splits a fully-qualified function name into its module
// (everything before the last "::") and its short name, stripping a
// trailing generic argument list the way get_names does in the original.
func splitModule(name string) (module, short string) {
	base := name
	if i := strings.Index(base, "<"); i >= 0 {
		base = strings.TrimSuffix(base[:i], "::")
	}
	idx := strings.LastIndex(base, "::")
	if idx < 0 {
		return base, base
	}
	return base[:idx], base[idx+2:]
}

func lastSegment(module string) string {
	idx := strings.LastIndex(module, "::")
	if idx < 0 {
		return module
	}
	return module[idx+2:]
}
